package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devprofile-api/internal/domain"
	"devprofile-api/internal/service"
	httpez "devprofile-api/internal/transport/http/ez"
)

// UserHandler serves registration, login and the caller's identity.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler { return &UserHandler{users: users} }

func (h *UserHandler) Priority() int { return 10 }

type registerReq struct {
	Name     string `json:"name"     binding:"required"       msg:"Name is required"`
	Email    string `json:"email"    binding:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" binding:"required,min=6" msg:"Please enter a password with 6 or more characters"`
}

type loginReq struct {
	Email    string `json:"email"    binding:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" binding:"required"       msg:"Password is required"`
}

type renameReq struct {
	Name string `json:"name" binding:"required" msg:"Name is required"`
}

type tokenOut struct {
	Token string `json:"token"`
}

func (h *UserHandler) MountAPI(api httpez.EZ) {
	httpez.RegisterAction(api, httpez.Action[registerReq, tokenOut]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *registerReq) (tokenOut, error) {
			tok, err := h.users.Register(c.Request.Context(), in.Name, in.Email, in.Password)
			if err != nil {
				return tokenOut{}, fromDomain(err)
			}
			return tokenOut{Token: tok}, nil
		},
	})

	httpez.RegisterAction(api, httpez.Action[renameReq, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users/name",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *renameReq) (*domain.User, error) {
			u, err := h.users.Rename(c.Request.Context(), uid(c), in.Name)
			return u, fromDomain(err)
		},
	})

	httpez.RegisterAction(api, httpez.Action[loginReq, tokenOut]{
		Method: http.MethodPost,
		Path:   "/auth",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginReq) (tokenOut, error) {
			tok, err := h.users.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return tokenOut{}, fromDomain(err)
			}
			return tokenOut{Token: tok}, nil
		},
	})

	httpez.RegisterAction(api, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/auth",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			u, err := h.users.Me(c.Request.Context(), uid(c))
			return u, fromDomain(err)
		},
	})
}
