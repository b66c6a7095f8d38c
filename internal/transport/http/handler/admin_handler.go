package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devprofile-api/internal/service"
	httpez "devprofile-api/internal/transport/http/ez"
	"devprofile-api/pkg/utils"
)

// AdminHandler lists and removes accounts. The admin group already requires the admin role.
type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler { return &AdminHandler{users: users} }

type listUsersQ struct {
	Offset int    `form:"offset,default=0"  binding:"min=0"  msg:"offset must not be negative"`
	Limit  int    `form:"limit,default=20"  binding:"max=100" msg:"limit must be at most 100"`
	Q      string `form:"q"`
}

type idParam struct {
	ID string `uri:"id" binding:"required"`
}

type deletedID struct {
	ID string `json:"id"`
}

func (h *AdminHandler) MountAdmin(admin httpez.EZ) {
	httpez.RegisterAction(admin, httpez.Action[listUsersQ, service.UserPage]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listUsersQ) (service.UserPage, error) {
			return h.users.List(c.Request.Context(), in.Offset, in.Limit, in.Q)
		},
	})

	httpez.RegisterAction(admin, httpez.Action[idParam, deletedID]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, in *idParam) (deletedID, error) {
			if !utils.ValidID(in.ID) {
				return deletedID{}, httpez.NotFound("User not found")
			}
			if _, err := h.users.Me(c.Request.Context(), in.ID); err != nil {
				return deletedID{}, fromDomain(err)
			}
			if err := h.users.DeleteAccount(c.Request.Context(), in.ID); err != nil {
				return deletedID{}, fromDomain(err)
			}
			return deletedID{ID: in.ID}, nil
		},
	})
}
