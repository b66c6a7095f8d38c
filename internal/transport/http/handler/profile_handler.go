package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"devprofile-api/internal/domain"
	"devprofile-api/internal/service"
	httpez "devprofile-api/internal/transport/http/ez"
	resp "devprofile-api/internal/transport/http/response"
	"devprofile-api/pkg/utils"
)

type ProfileHandler struct {
	profiles *service.ProfileService
	users    *service.UserService
}

func NewProfileHandler(profiles *service.ProfileService, users *service.UserService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, users: users}
}

func (h *ProfileHandler) Priority() int { return 20 }

type profileReq struct {
	Handle         *string `json:"handle"`
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	Status         *string `json:"status" binding:"required,min=1" msg:"Status is required"`
	GithubUsername *string `json:"githubusername"`
	Skills         *string `json:"skills" binding:"required,min=1" msg:"Skills are required"`
	YouTube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	Instagram      *string `json:"instagram"`
	LinkedIn       *string `json:"linkedin"`
}

func (r *profileReq) input() service.ProfileInput {
	return service.ProfileInput{
		Handle:         r.Handle,
		Company:        r.Company,
		Website:        r.Website,
		Location:       r.Location,
		Bio:            r.Bio,
		Status:         r.Status,
		GithubUsername: r.GithubUsername,
		Skills:         r.Skills,
		YouTube:        r.YouTube,
		Twitter:        r.Twitter,
		Facebook:       r.Facebook,
		Instagram:      r.Instagram,
		LinkedIn:       r.LinkedIn,
	}
}

// experienceReq is shared by add and update; ID is only read by update.
type experienceReq struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"   binding:"required,min=1" msg:"Title is required"`
	Company     *string `json:"company" binding:"required,min=1" msg:"Company is required"`
	Location    *string `json:"location"`
	From        *Date   `json:"from"    binding:"required"       msg:"From date is required"`
	To          *Date   `json:"to"`
	Current     *bool   `json:"current"`
	Description *string `json:"description"`
}

func (r *experienceReq) input() (service.ExperienceInput, error) {
	from := r.From.ptr()
	if from == nil {
		return service.ExperienceInput{}, httpez.Invalid(resp.FieldError{Msg: "From date is required", Param: "from", Location: "body"})
	}
	return service.ExperienceInput{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		From:        from,
		To:          r.To.ptr(),
		Current:     r.Current,
		Description: r.Description,
	}, nil
}

type userIDParam struct {
	UserID string `uri:"user_id"`
}

type expIDParam struct {
	ExpID string `uri:"exp_id" binding:"required"`
}

type deletedOut struct {
	Msg string `json:"msg"`
}

func (h *ProfileHandler) MountAPI(api httpez.EZ) {
	httpez.RegisterAction(api, httpez.Action[struct{}, *domain.Profile]{
		Method: http.MethodGet,
		Path:   "/profile/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Profile, error) {
			p, err := h.profiles.Mine(c.Request.Context(), uid(c))
			if errors.Is(err, domain.ErrProfileNotFound) {
				return nil, httpez.NotFound(msgNoProfile)
			}
			return p, fromDomain(err)
		},
	})

	httpez.RegisterAction(api, httpez.Action[profileReq, *domain.Profile]{
		Method: http.MethodPost,
		Path:   "/profile",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *profileReq) (*domain.Profile, error) {
			p, err := h.profiles.Upsert(c.Request.Context(), uid(c), in.input())
			return p, fromDomain(err)
		},
	})

	httpez.RegisterAction(api, httpez.Action[struct{}, []domain.Profile]{
		Method: http.MethodGet,
		Path:   "/profile",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Profile, error) {
			ps, err := h.profiles.All(c.Request.Context())
			if err != nil {
				return nil, err
			}
			if ps == nil {
				ps = []domain.Profile{}
			}
			return ps, nil
		},
	})

	httpez.RegisterAction(api, httpez.Action[userIDParam, *domain.Profile]{
		Method: http.MethodGet,
		Path:   "/profile/user/:user_id",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, in *userIDParam) (*domain.Profile, error) {
			// a malformed id can never match, so it reads as not found
			if !utils.ValidID(in.UserID) {
				return nil, httpez.NotFound(msgProfileNotFound)
			}
			p, err := h.profiles.ByUserID(c.Request.Context(), in.UserID)
			return p, fromDomain(err)
		},
	})

	httpez.RegisterAction(api, httpez.Action[struct{}, deletedOut]{
		Method: http.MethodDelete,
		Path:   "/profile",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (deletedOut, error) {
			if err := h.users.DeleteAccount(c.Request.Context(), uid(c)); err != nil {
				return deletedOut{}, fromDomain(err)
			}
			return deletedOut{Msg: "User deleted"}, nil
		},
	})

	httpez.RegisterAction(api, httpez.Action[experienceReq, *domain.Profile]{
		Method: http.MethodPut,
		Path:   "/profile/experience",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *experienceReq) (*domain.Profile, error) {
			ei, err := in.input()
			if err != nil {
				return nil, err
			}
			p, err := h.profiles.AddExperience(c.Request.Context(), uid(c), ei)
			return p, fromDomain(err)
		},
	})

	httpez.RegisterAction(api, httpez.Action[experienceReq, *domain.Profile]{
		Method: http.MethodPost,
		Path:   "/profile/experience",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *experienceReq) (*domain.Profile, error) {
			if in.ID == "" {
				return nil, httpez.Invalid(resp.FieldError{Msg: "Experience id is required", Param: "id", Location: "body"})
			}
			ei, err := in.input()
			if err != nil {
				return nil, err
			}
			p, err := h.profiles.UpdateExperience(c.Request.Context(), uid(c), in.ID, ei)
			return p, fromDomain(err)
		},
	})

	httpez.RegisterAction(api, httpez.Action[expIDParam, *domain.Profile]{
		Method: http.MethodDelete,
		Path:   "/profile/experience/:exp_id",
		Binder: httpez.BindURI,
		Auth:   true,
		Handler: func(c *gin.Context, in *expIDParam) (*domain.Profile, error) {
			p, err := h.profiles.RemoveExperience(c.Request.Context(), uid(c), in.ExpID)
			return p, fromDomain(err)
		},
	})
}
