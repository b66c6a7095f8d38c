package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"devprofile-api/internal/domain"
	httpez "devprofile-api/internal/transport/http/ez"
	mdw "devprofile-api/internal/transport/http/middleware"
	resp "devprofile-api/internal/transport/http/response"
)

const (
	msgNoProfile       = "There is no profile for this user"
	msgProfileNotFound = "Profile Not Found"
)

// fromDomain maps service errors onto responses. Unknown errors pass through as 500.
func fromDomain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrProfileNotFound):
		return httpez.NotFound(msgProfileNotFound)
	case errors.Is(err, domain.ErrExperienceNotFound):
		return httpez.NotFound("Experience not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return httpez.NotFound("User not found")
	case errors.Is(err, domain.ErrEmailTaken):
		return httpez.Invalid(resp.FieldError{Msg: "User already exists", Param: "email", Location: "body"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		return httpez.Invalid(resp.FieldError{Msg: "Invalid Credentials"})
	}
	return err
}

func uid(c *gin.Context) string { return c.GetString(mdw.KeyUserID) }
