package ez

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	mdw "devprofile-api/internal/transport/http/middleware"
	resp "devprofile-api/internal/transport/http/response"
)

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindURI   Binder = "uri"
	BindNone  Binder = "none"
)

// location names the request part a field came from in validation errors.
func (b Binder) location() string {
	switch b {
	case BindJSON:
		return "body"
	case BindQuery:
		return "query"
	case BindURI:
		return "params"
	}
	return ""
}

// AErr carries the HTTP status and body for a failed action.
type AErr struct {
	Code   int
	Msg    string
	Fields []resp.FieldError
	Err    error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

// NotFound is reported as 400, the status clients of this API expect for a missing record.
func NotFound(msg string) error { return &AErr{Code: http.StatusBadRequest, Msg: msg} }

// Invalid reports a 400 with an {errors:[...]} body.
func Invalid(fields ...resp.FieldError) error {
	return &AErr{Code: http.StatusBadRequest, Fields: fields}
}

// Action describes one endpoint: I is bound from the request, O is written as JSON.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Auth    bool // run the group's auth middleware first
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			e.fail(c, bindError(err, a.Binder, &in))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}

	chain := make([]gin.HandlerFunc, 0, 2)
	if a.Auth {
		if e.auth == nil {
			panic("ez: " + a.Method + " " + e.fullPath(a.Path) + " needs auth but the group has none")
		}
		chain = append(chain, e.auth)
	}
	e.Handle(a.Method, a.Path, append(chain, h)...)
}

func bind(c *gin.Context, b Binder, in any) error {
	switch b {
	case BindJSON:
		err := c.ShouldBindJSON(in)
		if errors.Is(err, io.EOF) {
			// empty body: still enforce required fields
			return binding.Validator.ValidateStruct(in)
		}
		return err
	case BindQuery:
		return c.ShouldBindQuery(in)
	case BindURI:
		return c.ShouldBindUri(in)
	}
	return nil
}

// fail writes the error response. Anything that is not an *AErr is a 500
// and the cause is only logged.
func (e EZ) fail(c *gin.Context, err error) {
	var ae *AErr
	if !errors.As(err, &ae) {
		ae = &AErr{Code: http.StatusInternalServerError, Err: err}
	}
	if ae.Code >= http.StatusInternalServerError {
		e.log.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(ae.Code, resp.Error(ae.Code, ""))
		return
	}
	if ae.Fields != nil {
		c.AbortWithStatusJSON(ae.Code, resp.Invalid(ae.Fields...))
		return
	}
	c.AbortWithStatusJSON(ae.Code, resp.Error(ae.Code, ae.Msg))
}
