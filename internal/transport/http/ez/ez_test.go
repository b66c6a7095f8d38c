package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdw "devprofile-api/internal/transport/http/middleware"
	resp "devprofile-api/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func newEZ() (*gin.Engine, EZ) {
	r := gin.New()
	return r, New(&r.RouterGroup, NewRoutes(), nil)
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type createReq struct {
	Name string `json:"name" binding:"required" msg:"Name is required"`
	Age  int    `json:"age"  binding:"min=1"`
}

func echo(c *gin.Context, in *createReq) (gin.H, error) {
	return gin.H{"name": in.Name, "age": in.Age}, nil
}

func TestRoutes_Claim(t *testing.T) {
	rt := NewRoutes()
	require.NoError(t, rt.Claim("get", "/a"))
	require.NoError(t, rt.Claim("POST", "/a"))
	assert.Error(t, rt.Claim("GET", "/a"))
	assert.NoError(t, rt.Claim("GET", "/a/b"))
}

func TestRegisterAction_DuplicateRoutePanics(t *testing.T) {
	_, e := newEZ()
	a := Action[createReq, gin.H]{Method: http.MethodPost, Path: "/things", Binder: BindJSON, Handler: echo}

	RegisterAction(e.Group("/api/v1"), a)
	assert.Panics(t, func() { RegisterAction(e.Group("/api").Group("/v1"), a) })

	a.Method = http.MethodPut
	assert.NotPanics(t, func() { RegisterAction(e.Group("/api/v1"), a) })
}

func TestRegisterAction_AuthWithoutMiddlewarePanics(t *testing.T) {
	_, e := newEZ()
	assert.Panics(t, func() {
		RegisterAction(e, Action[createReq, gin.H]{Method: http.MethodPost, Path: "/x", Binder: BindJSON, Auth: true, Handler: echo})
	})
}

func TestRegisterAction_OK(t *testing.T) {
	r, e := newEZ()
	RegisterAction(e, Action[createReq, gin.H]{Method: http.MethodPost, Path: "/x", Binder: BindJSON, Handler: echo})

	w := serve(r, http.MethodPost, "/x", `{"name":"a","age":3}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"a","age":3}`, w.Body.String())
}

func TestRegisterAction_ValidationList(t *testing.T) {
	r, e := newEZ()
	RegisterAction(e, Action[createReq, gin.H]{Method: http.MethodPost, Path: "/x", Binder: BindJSON, Handler: echo})

	for _, body := range []string{`{}`, ``} {
		w := serve(r, http.MethodPost, "/x", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)

		var out resp.Errors
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, []resp.FieldError{
			{Msg: "Name is required", Param: "name", Location: "body"},
			{Msg: "age is invalid", Param: "age", Location: "body"},
		}, out.Errors)
	}
}

func TestRegisterAction_TypeMismatch(t *testing.T) {
	r, e := newEZ()
	RegisterAction(e, Action[createReq, gin.H]{Method: http.MethodPost, Path: "/x", Binder: BindJSON, Handler: echo})

	w := serve(r, http.MethodPost, "/x", `{"name":"a","age":"old"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var out resp.Errors
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "Invalid value", out.Errors[0].Msg)
	assert.Equal(t, "age", out.Errors[0].Param)
}

func TestRegisterAction_ErrorMapping(t *testing.T) {
	r, e := newEZ()
	cases := map[string]error{
		"/missing": NotFound("Profile Not Found"),
		"/invalid": Invalid(resp.FieldError{Msg: "User already exists", Param: "email", Location: "body"}),
		"/broken":  errors.New("db exploded"),
		"/wrapped": fmt.Errorf("load: %w", errors.New("db exploded")),
	}
	for p, err := range cases {
		err := err
		RegisterAction(e, Action[struct{}, gin.H]{
			Method: http.MethodGet, Path: p, Binder: BindNone,
			Handler: func(*gin.Context, *struct{}) (gin.H, error) { return nil, err },
		})
	}

	w := serve(r, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"msg":"Profile Not Found"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/invalid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":[{"msg":"User already exists","param":"email","location":"body"}]}`, w.Body.String())

	for _, p := range []string{"/broken", "/wrapped"} {
		w = serve(r, http.MethodGet, p, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"msg":"Server Error"}`, w.Body.String())
	}
}

func TestRegisterAction_AuthRunsFirst(t *testing.T) {
	r, e := newEZ()
	called := false
	g := e.WithAuth(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, "No token, authorization denied"))
	})
	RegisterAction(g, Action[createReq, gin.H]{
		Method: http.MethodPost, Path: "/x", Binder: BindJSON, Auth: true,
		Handler: func(c *gin.Context, in *createReq) (gin.H, error) { called = true; return nil, nil },
	})

	w := serve(r, http.MethodPost, "/x", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestRegisterAction_BodyTooLarge(t *testing.T) {
	r, e := newEZ()
	r.Use(mdw.MaxBodyBytes(16))
	RegisterAction(e, Action[createReq, gin.H]{Method: http.MethodPost, Path: "/x", Binder: BindJSON, Handler: echo})

	body := `{"name":"` + strings.Repeat("a", 64) + `","age":1}`
	w := serve(r, http.MethodPost, "/x", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	// unknown length: the limit is hit while decoding
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.ContentLength = -1
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"msg":"Request body too large"}`, w.Body.String())
}

func TestEZ_GET(t *testing.T) {
	r, e := newEZ()
	e.GET("/health", func(*gin.Context) (any, error) { return gin.H{"ok": 1}, nil })

	w := serve(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":1}`, w.Body.String())
	assert.Panics(t, func() {
		e.GET("/health", func(*gin.Context) (any, error) { return nil, nil })
	})
}
