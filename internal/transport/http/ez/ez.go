package ez

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Routes is the single route table of one engine. Claiming the same
// method and absolute path twice is an error.
type Routes struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewRoutes() *Routes { return &Routes{seen: map[string]struct{}{}} }

func (r *Routes) Claim(method, full string) error {
	key := strings.ToUpper(method) + " " + full
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.seen[key]; dup {
		return fmt.Errorf("duplicate route %s", key)
	}
	r.seen[key] = struct{}{}
	return nil
}

// EZ registers handlers on a gin group through a shared Routes table.
type EZ struct {
	g      *gin.RouterGroup
	routes *Routes
	auth   gin.HandlerFunc
	log    *zap.Logger
}

func New(g *gin.RouterGroup, routes *Routes, l *zap.Logger) EZ {
	if routes == nil {
		routes = NewRoutes()
	}
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, routes: routes, log: l}
}

func (e EZ) Group(rel string, mw ...gin.HandlerFunc) EZ {
	e.g = e.g.Group(rel, mw...)
	return e
}

// WithAuth sets the middleware run in front of actions with Auth set.
func (e EZ) WithAuth(mw gin.HandlerFunc) EZ {
	e.auth = mw
	return e
}

func (e EZ) fullPath(rel string) string {
	if rel == "" {
		return e.g.BasePath()
	}
	full := path.Join(e.g.BasePath(), rel)
	if strings.HasSuffix(rel, "/") && !strings.HasSuffix(full, "/") {
		full += "/"
	}
	return full
}

// Handle panics when method and path are already taken.
func (e EZ) Handle(method, rel string, h ...gin.HandlerFunc) {
	method = strings.ToUpper(method)
	if err := e.routes.Claim(method, e.fullPath(rel)); err != nil {
		panic("ez: " + err.Error())
	}
	e.g.Handle(method, rel, h...)
}

func (e EZ) GET(rel string, h func(c *gin.Context) (any, error)) {
	e.Handle(http.MethodGet, rel, func(c *gin.Context) {
		data, err := h(c)
		if err != nil {
			e.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
	})
}
