package router

import (
	"github.com/gin-gonic/gin"

	mdw "devprofile-api/internal/transport/http/middleware"
)

// NewAPIEngine mounts every API module under /api/v1.
func NewAPIEngine(d Deps, reg *Registry) *gin.Engine {
	r, root := newEngine(d)
	api := root.Group("/api/v1").WithAuth(mdw.AuthJWT(d.JWT, ""))
	reg.MountAPI(api)
	return r
}
