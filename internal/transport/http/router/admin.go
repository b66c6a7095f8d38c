package router

import (
	"github.com/gin-gonic/gin"

	"devprofile-api/internal/domain"
	mdw "devprofile-api/internal/transport/http/middleware"
)

// NewAdminEngine mounts admin modules under /admin/v1; the whole group requires the admin role.
func NewAdminEngine(d Deps, reg *Registry) *gin.Engine {
	r, root := newEngine(d)
	admin := root.Group("/admin/v1", mdw.AuthJWT(d.JWT, domain.RoleAdmin))
	reg.MountAdmin(admin)
	return r
}
