package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"devprofile-api/internal/core/auth"
	"devprofile-api/internal/core/config"
	"devprofile-api/internal/core/server"
	httpez "devprofile-api/internal/transport/http/ez"
	mdw "devprofile-api/internal/transport/http/middleware"
)

type Deps struct {
	Log    *zap.Logger
	JWT    *auth.JWTer
	Limits config.Limits
	CORS   config.CORS
	// Ping reports readiness of backing stores on /health; nil means always ready.
	Ping func(c *gin.Context) error
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// newEngine builds the middleware chain shared by both binaries and mounts /health and /metrics.
func newEngine(d Deps) (*gin.Engine, httpez.EZ) {
	l := d.logger()
	r := server.NewRouter(l, d.CORS)

	lim := d.Limits
	chain := []gin.HandlerFunc{
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst),
	}
	if lim.Concurrency > 0 {
		chain = append(chain, mdw.ConcurrencyLimit(lim.Concurrency))
	}
	if lim.MaxBodyMB > 0 {
		chain = append(chain, mdw.MaxBodyBytes(lim.MaxBodyMB<<20))
	}
	chain = append(chain,
		mdw.Timeout(time.Duration(lim.TimeoutSec)*time.Second),
		mdw.SimpleRecovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)
	r.Use(chain...)

	root := httpez.New(&r.RouterGroup, httpez.NewRoutes(), l)
	root.GET("/health", func(c *gin.Context) (any, error) {
		if d.Ping != nil {
			if err := d.Ping(c); err != nil {
				return nil, err
			}
		}
		return gin.H{"ok": 1}, nil
	})
	root.Handle(http.MethodGet, "/metrics", gin.WrapH(promhttp.Handler()))
	return r, root
}
