// Package app wires config, storage, services and HTTP modules together.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"devprofile-api/internal/core/auth"
	"devprofile-api/internal/core/cache"
	"devprofile-api/internal/core/config"
	"devprofile-api/internal/core/database"
	"devprofile-api/internal/repo"
	"devprofile-api/internal/service"
	"devprofile-api/internal/transport/http/handler"
	"devprofile-api/internal/transport/http/router"
)

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Cache    *cache.Cache // nil when redis is not configured
	JWT      *auth.JWTer
	Users    *service.UserService
	Profiles *service.ProfileService
	Registry *router.Registry
}

// New opens the database (and redis when configured), migrates, and wires every module.
func New(cfg *config.Config, l *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, time.Duration(cfg.Redis.TTLSec)*time.Second, l)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			// reads fall back to the database while redis is down
			l.Warn("redis unreachable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}

	return Wire(cfg, l, db, c)
}

// Wire builds services and handlers over an open database. c may be nil.
func Wire(cfg *config.Config, l *zap.Logger, db *gorm.DB, c *cache.Cache) (*App, error) {
	if l == nil {
		l = zap.NewNop()
	}
	policy, err := service.ParseMergePolicy(cfg.Profile.MergePolicy)
	if err != nil {
		return nil, err
	}
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL(),
	}

	store := repo.NewStore(db)
	users := service.NewUserService(store.Users, store, jwter, c, cfg.Admin.Emails, l)
	profiles := service.NewProfileService(store.Profiles, c, policy, l)

	return &App{
		Cfg:      cfg,
		Log:      l,
		DB:       db,
		Cache:    c,
		JWT:      jwter,
		Users:    users,
		Profiles: profiles,
		Registry: router.NewRegistry(
			handler.NewUserHandler(users),
			handler.NewProfileHandler(profiles, users),
			handler.NewAdminHandler(users),
		),
	}, nil
}

func (a *App) deps() router.Deps {
	return router.Deps{
		Log:    a.Log,
		JWT:    a.JWT,
		Limits: a.Cfg.Limits,
		CORS:   a.Cfg.CORS,
		Ping:   a.ping,
	}
}

func (a *App) ping(c *gin.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(c.Request.Context())
}

func (a *App) APIEngine() *gin.Engine   { return router.NewAPIEngine(a.deps(), a.Registry) }
func (a *App) AdminEngine() *gin.Engine { return router.NewAdminEngine(a.deps(), a.Registry) }

func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	} else {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
