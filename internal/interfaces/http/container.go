package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	ingestUsecases "github.com/orris-inc/helpdesk/internal/application/mailingest/usecases"
	maintenanceUsecases "github.com/orris-inc/helpdesk/internal/application/maintenance/usecases"
	"github.com/orris-inc/helpdesk/internal/infrastructure/auth"
	"github.com/orris-inc/helpdesk/internal/infrastructure/config"
	"github.com/orris-inc/helpdesk/internal/infrastructure/database"
	"github.com/orris-inc/helpdesk/internal/infrastructure/services"
	"github.com/orris-inc/helpdesk/internal/interfaces/http/middleware"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases and
// handlers. The HTTP server, the CLI commands and the worker all build one.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client
	caps   db.SchemaCapabilities
	clock  clock.Clock

	repos *repositories
	svcs  *infraServices
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
}

// NewContainer wires every component against an open database.
func NewContainer(ctx context.Context, database *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     database,
		cfg:    cfg,
		log:    log,
		clock:  clock.Real(),
	}

	// Section 1: Infrastructure - Redis, schema capabilities, repositories
	c.initInfrastructure(ctx)

	// Section 2: Services - auth, policy, mail, storage, ingest adapters
	if err := c.initServices(ctx); err != nil {
		c.Shutdown()
		return nil, err
	}

	// Section 3: Use cases
	c.initUseCases()

	// Section 4: Handlers and middlewares
	if err := c.initHandlers(); err != nil {
		c.Shutdown()
		return nil, err
	}

	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) {
	if c.cfg.Redis.Enabled() {
		client, err := newRedisClient(ctx, c.cfg.Redis.GetAddr(), c.cfg.Redis.Password, c.cfg.Redis.DB)
		if err != nil {
			c.log.Warnw("redis unavailable, ingest lock disabled", "address", c.cfg.Redis.GetAddr(), "error", err)
		} else {
			c.redis = client
			c.log.Infow("redis connection established", "address", c.cfg.Redis.GetAddr())
		}
	}

	c.caps = database.DetectCapabilities(c.db)
	c.repos = newRepositories(c.db, c.log)
}

// Engine returns the gin engine.
func (c *Container) Engine() *gin.Engine { return c.engine }

func (c *Container) JWTService() *auth.JWTService { return c.svcs.jwtSvc }

func (c *Container) RunIngestUseCase() *ingestUsecases.RunIngestUseCase { return c.ucs.runIngestUC }

func (c *Container) RunMaintenanceUseCase() *maintenanceUsecases.RunMaintenanceUseCase {
	return c.ucs.runMaintenanceUC
}

// DebugLog returns the best-effort debug_log writer.
func (c *Container) DebugLog() *services.DebugLogWriter { return c.svcs.debugLog }

// Shutdown releases the connections owned by the container. The database is
// owned by the caller.
func (c *Container) Shutdown() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
		c.redis = nil
	}
}
