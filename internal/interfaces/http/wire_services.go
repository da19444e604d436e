package http

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/helpdesk/internal/application/notification"
	"github.com/orris-inc/helpdesk/internal/domain/mailingest"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/infrastructure/auth"
	"github.com/orris-inc/helpdesk/internal/infrastructure/cache"
	"github.com/orris-inc/helpdesk/internal/infrastructure/email"
	"github.com/orris-inc/helpdesk/internal/infrastructure/mailbox"
	"github.com/orris-inc/helpdesk/internal/infrastructure/mailparse"
	"github.com/orris-inc/helpdesk/internal/infrastructure/permission"
	"github.com/orris-inc/helpdesk/internal/infrastructure/services"
	"github.com/orris-inc/helpdesk/internal/infrastructure/storage"
	"github.com/orris-inc/helpdesk/internal/shared/services/markdown"
)

// infraServices holds the infrastructure services shared by use cases.
type infraServices struct {
	jwtSvc         *auth.JWTService
	enforcer       *permission.Enforcer
	dispatcher     *notification.Dispatcher
	attachments    ticket.AttachmentStore
	hashGen        ticket.HashGenerator
	connector      mailingest.Connector
	parser         mailingest.Parser
	runLock        mailingest.RunLock
	releaseChecker *services.ReleaseChecker
	debugLog       *services.DebugLogWriter
	defaultRates   timetracking.Rates
}

func (c *Container) initServices(ctx context.Context) error {
	cfg := c.cfg
	svcs := &infraServices{
		jwtSvc: auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes),
		defaultRates: timetracking.Rates{
			Billable: cfg.TimeTracking.DefaultBillableRate,
			Cost:     cfg.TimeTracking.DefaultCostRate,
		},
		hashGen:  services.NewTicketHashGenerator(c.db),
		debugLog: services.NewDebugLogWriter(c.repos.debugLogRepo, c.caps.DebugLog, c.clock, c.log.With("component", "debug_log")),
	}

	enforcer, err := permission.NewEnforcer(c.log)
	if err != nil {
		return fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}
	svcs.enforcer = enforcer

	markdownService := markdown.NewMarkdownService()
	sender := email.NewSender(cfg.Email, c.log.With("component", "smtp"))
	var messages ticket.MessageRepository
	if c.caps.Messages {
		messages = c.repos.messageRepo
	}
	svcs.dispatcher = notification.NewDispatcher(
		c.repos.userRepo,
		messages,
		sender,
		markdownService,
		notification.Config{
			FromAddress:     cfg.Email.FromAddress,
			FromName:        cfg.Email.FromName,
			MessageIDDomain: cfg.Email.MessageIDDomain,
			BaseURL:         cfg.Server.BaseURL,
		},
		c.clock,
		c.log.With("component", "notification"),
	)

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize attachment storage: %w", err)
	}
	svcs.attachments = store

	connector, err := mailbox.NewIMAPConnector(cfg.IMAP, c.log.With("component", "imap"))
	if err != nil {
		return fmt.Errorf("failed to initialize imap connector: %w", err)
	}
	svcs.connector = connector
	svcs.parser = mailparse.NewParser(markdownService)

	// Without redis the folder move is the only guard against overlapping runs.
	if c.redis != nil {
		svcs.runLock = cache.NewRedisRunLock(c.redis, cache.DefaultIngestLockTTL)
	}

	if cfg.Maintenance.GitHubRepo != "" {
		repoCfg, err := services.ParseGitHubRepo(cfg.Maintenance.GitHubRepo)
		if err != nil {
			return err
		}
		repoCfg.Token = cfg.Maintenance.GitHubToken
		svcs.releaseChecker = services.NewReleaseChecker(repoCfg, c.log.With("component", "release_checker"))
	}

	c.svcs = svcs
	return nil
}

func newRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
