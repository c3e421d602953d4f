// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	formsvc "github.com/dalemusser/stratasite/internal/app/services/forms"
	"github.com/dalemusser/stratasite/internal/app/store/ratelimit"
	submissionstore "github.com/dalemusser/stratasite/internal/app/store/submissions"
	"github.com/dalemusser/stratasite/internal/app/system/mailer"
	"github.com/dalemusser/stratasite/internal/app/system/seeding"
	"github.com/dalemusser/stratasite/internal/app/system/tasks"
	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema setup are complete, but
// before the HTTP handler is built.
//
// It seeds the configured admin and fixture, builds the form submission
// pipeline shared by the public and admin routes, and starts background jobs.
// Returning an error aborts startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts configured from environment", zap.Int("overrides", n))
	}

	if appCfg.SeedAdminEmail != "" {
		if _, err := seeding.SeedAdmin(ctx, deps.MongoDatabase, seeding.AdminAccount{
			Email:    appCfg.SeedAdminEmail,
			Name:     appCfg.SeedAdminName,
			Password: appCfg.SeedAdminPassword,
		}, logger); err != nil {
			logger.Error("failed to seed admin user", zap.Error(err))
			return err
		}
	}

	if appCfg.SeedFile != "" {
		fx, err := seeding.LoadFixture(appCfg.SeedFile)
		if err != nil {
			return fmt.Errorf("load seed file: %w", err)
		}
		res, err := seeding.ApplyFixture(ctx, deps.MongoDatabase, fx, false, logger)
		if err != nil {
			logger.Error("failed to apply seed file", zap.String("path", appCfg.SeedFile), zap.Error(err))
			return err
		}
		logger.Info("seed file applied",
			zap.String("path", appCfg.SeedFile),
			zap.Int("categories", res.Categories),
			zap.Int("pages", res.Pages),
			zap.Int("skipped", res.Skipped))
	}

	subStore := submissionstore.New(deps.MongoDatabase)
	formsSvc = newFormsService(subStore, appCfg, deps, logger)

	startTaskRunner(subStore, appCfg, logger)

	return nil
}

// formsSvc is shared by BuildHandler and Shutdown.
var formsSvc *formsvc.Service

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

func newFormsService(store *submissionstore.Store, appCfg AppConfig, deps DBDeps, logger *zap.Logger) *formsvc.Service {
	limiter := ratelimit.New(store, appCfg.FormRateLimitMax, appCfg.FormRateLimitWindow)

	// Left as a nil interface when notifications are off.
	var notifier formsvc.Notifier
	if appCfg.NotifyEmail != "" && deps.Mailer != nil {
		notifier = mailer.NewSubmissionNotifier(deps.Mailer, appCfg.NotifyEmail, appCfg.MailFromName, appCfg.BaseURL)
		logger.Info("submission notifications enabled", zap.String("to", appCfg.NotifyEmail))
	}

	logger.Info("form pipeline ready",
		zap.Int("rate_limit_max", limiter.Max()),
		zap.Duration("rate_limit_window", limiter.Window()))
	return formsvc.NewService(store, limiter, notifier, logger)
}

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(store *submissionstore.Store, appCfg AppConfig, logger *zap.Logger) {
	taskRunner = tasks.New(logger)
	taskRunner.Register(tasks.SubmissionRetentionJob(store, appCfg.SubmissionRetention, logger))
	taskRunner.Start()
}
