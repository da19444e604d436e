package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/infrastructure/services"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type ReleaseChecker interface {
	Check(ctx context.Context, currentVersion string) (*services.UpdateStatus, error)
}

type CheckUpdateUseCase struct {
	checker        ReleaseChecker
	currentVersion string
	logger         logger.Interface
}

func NewCheckUpdateUseCase(checker ReleaseChecker, currentVersion string, logger logger.Interface) *CheckUpdateUseCase {
	return &CheckUpdateUseCase{checker: checker, currentVersion: currentVersion, logger: logger}
}

func (uc *CheckUpdateUseCase) Execute(ctx context.Context) (*services.UpdateStatus, error) {
	status, err := uc.checker.Check(ctx, uc.currentVersion)
	if err != nil {
		uc.logger.Warnw("update check failed", "error", err)
		return nil, err
	}
	if status.UpdateAvailable {
		uc.logger.Infow("new release available",
			"current", status.CurrentVersion, "latest", status.LatestVersion, "url", status.ReleaseURL)
	}
	return status, nil
}
