package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/helpdesk/internal/application/mailingest/usecases"
	"github.com/orris-inc/helpdesk/internal/domain/mailingest"
	"github.com/orris-inc/helpdesk/internal/infrastructure/services"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

const (
	StepRecurring   = "recurring_tasks"
	StepEmailIngest = "email_ingest"
	StepUpdateCheck = "update_check"
)

type RecurringExecutor interface {
	Execute(ctx context.Context) (*RecurringResult, error)
}

type IngestExecutor interface {
	Execute(ctx context.Context, cmd usecases.RunIngestCommand) (*mailingest.RunResult, error)
}

type UpdateCheckExecutor interface {
	Execute(ctx context.Context) (*services.UpdateStatus, error)
}

type StepResult struct {
	Name       string `json:"name"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Result     any    `json:"result,omitempty"`
}

type MaintenanceResult struct {
	Success bool         `json:"success"`
	Steps   []StepResult `json:"steps"`
}

// Failed reports whether any step returned an error.
func (r *MaintenanceResult) Failed() bool {
	return !r.Success
}

// RunMaintenanceUseCase runs every maintenance step in order. A failing step
// never stops the ones after it. A nil step executor is skipped.
type RunMaintenanceUseCase struct {
	recurring   RecurringExecutor
	ingest      IngestExecutor
	updateCheck UpdateCheckExecutor
	logger      logger.Interface
}

func NewRunMaintenanceUseCase(
	recurring RecurringExecutor,
	ingest IngestExecutor,
	updateCheck UpdateCheckExecutor,
	logger logger.Interface,
) *RunMaintenanceUseCase {
	return &RunMaintenanceUseCase{recurring: recurring, ingest: ingest, updateCheck: updateCheck, logger: logger}
}

type namedStep struct {
	name string
	run  func(context.Context) (any, error)
}

func (uc *RunMaintenanceUseCase) steps() []namedStep {
	var steps []namedStep
	if uc.recurring != nil {
		steps = append(steps, namedStep{StepRecurring, func(ctx context.Context) (any, error) {
			return uc.recurring.Execute(ctx)
		}})
	}
	if uc.ingest != nil {
		steps = append(steps, namedStep{StepEmailIngest, func(ctx context.Context) (any, error) {
			return uc.ingest.Execute(ctx, usecases.RunIngestCommand{})
		}})
	}
	if uc.updateCheck != nil {
		steps = append(steps, namedStep{StepUpdateCheck, func(ctx context.Context) (any, error) {
			return uc.updateCheck.Execute(ctx)
		}})
	}
	return steps
}

func (uc *RunMaintenanceUseCase) Execute(ctx context.Context) *MaintenanceResult {
	result := &MaintenanceResult{Success: true, Steps: []StepResult{}}
	for _, s := range uc.steps() {
		result.add(uc.runStep(ctx, s.name, s.run))
	}

	uc.logger.Infow("maintenance run finished", "success", result.Success, "steps", len(result.Steps))
	return result
}

// HasStep reports whether the named step is configured.
func (uc *RunMaintenanceUseCase) HasStep(name string) bool {
	for _, s := range uc.steps() {
		if s.name == name {
			return true
		}
	}
	return false
}

// RunStep executes a single named step, for schedulers that run steps on their own intervals.
func (uc *RunMaintenanceUseCase) RunStep(ctx context.Context, name string) StepResult {
	for _, s := range uc.steps() {
		if s.name == name {
			return uc.runStep(ctx, s.name, s.run)
		}
	}
	return StepResult{Name: name, Error: "maintenance step not configured"}
}

func (uc *RunMaintenanceUseCase) runStep(ctx context.Context, name string, fn func(context.Context) (any, error)) (step StepResult) {
	start := time.Now()
	step = StepResult{Name: name}
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Errorw("maintenance step panicked", "step", name, "panic", r)
			step.Success = false
			step.Error = "step panicked"
		}
		step.DurationMS = time.Since(start).Milliseconds()
	}()

	out, err := fn(ctx)
	if err != nil {
		uc.logger.Errorw("maintenance step failed", "step", name, "error", err)
		step.Error = err.Error()
		return step
	}
	step.Success = true
	step.Result = out
	return step
}

func (r *MaintenanceResult) add(step StepResult) {
	r.Steps = append(r.Steps, step)
	if !step.Success {
		r.Success = false
	}
}
