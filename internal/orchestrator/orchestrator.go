package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ecairns22/mvnprep/internal/branch"
	"github.com/ecairns22/mvnprep/internal/logging"
	"github.com/ecairns22/mvnprep/internal/maven"
	"github.com/ecairns22/mvnprep/internal/runner"
	"github.com/ecairns22/mvnprep/internal/state"
)

// RunStore is the subset of state.Store needed to record runs.
type RunStore interface {
	InsertRun(ctx context.Context, run *state.Run) error
	FinishRun(ctx context.Context, run *state.Run) error
}

// Orchestrator runs the prepare flow: branch step, version update, history.
type Orchestrator struct {
	branch   *branch.Manager
	versions *maven.Versions
	store    RunStore
	log      *slog.Logger
	now      func() time.Time
	newID    func() string
}

// New creates an Orchestrator. store may be nil to skip run history; log may
// be nil to use slog.Default().
func New(versions *maven.Versions, store RunStore, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		branch:   branch.New(logging.InfoAdapter{Logger: log}),
		versions: versions,
		store:    store,
		log:      log,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// PrepareRequest holds the parameters of one prepare run.
type PrepareRequest struct {
	Version string
}

// PrepareResult holds the output of a successful prepare run.
type PrepareResult struct {
	RunID      string
	Version    string
	Executable string
	Duration   time.Duration
}

// Prepare runs the branch step and sets the project version. A Maven failure
// is returned unchanged (*maven.StepFailure or a wrapped *runner.LaunchError);
// history errors only fail the call when Maven itself succeeded.
func (o *Orchestrator) Prepare(ctx context.Context, req PrepareRequest) (*PrepareResult, error) {
	o.branch.Prepare()

	mreq := o.versions.Request(req.Version)
	run := &state.Run{
		ID:         o.newID(),
		Version:    req.Version,
		Dir:        o.versions.Dir(),
		Executable: mreq.Executable,
		Args:       mreq.Args,
		Outcome:    state.OutcomePending,
		StartedAt:  o.now(),
	}

	if o.store != nil {
		if err := o.store.InsertRun(ctx, run); err != nil {
			return nil, fmt.Errorf("recording run: %w", err)
		}
	}

	res, stepErr := o.versions.SetVersionResult(ctx, req.Version)
	run.FinishedAt = o.now()
	finish(run, res, stepErr)

	if o.store != nil {
		if err := o.store.FinishRun(ctx, run); err != nil {
			if stepErr != nil {
				o.log.Error("recording run outcome", "run", run.ID, "err", err)
				return nil, stepErr
			}
			return nil, fmt.Errorf("recording run outcome: %w", err)
		}
	}

	if stepErr != nil {
		o.log.Debug("prepare failed", "run", run.ID, "outcome", run.Outcome)
		return nil, stepErr
	}

	return &PrepareResult{
		RunID:      run.ID,
		Version:    req.Version,
		Executable: res.Executable,
		Duration:   run.FinishedAt.Sub(run.StartedAt),
	}, nil
}

func finish(run *state.Run, res *runner.Result, err error) {
	if res != nil {
		code := res.ExitCode
		run.ExitCode = &code
		run.Stdout = res.Stdout
		run.Stderr = res.Stderr
	}

	var failure *maven.StepFailure
	var launchErr *runner.LaunchError
	switch {
	case err == nil:
		run.Outcome = state.OutcomeSucceeded
	case errors.As(err, &failure):
		run.Outcome = state.OutcomeFailed
		run.Message = failure.Message
	case errors.As(err, &launchErr):
		run.Outcome = state.OutcomeLaunchError
		run.Message = err.Error()
	default:
		run.Outcome = state.OutcomeFailed
		run.Message = err.Error()
	}
}
