package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

// ErrUnknownAction is returned when no action is registered under the requested name.
var ErrUnknownAction = errors.New("unknown action")

const fallbackApology = "Sorry, something went wrong on my end. Please try again in a moment."

// Config bounds action execution.
type Config struct {
	Timeout time.Duration
}

// Executor runs actions so that every invocation ends in a reply.
type Executor struct {
	cfg      Config
	registry *Registry
	log      InvocationLog
	logger   *slog.Logger
	now      func() time.Time
}

// NewExecutor wires the registry with the invocation log.
func NewExecutor(cfg Config, registry *Registry, log InvocationLog, logger *slog.Logger) *Executor {
	return &Executor{
		cfg:      cfg,
		registry: registry,
		log:      log,
		logger:   logger.With("component", "action.executor"),
		now:      time.Now,
	}
}

// Names lists the registered actions.
func (e *Executor) Names() []string {
	return e.registry.Names()
}

// Execute runs the named action. Only ErrUnknownAction is returned as an error;
// action failures and panics are converted to an apology reply.
func (e *Executor) Execute(ctx context.Context, req Request) (Result, error) {
	act, ok := e.registry.Lookup(req.Action)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownAction, req.Action)
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	start := e.now()
	result, outcome, err := e.run(ctx, act, req)
	elapsed := e.now().Sub(start)

	if err != nil {
		e.logger.Error("action failed", "action", req.Action, "sender", req.SenderID, "outcome", outcome, "error", err)
		result = Result{Responses: []Response{{Text: fallbackApology}}}
	} else {
		e.logger.Info("action completed", "action", req.Action, "sender", req.SenderID, "responses", len(result.Responses), "latency_ms", elapsed.Milliseconds())
	}

	e.record(ctx, Invocation{
		ID:        uuid.New(),
		Action:    req.Action,
		SenderID:  req.SenderID,
		Outcome:   outcome,
		ErrorCode: apperrors.CodeOf(err),
		Duration:  elapsed,
		CreatedAt: start.UTC(),
	})
	return result, nil
}

func (e *Executor) run(ctx context.Context, act Action, req Request) (result Result, outcome Outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = Result{}
			outcome = OutcomePanic
			err = fmt.Errorf("action panicked: %v", rec)
		}
	}()

	result, err = act.Run(ctx, req)
	switch {
	case err == nil:
		return result, OutcomeOK, nil
	case errors.Is(err, context.DeadlineExceeded):
		return Result{}, OutcomeTimeout, err
	default:
		return Result{}, OutcomeFailed, err
	}
}

func (e *Executor) record(ctx context.Context, inv Invocation) {
	if e.log == nil {
		return
	}
	// the action deadline may already be spent
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := e.log.Append(recordCtx, inv); err != nil {
		e.logger.Warn("invocation log append failed", "action", inv.Action, "error", err)
	}
}
