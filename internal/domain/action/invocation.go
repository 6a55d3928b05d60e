package action

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how an invocation ended.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeFailed  Outcome = "failed"
	OutcomePanic   Outcome = "panic"
	OutcomeTimeout Outcome = "timeout"
)

// Invocation is one recorded action run.
type Invocation struct {
	ID        uuid.UUID
	Action    string
	SenderID  string
	Outcome   Outcome
	ErrorCode string
	Duration  time.Duration
	CreatedAt time.Time
}

// InvocationLog persists invocation records.
type InvocationLog interface {
	Append(ctx context.Context, inv Invocation) error
	Recent(ctx context.Context, limit int) ([]Invocation, error)
}
