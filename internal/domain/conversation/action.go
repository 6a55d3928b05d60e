package conversation

import (
	"context"
	"log/slog"

	"github.com/yanqian/assistant-actions/internal/domain/action"
)

// ConverseAction forwards the conversation to the chat model and relays its reply.
type ConverseAction struct {
	cfg     Config
	replier Replier
	counter TokenCounter
	logger  *slog.Logger
}

// NewConverseAction builds the free-form conversation action.
func NewConverseAction(cfg Config, replier Replier, counter TokenCounter, logger *slog.Logger) *ConverseAction {
	return &ConverseAction{cfg: cfg, replier: replier, counter: counter, logger: logger.With("component", "conversation.converse")}
}

func (a *ConverseAction) Name() string { return "action_converse" }

func (a *ConverseAction) Run(ctx context.Context, req action.Request) (action.Result, error) {
	full := Transcript(req.Tracker)
	turns := Trim(full, a.cfg.HistoryTokenBudget, a.counter)
	if dropped := len(full) - len(turns); dropped > 0 {
		a.logger.Debug("conversation history trimmed", "sender", req.SenderID, "dropped", dropped, "kept", len(turns))
	}

	var d action.Dispatcher
	d.Utter(a.replier.Reply(ctx, turns))
	return d.Result(), nil
}
