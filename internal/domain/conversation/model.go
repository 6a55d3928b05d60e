package conversation

import "context"

// Roles used in the transcript sent to the chat model.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of the reconstructed conversation.
type Turn struct {
	Role    string
	Content string
}

// Replier produces the assistant reply for a transcript. It never fails; outages are
// absorbed into a fixed reply.
type Replier interface {
	Reply(ctx context.Context, turns []Turn) string
}

// TokenCounter estimates the prompt cost of a message.
type TokenCounter interface {
	Count(text string) int
}

// Config bounds the history sent to the model.
type Config struct {
	HistoryTokenBudget int
}
