package conversation

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/assistant-actions/internal/domain/action"
)

func TestTranscriptKeepsUserAndBotTurns(t *testing.T) {
	tracker := action.Tracker{
		Events: []action.Event{
			{Event: "action", Name: "action_listen"},
			{Event: action.EventUser, Text: "hello"},
			{Event: action.EventBot, Text: "Hi there!"},
			{Event: action.EventSlot, Name: "manga_history"},
			{Event: action.EventUser, Text: "how are you?"},
			{Event: action.EventBot, Text: "  "},
		},
		LatestMessage: action.Message{Text: "how are you?"},
	}

	turns := Transcript(tracker)
	require.Equal(t, []Turn{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "Hi there!"},
		{Role: RoleUser, Content: "how are you?"},
	}, turns)
}

func TestTranscriptFallsBackToLatestMessage(t *testing.T) {
	turns := Transcript(action.Tracker{LatestMessage: action.Message{Text: "tell me something"}})
	require.Equal(t, []Turn{{Role: RoleUser, Content: "tell me something"}}, turns)
}

func TestTrimDropsOldestTurns(t *testing.T) {
	turns := []Turn{
		{Role: RoleUser, Content: "aaaa"},
		{Role: RoleAssistant, Content: "bbbb"},
		{Role: RoleUser, Content: "cccc"},
		{Role: RoleAssistant, Content: "dddd"},
		{Role: RoleUser, Content: "eeee"},
	}

	got := Trim(turns, 12, lenCounter{})
	require.Equal(t, turns[2:], got)

	// the newest turn survives even when it alone exceeds the budget
	got = Trim(turns, 1, lenCounter{})
	require.Equal(t, turns[4:], got)

	got = Trim(turns, 0, lenCounter{})
	require.Equal(t, turns, got)
}

func TestTrimNeverStartsWithAssistant(t *testing.T) {
	turns := []Turn{
		{Role: RoleUser, Content: "aaaa"},
		{Role: RoleAssistant, Content: "bbbb"},
		{Role: RoleUser, Content: "cccc"},
	}
	got := Trim(turns, 8, lenCounter{})
	require.Equal(t, turns[2:], got)
}

func TestConverseActionRelaysReply(t *testing.T) {
	replier := &stubReplier{reply: "I'm doing great, thanks for asking!"}
	act := NewConverseAction(Config{HistoryTokenBudget: 100}, replier, lenCounter{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := action.Request{Tracker: action.Tracker{
		Events: []action.Event{{Event: action.EventUser, Text: "how are you?"}},
	}}
	res, err := act.Run(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "I'm doing great, thanks for asking!", res.Responses[0].Text)
	require.Equal(t, []Turn{{Role: RoleUser, Content: "how are you?"}}, replier.turns)
}

type lenCounter struct{}

func (lenCounter) Count(text string) int { return len(text) }

type stubReplier struct {
	reply string
	turns []Turn
}

func (s *stubReplier) Reply(ctx context.Context, turns []Turn) string {
	s.turns = turns
	return s.reply
}
