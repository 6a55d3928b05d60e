package conversation

import (
	"strings"

	"github.com/yanqian/assistant-actions/internal/domain/action"
)

// Transcript rebuilds the user/assistant turns from tracker events. Other event kinds
// are skipped. When the history carries no user text, the latest message is used.
func Transcript(tracker action.Tracker) []Turn {
	turns := make([]Turn, 0, len(tracker.Events))
	for _, ev := range tracker.Events {
		text := strings.TrimSpace(ev.Text)
		if text == "" {
			continue
		}
		switch ev.Event {
		case action.EventUser:
			turns = append(turns, Turn{Role: RoleUser, Content: text})
		case action.EventBot:
			turns = append(turns, Turn{Role: RoleAssistant, Content: text})
		}
	}

	latest := strings.TrimSpace(tracker.LatestMessage.Text)
	if latest != "" && lastUserContent(turns) != latest {
		turns = append(turns, Turn{Role: RoleUser, Content: latest})
	}
	return turns
}

func lastUserContent(turns []Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			return turns[i].Content
		}
	}
	return ""
}

// Trim keeps the newest turns whose combined cost fits the budget. The newest turn is
// always kept and the result never starts with an assistant turn. A non-positive
// budget disables trimming.
func Trim(turns []Turn, budget int, counter TokenCounter) []Turn {
	if budget <= 0 || counter == nil || len(turns) == 0 {
		return turns
	}

	start := len(turns) - 1
	used := counter.Count(turns[start].Content)
	for i := start - 1; i >= 0; i-- {
		cost := counter.Count(turns[i].Content)
		if used+cost > budget {
			break
		}
		used += cost
		start = i
	}
	for start < len(turns)-1 && turns[start].Role == RoleAssistant {
		start++
	}
	return turns[start:]
}
