package joke

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/assistant-actions/internal/domain/action"
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

func TestTellActionSingle(t *testing.T) {
	provider := &stubProvider{joke: Joke{Kind: KindSingle, Text: "I told a UDP joke. You might not get it."}}
	act := NewTellAction(provider, discardLogger())

	res, err := act.Run(context.Background(), categoryRequest("programming"))
	require.NoError(t, err)
	require.Len(t, res.Responses, 1)
	require.Equal(t, "I told a UDP joke. You might not get it.", res.Responses[0].Text)
	require.Equal(t, "Programming", provider.category)
}

func TestTellActionTwoPart(t *testing.T) {
	provider := &stubProvider{joke: Joke{Kind: KindTwoPart, Setup: "Why?", Delivery: "Because."}}
	act := NewTellAction(provider, discardLogger())

	res, err := act.Run(context.Background(), categoryRequest(""))
	require.NoError(t, err)
	require.Len(t, res.Responses, 2)
	require.Equal(t, "Why?", res.Responses[0].Text)
	require.Equal(t, "Because.", res.Responses[1].Text)
	require.Equal(t, "Any", provider.category)
}

func TestTellActionUnknownCategory(t *testing.T) {
	provider := &stubProvider{}
	act := NewTellAction(provider, discardLogger())

	res, err := act.Run(context.Background(), categoryRequest("Knock-knock"))
	require.NoError(t, err)
	require.Equal(t,
		"Sorry, but 'Knock-knock' isn't a category I recognize. The available categories are Any, Misc, Programming, Pun, Spooky, and Christmas.",
		res.Responses[0].Text,
	)
	require.Zero(t, provider.calls)
}

func TestTellActionProviderFailures(t *testing.T) {
	content := &stubProvider{err: apperrors.Wrap(apperrors.CodeProviderContent, "no matching joke", nil)}
	res, err := NewTellAction(content, discardLogger()).Run(context.Background(), categoryRequest("Spooky"))
	require.NoError(t, err)
	require.Equal(t, contentErrorMessage, res.Responses[0].Text)
	require.Equal(t, 1, content.calls)

	transport := &stubProvider{err: apperrors.Wrap(apperrors.CodeTransport, "dial tcp", nil)}
	res, err = NewTellAction(transport, discardLogger()).Run(context.Background(), categoryRequest("Spooky"))
	require.NoError(t, err)
	require.Equal(t, unavailableMessage, res.Responses[0].Text)
	require.Equal(t, 1, transport.calls)
}

func TestNormalizeCategory(t *testing.T) {
	got, ok := NormalizeCategory("  christmas ")
	require.True(t, ok)
	require.Equal(t, "Christmas", got)

	_, ok = NormalizeCategory("dark")
	require.False(t, ok)
}

func categoryRequest(category string) action.Request {
	var entities []action.Entity
	if category != "" {
		entities = append(entities, action.Entity{Entity: EntityCategory, Value: category})
	}
	return action.Request{Tracker: action.Tracker{LatestMessage: action.Message{Entities: entities}}}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubProvider struct {
	joke     Joke
	err      error
	category string
	calls    int
}

func (s *stubProvider) Fetch(ctx context.Context, category string) (Joke, error) {
	s.calls++
	s.category = category
	if s.err != nil {
		return Joke{}, s.err
	}
	return s.joke, nil
}
