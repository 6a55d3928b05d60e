package manga

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/assistant-actions/internal/domain/action"
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestUpdatesActionListsAndPersists(t *testing.T) {
	feed := &stubFeed{result: NewFeedResult([]Entry{
		{ID: "c1", Title: "Sousou no Frieren", AltTitle: "Frieren: Beyond Journey's End", ChapterTitle: "The Journey", Pages: 1, PublishedAt: fixedNow.Add(-3 * time.Hour), Manga: Manga{ID: "m1"}},
		{ID: "c2", Title: "Dandadan", Pages: 2, PublishedAt: fixedNow.Add(-2 * 24 * time.Hour), Manga: Manga{ID: "m2"}},
	})}
	act := NewUpdatesAction(Config{DefaultLimit: 5}, feed, func() time.Time { return fixedNow }, discardLogger())

	res, err := act.Run(context.Background(), entityRequest(nil, nil))
	require.NoError(t, err)
	require.Equal(t, 5, feed.limit)

	require.Len(t, res.Responses, 1)
	text := res.Responses[0].Text
	require.Contains(t, text, "1. Sousou no Frieren (Frieren: Beyond Journey's End): The Journey, 1 page, published 3 hours ago")
	require.Contains(t, text, "2. Dandadan: No title, 2 pages, published 2 days ago")

	require.Len(t, res.Slots, 1)
	require.Equal(t, SlotHistory, res.Slots[0].Name)
	require.Len(t, res.Slots[0].Value, 2)
}

func TestUpdatesActionCountEntity(t *testing.T) {
	feed := &stubFeed{result: NewFeedResult([]Entry{{ID: "c1", Title: "A", Pages: 3}})}
	act := NewUpdatesAction(Config{DefaultLimit: 5, MaxLimit: 20}, feed, nil, discardLogger())

	_, err := act.Run(context.Background(), entityRequest(map[string]any{EntityCount: float64(3)}, nil))
	require.NoError(t, err)
	require.Equal(t, 3, feed.limit)

	_, err = act.Run(context.Background(), entityRequest(map[string]any{EntityCount: "100"}, nil))
	require.NoError(t, err)
	require.Equal(t, 20, feed.limit)

	_, err = act.Run(context.Background(), entityRequest(map[string]any{EntityCount: "a few"}, nil))
	require.NoError(t, err)
	require.Equal(t, 5, feed.limit)
}

func TestUpdatesActionUnavailableVersusEmpty(t *testing.T) {
	unavailable := NewUpdatesAction(Config{}, &stubFeed{result: Unavailable()}, nil, discardLogger())
	res, err := unavailable.Run(context.Background(), entityRequest(nil, nil))
	require.NoError(t, err)
	require.Equal(t, unavailableMessage, res.Responses[0].Text)
	require.Empty(t, res.Slots)

	empty := NewUpdatesAction(Config{}, &stubFeed{result: NewFeedResult(nil)}, nil, discardLogger())
	res, err = empty.Run(context.Background(), entityRequest(nil, nil))
	require.NoError(t, err)
	require.Equal(t, emptyMessage, res.Responses[0].Text)
	require.Empty(t, res.Slots)
}

func TestSelectBounds(t *testing.T) {
	history := make([]Entry, 5)
	for i := range history {
		history[i] = Entry{ID: string(rune('a' + i))}
	}

	for _, idx := range []int{0, 6, -1} {
		_, err := Select(history, idx)
		require.Error(t, err, "index %d", idx)
		require.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	}

	first, err := Select(history, 1)
	require.NoError(t, err)
	require.Equal(t, "a", first.ID)

	last, err := Select(history, 5)
	require.NoError(t, err)
	require.Equal(t, "e", last.ID)
}

func TestDetailsAction(t *testing.T) {
	history := historySlot(t, []Entry{
		{ID: "c1", Title: "Sousou no Frieren", Manga: Manga{ID: "m1", Description: "An elf mage.", Year: 2020, Status: "ongoing", ContentRating: "safe"}},
		{ID: "c2", Title: "Dandadan", Manga: Manga{ID: "m2"}},
	})
	act := NewDetailsAction(Config{SiteURL: "https://mangadex.org"}, discardLogger())

	res, err := act.Run(context.Background(), entityRequest(map[string]any{EntityIndex: "1"}, history))
	require.NoError(t, err)
	text := res.Responses[0].Text
	require.Contains(t, text, "Sousou no Frieren")
	require.Contains(t, text, "Published: 2020")
	require.Contains(t, text, "Status: Ongoing")
	require.Contains(t, text, "Content rating: Safe")
	require.Contains(t, text, "https://mangadex.org/title/m1")
	require.Contains(t, text, "An elf mage.")

	res, err = act.Run(context.Background(), entityRequest(map[string]any{EntityIndex: "#2"}, history))
	require.NoError(t, err)
	text = res.Responses[0].Text
	require.Contains(t, text, "Published: Unknown")
	require.Contains(t, text, "Status: Unknown")
	require.Contains(t, text, "Content rating: Unknown")
}

func TestDetailsActionValidation(t *testing.T) {
	entries := make([]Entry, 5)
	for i := range entries {
		entries[i] = Entry{ID: "c", Title: "T", Manga: Manga{ID: "m"}}
	}
	history := historySlot(t, entries)
	act := NewDetailsAction(Config{}, discardLogger())

	res, err := act.Run(context.Background(), entityRequest(nil, history))
	require.NoError(t, err)
	require.Equal(t, missingIndexMsg, res.Responses[0].Text)

	res, err = act.Run(context.Background(), entityRequest(map[string]any{EntityIndex: "2"}, nil))
	require.NoError(t, err)
	require.Equal(t, missingHistoryMsg, res.Responses[0].Text)

	for _, idx := range []string{"0", "6"} {
		res, err = act.Run(context.Background(), entityRequest(map[string]any{EntityIndex: idx}, history))
		require.NoError(t, err)
		require.Equal(t, "I only have 5 entries in the list. Pick a number between 1 and 5.", res.Responses[0].Text)
	}

	for _, idx := range []string{"1", "5"} {
		res, err = act.Run(context.Background(), entityRequest(map[string]any{EntityIndex: idx}, history))
		require.NoError(t, err)
		require.Contains(t, res.Responses[0].Text, "https://mangadex.org/title/m")
	}
}

func TestPageCount(t *testing.T) {
	require.Equal(t, "1 page", PageCount(1))
	require.Equal(t, "2 pages", PageCount(2))
	require.Equal(t, "0 pages", PageCount(0))
}

func TestParseIndex(t *testing.T) {
	for raw, want := range map[string]int{"2": 2, "#3": 3, "4.": 4, "5.0": 5} {
		got, ok := ParseIndex(raw)
		require.True(t, ok, raw)
		require.Equal(t, want, got, raw)
	}
	_, ok := ParseIndex("second")
	require.False(t, ok)
}

// historySlot round-trips entries through JSON the way the runtime stores slots.
func historySlot(t *testing.T, entries []Entry) map[string]any {
	t.Helper()
	raw, err := json.Marshal(entries)
	require.NoError(t, err)
	var decoded any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return map[string]any{SlotHistory: decoded}
}

func entityRequest(entities map[string]any, slots map[string]any) action.Request {
	var list []action.Entity
	for k, v := range entities {
		list = append(list, action.Entity{Entity: k, Value: v})
	}
	return action.Request{Tracker: action.Tracker{
		Slots:         slots,
		LatestMessage: action.Message{Entities: list},
	}}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubFeed struct {
	result FeedResult
	limit  int
}

func (s *stubFeed) FollowedFeed(ctx context.Context, limit int) FeedResult {
	s.limit = limit
	return s.result
}
