package manga

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/assistant-actions/internal/domain/action"
	"github.com/yanqian/assistant-actions/pkg/util"
)

const (
	EntityCount = "count"
	EntityIndex = "index"

	unavailableMessage = "Sorry, I can't reach MangaDex right now. Please try again later."
	emptyMessage       = "There are no new chapters from the series you follow."
	missingIndexMsg    = "Which one? Give me the number from the list, like \"tell me more about #2\"."
	missingHistoryMsg  = "I don't have a list of manga to look at yet. Ask me to check for manga updates first."
)

// UpdatesAction lists the latest chapters from followed series and remembers them.
type UpdatesAction struct {
	cfg    Config
	feed   Feed
	now    util.NowFunc
	logger *slog.Logger
}

// NewUpdatesAction builds the updates action.
func NewUpdatesAction(cfg Config, feed Feed, now util.NowFunc, logger *slog.Logger) *UpdatesAction {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 5
	}
	return &UpdatesAction{cfg: cfg, feed: feed, now: util.OrNow(now), logger: logger.With("component", "manga.updates")}
}

func (a *UpdatesAction) Name() string { return "action_manga_updates" }

func (a *UpdatesAction) Run(ctx context.Context, req action.Request) (action.Result, error) {
	limit := a.limit(req)
	result := a.feed.FollowedFeed(ctx, limit)

	var d action.Dispatcher
	switch result.Status {
	case FeedUnavailable:
		d.Utter(unavailableMessage)
		return d.Result(), nil
	case FeedEmpty:
		d.Utter(emptyMessage)
		return d.Result(), nil
	}

	a.logger.Info("manga feed fetched", "limit", limit, "entries", len(result.Entries))
	d.SetSlot(SlotHistory, result.Entries)
	d.Utter(a.renderList(result.Entries))
	return d.Result(), nil
}

func (a *UpdatesAction) limit(req action.Request) int {
	raw, ok := req.LatestEntity(EntityCount)
	if !ok {
		return a.cfg.DefaultLimit
	}
	n, ok := ParseIndex(raw)
	if !ok || n < 1 {
		return a.cfg.DefaultLimit
	}
	if a.cfg.MaxLimit > 0 && n > a.cfg.MaxLimit {
		return a.cfg.MaxLimit
	}
	return n
}

func (a *UpdatesAction) renderList(entries []Entry) string {
	now := a.now()
	var b strings.Builder
	b.WriteString("Here are the latest chapters from the series you follow:")
	for i, e := range entries {
		fmt.Fprintf(&b, "\n%d. %s: %s, %s, published %s",
			i+1, DisplayTitle(e), chapterTitle(e), PageCount(e.Pages), RelativeTime(e.PublishedAt, now))
	}
	return b.String()
}

func chapterTitle(e Entry) string {
	if t := strings.TrimSpace(e.ChapterTitle); t != "" {
		return t
	}
	return "No title"
}

// DetailsAction describes one entry of the remembered list by its 1-based index.
type DetailsAction struct {
	cfg    Config
	logger *slog.Logger
}

// NewDetailsAction builds the details action.
func NewDetailsAction(cfg Config, logger *slog.Logger) *DetailsAction {
	if cfg.SiteURL == "" {
		cfg.SiteURL = "https://mangadex.org"
	}
	return &DetailsAction{cfg: cfg, logger: logger.With("component", "manga.details")}
}

func (a *DetailsAction) Name() string { return "action_manga_details" }

func (a *DetailsAction) Run(ctx context.Context, req action.Request) (action.Result, error) {
	var d action.Dispatcher

	raw, ok := req.LatestEntity(EntityIndex)
	if !ok {
		d.Utter(missingIndexMsg)
		return d.Result(), nil
	}
	index, ok := ParseIndex(raw)
	if !ok {
		d.Utter(fmt.Sprintf("Sorry, %q isn't a number I can look up. %s", raw, missingIndexMsg))
		return d.Result(), nil
	}

	var history []Entry
	found, err := req.DecodeSlot(SlotHistory, &history)
	if err != nil {
		a.logger.Warn("manga history slot unreadable", "error", err)
	}
	if !found || err != nil || len(history) == 0 {
		d.Utter(missingHistoryMsg)
		return d.Result(), nil
	}

	entry, err := Select(history, index)
	if err != nil {
		d.Utter(fmt.Sprintf("I only have %d %s in the list. Pick a number between 1 and %d.",
			len(history), plural(len(history), "entry", "entries"), len(history)))
		return d.Result(), nil
	}

	d.Utter(a.renderDetails(entry))
	return d.Result(), nil
}

func (a *DetailsAction) renderDetails(e Entry) string {
	description := strings.TrimSpace(e.Manga.Description)
	if description == "" {
		description = "No description available."
	}
	return fmt.Sprintf("%s\nPublished: %s\nStatus: %s\nContent rating: %s\nRead it here: %s\n\n%s",
		DisplayTitle(e),
		yearOrUnknown(e.Manga.Year),
		orUnknown(e.Manga.Status),
		orUnknown(e.Manga.ContentRating),
		a.titleURL(e.Manga.ID),
		description,
	)
}

func (a *DetailsAction) titleURL(mangaID string) string {
	return strings.TrimRight(a.cfg.SiteURL, "/") + "/title/" + mangaID
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
