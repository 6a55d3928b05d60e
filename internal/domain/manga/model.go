package manga

import (
	"context"
	"time"
)

// SlotHistory is the conversation slot holding the last fetched feed.
const SlotHistory = "manga_history"

// Manga is the series metadata embedded in a feed entry.
type Manga struct {
	ID            string `json:"id"`
	Description   string `json:"description,omitempty"`
	Year          int    `json:"year,omitempty"`
	Status        string `json:"status,omitempty"`
	ContentRating string `json:"contentRating,omitempty"`
}

// Entry is one chapter from the followed feed.
type Entry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	AltTitle     string    `json:"altTitle,omitempty"`
	ChapterTitle string    `json:"chapterTitle"`
	Pages        int       `json:"pages"`
	PublishedAt  time.Time `json:"publishedAt"`
	Manga        Manga     `json:"manga"`
}

// FeedStatus tells an unreachable feed apart from an empty one.
type FeedStatus string

const (
	FeedAvailable   FeedStatus = "available"
	FeedEmpty       FeedStatus = "empty"
	FeedUnavailable FeedStatus = "unavailable"
)

// FeedResult is the outcome of one feed fetch.
type FeedResult struct {
	Status  FeedStatus
	Entries []Entry
}

// Unavailable builds a result for a failed fetch.
func Unavailable() FeedResult {
	return FeedResult{Status: FeedUnavailable}
}

// NewFeedResult tags the entries as available or empty.
func NewFeedResult(entries []Entry) FeedResult {
	if len(entries) == 0 {
		return FeedResult{Status: FeedEmpty}
	}
	return FeedResult{Status: FeedAvailable, Entries: entries}
}

// Feed fetches the user's followed chapter feed. Failures are reported through the status.
type Feed interface {
	FollowedFeed(ctx context.Context, limit int) FeedResult
}

// Config wires runtime settings for the manga actions.
type Config struct {
	DefaultLimit int
	MaxLimit     int
	SiteURL      string
}
