package mangadex

import (
	"sort"
	"time"

	"github.com/yanqian/assistant-actions/internal/domain/manga"
)

type feedResponse struct {
	Result string    `json:"result"`
	Data   []chapter `json:"data"`
	Total  int       `json:"total"`
}

type chapter struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Title      *string `json:"title"`
		Chapter    *string `json:"chapter"`
		Pages      int     `json:"pages"`
		PublishAt  string  `json:"publishAt"`
		ReadableAt string  `json:"readableAt"`
	} `json:"attributes"`
	Relationships []relationship `json:"relationships"`
}

type relationship struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	Attributes *mangaAttributes `json:"attributes,omitempty"`
}

type mangaAttributes struct {
	Title         map[string]string   `json:"title"`
	AltTitles     []map[string]string `json:"altTitles"`
	Description   map[string]string   `json:"description"`
	Year          *int                `json:"year"`
	Status        string              `json:"status"`
	ContentRating string              `json:"contentRating"`
}

func (c chapter) toEntry() manga.Entry {
	entry := manga.Entry{
		ID:          c.ID,
		Pages:       c.Attributes.Pages,
		PublishedAt: parseTimestamp(c.Attributes.ReadableAt, c.Attributes.PublishAt),
	}
	if c.Attributes.Title != nil {
		entry.ChapterTitle = *c.Attributes.Title
	}

	rel, ok := c.mangaRelationship()
	if !ok {
		return entry
	}
	entry.Manga.ID = rel.ID
	if attrs := rel.Attributes; attrs != nil {
		entry.Title = pickTitle(attrs.Title)
		entry.AltTitle = englishAltTitle(attrs.AltTitles)
		entry.Manga.Description = attrs.Description["en"]
		if attrs.Year != nil {
			entry.Manga.Year = *attrs.Year
		}
		entry.Manga.Status = attrs.Status
		entry.Manga.ContentRating = attrs.ContentRating
	}
	return entry
}

func (c chapter) mangaRelationship() (relationship, bool) {
	for _, rel := range c.Relationships {
		if rel.Type == "manga" {
			return rel, true
		}
	}
	return relationship{}, false
}

// pickTitle prefers the English title, then the romanized one, then any, deterministically.
func pickTitle(titles map[string]string) string {
	for _, lang := range []string{"en", "ja-ro", "ko-ro", "zh-ro"} {
		if t := titles[lang]; t != "" {
			return t
		}
	}
	keys := make([]string, 0, len(titles))
	for k := range titles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if titles[k] != "" {
			return titles[k]
		}
	}
	return ""
}

func englishAltTitle(alts []map[string]string) string {
	for _, alt := range alts {
		if t, ok := alt["en"]; ok && t != "" {
			return t
		}
	}
	return ""
}

func parseTimestamp(values ...string) time.Time {
	for _, v := range values {
		if v == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return ts
		}
	}
	return time.Time{}
}
