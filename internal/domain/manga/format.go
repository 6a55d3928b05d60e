package manga

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
)

const unknown = "Unknown"

// PageCount renders "1 page" or "N pages".
func PageCount(n int) string {
	if n == 1 {
		return "1 page"
	}
	return fmt.Sprintf("%d pages", n)
}

// RelativeTime renders how long ago t was, relative to now.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "at an unknown time"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// DisplayTitle joins the romanized title with the English alt title when present.
func DisplayTitle(e Entry) string {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		title = "Untitled"
	}
	alt := strings.TrimSpace(e.AltTitle)
	if alt == "" || strings.EqualFold(alt, title) {
		return title
	}
	return fmt.Sprintf("%s (%s)", title, alt)
}

func orUnknown(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return unknown
	}
	return capitalize(v)
}

func yearOrUnknown(year int) string {
	if year <= 0 {
		return unknown
	}
	return strconv.Itoa(year)
}

func capitalize(v string) string {
	r := []rune(v)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// ParseIndex accepts "2", "#2" or "2." and returns the number.
func ParseIndex(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "#")
	raw = strings.TrimSuffix(raw, ".")
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, false
		}
		n = int(f)
	}
	return n, true
}
