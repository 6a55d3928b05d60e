package joke

import (
	"context"
	"strings"
)

// Kind distinguishes one-liners from setup/delivery jokes.
type Kind string

const (
	KindSingle  Kind = "single"
	KindTwoPart Kind = "twopart"
)

// Joke is one joke returned by the provider.
type Joke struct {
	Category string
	Kind     Kind
	Text     string
	Setup    string
	Delivery string
}

// Provider fetches a joke restricted to one category with safe mode on.
type Provider interface {
	Fetch(ctx context.Context, category string) (Joke, error)
}

// Categories lists the categories the provider accepts, in display order.
var Categories = []string{"Any", "Misc", "Programming", "Pun", "Spooky", "Christmas"}

// NormalizeCategory maps a user supplied category onto its canonical spelling.
func NormalizeCategory(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, c := range Categories {
		if strings.EqualFold(c, raw) {
			return c, true
		}
	}
	return "", false
}
