package joke

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/assistant-actions/internal/domain/action"
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

const (
	EntityCategory  = "joke_category"
	defaultCategory = "Any"

	contentErrorMessage = "Sorry, I couldn't find a joke I'm comfortable telling right now. Maybe try another category?"
	unavailableMessage  = "Sorry, my joke book is out of reach right now. Please try again later."
)

// TellAction tells one joke.
type TellAction struct {
	provider Provider
	logger   *slog.Logger
}

// NewTellAction builds the joke action.
func NewTellAction(provider Provider, logger *slog.Logger) *TellAction {
	return &TellAction{provider: provider, logger: logger.With("component", "joke.tell")}
}

func (a *TellAction) Name() string { return "action_tell_joke" }

func (a *TellAction) Run(ctx context.Context, req action.Request) (action.Result, error) {
	var d action.Dispatcher

	raw := req.EntityOr(EntityCategory, defaultCategory)
	category, ok := NormalizeCategory(raw)
	if !ok {
		a.logger.Info("unknown joke category", "category", raw)
		d.Utter(unknownCategoryMessage(raw))
		return d.Result(), nil
	}

	joke, err := a.provider.Fetch(ctx, category)
	switch {
	case apperrors.IsCode(err, apperrors.CodeProviderContent):
		a.logger.Info("joke provider rejected request", "category", category, "error", err)
		d.Utter(contentErrorMessage)
		return d.Result(), nil
	case err != nil:
		a.logger.Warn("joke provider unavailable", "category", category, "error", err)
		d.Utter(unavailableMessage)
		return d.Result(), nil
	}

	if joke.Kind == KindTwoPart {
		d.Utter(joke.Setup)
		d.Utter(joke.Delivery)
	} else {
		d.Utter(joke.Text)
	}
	return d.Result(), nil
}

func unknownCategoryMessage(category string) string {
	names := strings.Join(Categories[:len(Categories)-1], ", ")
	return fmt.Sprintf(
		"Sorry, but '%s' isn't a category I recognize. The available categories are %s, and %s.",
		category, names, Categories[len(Categories)-1],
	)
}
