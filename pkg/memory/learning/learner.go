// Package learning turns feedback events into preference updates.
package learning

import (
	"context"
	"strings"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/repository/unitofwork"
	"design-memory-be/pkg/phrase"

	"github.com/google/uuid"
)

// Rule fires when the event text contains one of its phrases, or, for
// selection rules, when a select event carries an option index.
type Rule struct {
	Key     string
	Value   string
	Delta   float64
	Source  entity.PreferenceSource
	phrases *phrase.Table
}

// TextRule builds a rule that fires on any of the given phrases.
func TextRule(key, value string, delta float64, source entity.PreferenceSource, phrases ...string) Rule {
	return Rule{
		Key:     key,
		Value:   value,
		Delta:   delta,
		Source:  source,
		phrases: phrase.MustTable(phrase.Phrases(phrases...)),
	}
}

const (
	FavoriteOptionKey   = "favorite_option_index"
	favoriteOptionDelta = 0.5
)

// DefaultRules are the text rules every learner starts with.
func DefaultRules() []Rule {
	return []Rule{
		TextRule("tone", "warm", 0.3, entity.PreferenceSourceExplicit, "warmer", "warm tones", "warm"),
		TextRule("plants", "true", 0.3, entity.PreferenceSourceExplicit, "add plants", "plants", "greenery"),
	}
}

// Upsert is the store primitive the learner needs.
type Upsert func(ctx context.Context, userId uuid.UUID, key, value string, source entity.PreferenceSource, delta float64) (*entity.Preference, error)

// Update is one preference change derived from an event.
type Update struct {
	Key    string
	Value  string
	Delta  float64
	Source entity.PreferenceSource
}

type Learner struct {
	rules []Rule
}

func NewLearner(rules ...Rule) *Learner {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Learner{rules: rules}
}

// Derive lists the updates an event implies. All matching rules fire; a
// message about warm tones and plants updates both keys. Missing or
// mistyped payload fields simply match nothing.
func (l *Learner) Derive(event *entity.FeedbackEvent) []Update {
	var updates []Update

	text := event.Payload.TextValue()
	if strings.TrimSpace(text) != "" {
		for _, rule := range l.rules {
			if rule.phrases != nil && rule.phrases.Contains(text) {
				updates = append(updates, Update{Key: rule.Key, Value: rule.Value, Delta: rule.Delta, Source: rule.Source})
			}
		}
	}

	if event.EventType == entity.EventTypeSelect {
		if index, ok := event.Payload.SelectedOption(); ok {
			updates = append(updates, Update{
				Key:    FavoriteOptionKey,
				Value:  index,
				Delta:  favoriteOptionDelta,
				Source: entity.PreferenceSourceImplicit,
			})
		}
	}

	return updates
}

// Apply writes the updates through upsert in order.
func (l *Learner) Apply(ctx context.Context, userId uuid.UUID, updates []Update, upsert Upsert) ([]*entity.Preference, error) {
	result := make([]*entity.Preference, 0, len(updates))
	for _, u := range updates {
		pref, err := upsert(ctx, userId, u.Key, u.Value, u.Source, u.Delta)
		if err != nil {
			return nil, err
		}
		if pref != nil {
			result = append(result, pref)
		}
	}
	return result, nil
}

// Process derives and applies the updates for a stored event.
func (l *Learner) Process(ctx context.Context, uow unitofwork.UnitOfWork, event *entity.FeedbackEvent) ([]*entity.Preference, error) {
	return l.Apply(ctx, event.UserId, l.Derive(event), uow.PreferenceRepository().UpsertIncrement)
}
