// Package store persists interactions and named application-state slots
// behind one interface with SQLite and Postgres drivers.
package store

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/jammin-qa/quality-cli/internal/model"
)

// Slot names for persisted application state. Slots hold opaque JSON and
// replace the ambient key-value storage the presentation layer used to own.
const (
	SlotRubric        = "rubric"
	SlotZeroTolerance = "zero_tolerance"
	SlotTheme         = "theme"
	SlotUserPhoto     = "user_photo"
)

// Store is the persistence interface. Interactions are append-only: there
// is deliberately no update or delete surface.
type Store interface {
	// SaveInteraction persists one interaction under its own ID.
	SaveInteraction(ctx context.Context, it *model.Interaction) error
	// ListInteractions returns all interactions, most recent first.
	ListInteractions(ctx context.Context) ([]model.Interaction, error)

	// GetSlot returns the JSON stored under name, or (nil, nil) when the
	// slot has never been written.
	GetSlot(ctx context.Context, name string) ([]byte, error)
	// SetSlot stores JSON under name, replacing any previous value.
	SetSlot(ctx context.Context, name string, data []byte) error

	Migrate(ctx context.Context) error
	Close() error
}

// LoadRubric returns the active rubric, seeding the default scorecard the
// first time it is asked for.
func LoadRubric(ctx context.Context, s Store) (model.Rubric, error) {
	data, err := s.GetSlot(ctx, SlotRubric)
	if err != nil {
		return nil, err
	}
	if data == nil {
		rubric := model.DefaultRubric()
		if err := SaveRubric(ctx, s, rubric); err != nil {
			return nil, err
		}
		return rubric, nil
	}
	var rubric model.Rubric
	if err := json.Unmarshal(data, &rubric); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal rubric slot")
	}
	return rubric, nil
}

// SaveRubric stores the rubric snapshot.
func SaveRubric(ctx context.Context, s Store, rubric model.Rubric) error {
	data, err := json.Marshal(rubric)
	if err != nil {
		return eris.Wrap(err, "store: marshal rubric")
	}
	return s.SetSlot(ctx, SlotRubric, data)
}

// LoadZeroTolerance returns the active NCG rules, seeding defaults on
// first use.
func LoadZeroTolerance(ctx context.Context, s Store) ([]model.ZeroToleranceRule, error) {
	data, err := s.GetSlot(ctx, SlotZeroTolerance)
	if err != nil {
		return nil, err
	}
	if data == nil {
		rules := model.DefaultZeroTolerance()
		if err := SaveZeroTolerance(ctx, s, rules); err != nil {
			return nil, err
		}
		return rules, nil
	}
	var rules []model.ZeroToleranceRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal zero-tolerance slot")
	}
	return rules, nil
}

// SaveZeroTolerance stores the NCG rule list.
func SaveZeroTolerance(ctx context.Context, s Store, rules []model.ZeroToleranceRule) error {
	data, err := json.Marshal(rules)
	if err != nil {
		return eris.Wrap(err, "store: marshal zero-tolerance rules")
	}
	return s.SetSlot(ctx, SlotZeroTolerance, data)
}
