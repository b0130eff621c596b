package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/leadspark/upwork-radar/internal/offering"
	"github.com/leadspark/upwork-radar/internal/project"
	"github.com/leadspark/upwork-radar/internal/proposal"
	"github.com/leadspark/upwork-radar/internal/store"
)

// ErrGenerationInFlight is returned when a proposal for the same project
// is already being generated.
var ErrGenerationInFlight = errors.New("proposal generation already in progress")

// ErrInstructionProject is returned for operations that only make sense
// on real postings.
var ErrInstructionProject = errors.New("not available for system records")

// ErrGeneratorUnavailable is returned when no content generator was
// configured at startup.
var ErrGeneratorUnavailable = errors.New("proposal generator is not configured")

// loadSettings restores every persisted setting, tolerating missing or
// corrupt values.
func (t *Tracker) loadSettings(ctx context.Context) {
	var offerings []offering.Offering
	store.LoadOr(ctx, t.store, t.logger, store.KeyOfferings, &offerings)
	if len(offerings) > 0 {
		t.registry.Replace(offerings)
	}

	var saved, applied []string
	notes := make(map[string]string)
	var template, displayName string
	store.LoadOr(ctx, t.store, t.logger, store.KeySavedProjects, &saved)
	store.LoadOr(ctx, t.store, t.logger, store.KeyAppliedProjects, &applied)
	store.LoadOr(ctx, t.store, t.logger, store.KeyNotes, &notes)
	store.LoadOr(ctx, t.store, t.logger, store.KeyTemplate, &template)
	store.LoadOr(ctx, t.store, t.logger, store.KeyDisplayName, &displayName)

	t.mu.Lock()
	for _, id := range saved {
		t.saved[id] = true
	}
	for _, id := range applied {
		t.applied[id] = true
	}
	for id, note := range notes {
		t.notes[id] = note
	}
	t.template = template
	t.displayName = displayName
	t.mu.Unlock()

	t.logger.Info("settings restored",
		zap.Int("offerings", len(offerings)),
		zap.Int("saved", len(saved)),
		zap.Int("applied", len(applied)),
	)
}

// SaveOfferings persists the current registry. Called by the API layer
// after every registry mutation.
func (t *Tracker) SaveOfferings(ctx context.Context) error {
	return t.store.Save(ctx, store.KeyOfferings, t.registry.All())
}

// ToggleSaved flips the saved marker and persists the saved set. It
// returns the new marker state.
func (t *Tracker) ToggleSaved(ctx context.Context, id string) (bool, error) {
	t.mu.Lock()
	if t.saved[id] {
		delete(t.saved, id)
	} else {
		t.saved[id] = true
	}
	state := t.saved[id]
	ids := sortedKeys(t.saved)
	t.mu.Unlock()

	return state, t.store.Save(ctx, store.KeySavedProjects, ids)
}

// ToggleApplied flips the applied marker and persists the applied set.
func (t *Tracker) ToggleApplied(ctx context.Context, id string) (bool, error) {
	t.mu.Lock()
	if t.applied[id] {
		delete(t.applied, id)
	} else {
		t.applied[id] = true
	}
	state := t.applied[id]
	ids := sortedKeys(t.applied)
	t.mu.Unlock()

	return state, t.store.Save(ctx, store.KeyAppliedProjects, ids)
}

func (t *Tracker) IsSaved(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.saved[id]
}

func (t *Tracker) IsApplied(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.applied[id]
}

// Note returns the stored note for the project, empty when none exists.
func (t *Tracker) Note(id string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.notes[id]
}

// SetNote stores or clears a per-project note and persists all notes.
func (t *Tracker) SetNote(ctx context.Context, id, text string) error {
	t.mu.Lock()
	if strings.TrimSpace(text) == "" {
		delete(t.notes, id)
	} else {
		t.notes[id] = text
	}
	notes := make(map[string]string, len(t.notes))
	for k, v := range t.notes {
		notes[k] = v
	}
	t.mu.Unlock()

	return t.store.Save(ctx, store.KeyNotes, notes)
}

// Template returns the custom proposal template, empty when the embedded
// default applies.
func (t *Tracker) Template() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.template
}

func (t *Tracker) SetTemplate(ctx context.Context, template string) error {
	t.mu.Lock()
	t.template = template
	t.mu.Unlock()
	return t.store.Save(ctx, store.KeyTemplate, template)
}

func (t *Tracker) DisplayName() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.displayName
}

func (t *Tracker) SetDisplayName(ctx context.Context, name string) error {
	t.mu.Lock()
	t.displayName = strings.TrimSpace(name)
	t.mu.Unlock()
	return t.store.Save(ctx, store.KeyDisplayName, name)
}

// Proposal returns the stored proposal for the project, if any.
func (t *Tracker) Proposal(id string) (*proposal.Proposal, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.proposals[id]
	return p, ok
}

// GenerateProposal produces and stores a proposal for the project.
// Generations for the same project are serialized: a second request while
// one is running is rejected instead of queued.
func (t *Tracker) GenerateProposal(ctx context.Context, id string, rate float64) (*proposal.Proposal, error) {
	if t.writer == nil {
		return nil, ErrGeneratorUnavailable
	}

	p, _, ok := t.Project(id)
	if !ok {
		return nil, fmt.Errorf("project %q not found", id)
	}
	if p.IsInstruction() {
		return nil, ErrInstructionProject
	}

	t.mu.Lock()
	if t.inflight[id] {
		t.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	t.inflight[id] = true
	template := t.template
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.inflight, id)
		t.mu.Unlock()
	}()

	offerings := t.registry.All()
	off := attributedOffering(p, offerings)

	generated := t.writer.Generate(ctx, p, off, offerings, template, rate)

	t.mu.Lock()
	t.proposals[id] = generated
	t.mu.Unlock()

	return generated, nil
}

func attributedOffering(p *project.Project, offerings []offering.Offering) offering.Offering {
	for _, off := range offerings {
		if off.Name == p.Category {
			return off
		}
	}
	if len(offerings) > 0 {
		return offerings[0]
	}
	return offering.Offering{}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
