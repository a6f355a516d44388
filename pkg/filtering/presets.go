package filtering

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SavedFilter is a user-named snapshot of a view's filter token, kept so a
// screen can re-apply a favourite filter combination without rebuilding it.
type SavedFilter struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	View      string          `json:"view"`
	Filters   json.RawMessage `json:"filters"`
	Shared    bool            `json:"shared"`
	IsDefault bool            `json:"isDefault"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewSavedFilter builds a SavedFilter for the given view. A nil payload is
// stored as an empty JSON object.
func NewSavedFilter(name, view string, filters json.RawMessage) SavedFilter {
	now := time.Now().UTC()
	if filters == nil {
		filters = json.RawMessage("{}")
	}
	return SavedFilter{
		ID:        uuid.New(),
		Name:      name,
		View:      view,
		Filters:   filters,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PresetStore keeps saved filters in memory. It is safe for concurrent use;
// products with server-side persistence put their own implementation behind
// the same methods.
type PresetStore struct {
	mu      sync.RWMutex
	presets map[uuid.UUID]SavedFilter
}

// NewPresetStore returns an empty store.
func NewPresetStore() *PresetStore {
	return &PresetStore{presets: make(map[uuid.UUID]SavedFilter)}
}

// Save inserts or replaces a preset. Presets without an id are assigned one.
// Marking a preset default clears the flag from other presets of the same
// view.
func (s *PresetStore) Save(preset SavedFilter) SavedFilter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if preset.ID == uuid.Nil {
		preset.ID = uuid.New()
	}
	preset.UpdatedAt = time.Now().UTC()
	if preset.CreatedAt.IsZero() {
		preset.CreatedAt = preset.UpdatedAt
	}
	if preset.IsDefault {
		for id, other := range s.presets {
			if other.View == preset.View && other.IsDefault && id != preset.ID {
				other.IsDefault = false
				s.presets[id] = other
			}
		}
	}
	s.presets[preset.ID] = preset
	return preset
}

// Get returns the preset with the given id.
func (s *PresetStore) Get(id uuid.UUID) (SavedFilter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	preset, ok := s.presets[id]
	return preset, ok
}

// List returns the presets for a view sorted by name. An empty view lists
// everything.
func (s *PresetStore) List(view string) []SavedFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SavedFilter, 0, len(s.presets))
	for _, preset := range s.presets {
		if view != "" && preset.View != view {
			continue
		}
		out = append(out, preset)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Delete removes a preset.
func (s *PresetStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.presets[id]; !ok {
		return fmt.Errorf("filtering: preset %s not found", id)
	}
	delete(s.presets, id)
	return nil
}
