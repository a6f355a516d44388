package viewstate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/practiq/go-queryform/pkg/filtering"
)

// FilterPanel is the child panel ToggleFilters(true) delegates to.
type FilterPanel interface {
	ResetFilters()
}

// Exporter receives CSV export requests, typically backed by the table
// component showing the view.
type Exporter interface {
	ExportCSV(opts ExportOptions) error
}

// ExportOptions parameterizes a CSV export.
type ExportOptions struct {
	FileName           string
	SelectionOnly      bool
	SuppressFooterLine bool
}

// ErrNoExporter is returned by ExportCSV when no exporter is bound.
var ErrNoExporter = errors.New("viewstate: no exporter bound")

// Filter type discriminators understood by SearchTerms.
const (
	FilterTypeTasks      = "Tasks"
	FilterTypeBroadcasts = "Broadcasts"
	FilterTypeClients    = "Clients"
)

type searchCommit struct {
	filterType  string
	taskType    any
	taskStatus  any
	broadcastTo any
	isActive    any
	query       map[string]string
}

// SearchOption parameterizes a SearchTerms commit.
type SearchOption func(*searchCommit)

// WithFilterType selects the context-sensitive filter preset applied before
// the search text.
func WithFilterType(filterType string) SearchOption {
	return func(s *searchCommit) { s.filterType = filterType }
}

// WithTaskType supplies the Type filter value for the Tasks preset.
func WithTaskType(value any) SearchOption {
	return func(s *searchCommit) { s.taskType = value }
}

// WithTaskStatus supplies the Status filter value for the Tasks preset.
func WithTaskStatus(value any) SearchOption {
	return func(s *searchCommit) { s.taskStatus = value }
}

// WithBroadcastTo supplies the Broadcast To value for the Broadcasts preset.
func WithBroadcastTo(value any) SearchOption {
	return func(s *searchCommit) { s.broadcastTo = value }
}

// WithIsActive supplies the Is Active value for the Clients preset.
func WithIsActive(value any) SearchOption {
	return func(s *searchCommit) { s.isActive = value }
}

// WithQueryOverride adds a literal query parameter to the pushed URL. An
// empty value deletes the parameter instead.
func WithQueryOverride(key, value string) SearchOption {
	return func(s *searchCommit) {
		if s.query == nil {
			s.query = map[string]string{}
		}
		s.query[key] = value
	}
}

// SetSearchText records the pending search box text. Nothing reaches the URL
// until SearchTerms commits it.
func (c *Controller) SetSearchText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchText = text
}

// SearchText returns the pending search box text.
func (c *Controller) SearchText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchText
}

// SearchValidation returns the inline validation message from the last
// SearchTerms call, empty when the text was acceptable.
func (c *Controller) SearchValidation() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchValidation
}

// SearchTerms commits the pending search text, debounced so keystroke bursts
// collapse into a single URL push carrying the final text. A non-empty text
// shorter than the minimum length sets the validation message and leaves the
// URL untouched. The commit applies the selected filter preset, always
// applies SearchText, and pushes without a page parameter so the view resets
// to page 1.
func (c *Controller) SearchTerms(options ...SearchOption) {
	commit := searchCommit{}
	for _, opt := range options {
		opt(&commit)
	}

	c.mu.Lock()
	text := strings.TrimSpace(c.searchText)
	if text != "" && len([]rune(text)) < c.minSearch {
		c.searchValidation = fmt.Sprintf("Search text must be at least %d characters", c.minSearch)
		c.mu.Unlock()
		return
	}
	c.searchValidation = ""
	c.mu.Unlock()

	c.debounce.Call(func() { c.commitSearch(commit, text) })
}

func (c *Controller) commitSearch(commit searchCommit, text string) {
	c.mu.Lock()
	switch commit.filterType {
	case FilterTypeTasks:
		c.filters.Apply("Type", commit.taskType)
		c.filters.Apply("Status", commit.taskStatus)
	case FilterTypeBroadcasts:
		c.filters.Apply("Broadcast To", commit.broadcastTo)
	case FilterTypeClients:
		c.filters.Apply("Is Active", commit.isActive)
	}

	var search any
	if text != "" {
		search = text
	}
	c.filters.Apply(filtering.SlotSearchText, search)
	token := c.codec.EncodeFilters(c.filters)
	c.mu.Unlock()

	q := c.fullQuery()
	q.Del(ParamPage)
	q.Set(ParamFilters, token)
	for key, value := range commit.query {
		if value == "" {
			q.Del(key)
			continue
		}
		q.Set(key, value)
	}
	c.nav.Push(q)
}

// ToggleFilters flips the filter panel's visibility. With reset true and a
// panel bound it delegates to the panel's reset instead; neither path touches
// the URL.
func (c *Controller) ToggleFilters(reset bool) {
	if reset && c.panel != nil {
		c.panel.ResetFilters()
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filtersVisible = !c.filtersVisible
}

// FiltersVisible reports whether the filter panel is shown.
func (c *Controller) FiltersVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filtersVisible
}

// ExportCSV forwards to the bound exporter with the footer line suppressed.
func (c *Controller) ExportCSV(opts ExportOptions) error {
	if c.exporter == nil {
		return ErrNoExporter
	}
	opts.SuppressFooterLine = true
	return c.exporter.ExportCSV(opts)
}
