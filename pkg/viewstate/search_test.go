package viewstate_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/practiq/go-queryform/pkg/filtering"
	"github.com/practiq/go-queryform/pkg/viewstate"
)

func waitForPush(t *testing.T, nav *viewstate.MemoryNavigator, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if nav.Len() >= want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("navigator has %d entries, want at least %d", nav.Len(), want)
}

func TestSearchTerms_LengthGuard(t *testing.T) {
	c, nav := newController(t, nil)
	before := nav.Len()

	c.SetSearchText("ab")
	c.SearchTerms()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, before, nav.Len(), "2 characters must not reach the URL")
	assert.NotEmpty(t, c.SearchValidation())

	c.SetSearchText("abc")
	c.SearchTerms()

	waitForPush(t, nav, before+1)
	assert.Empty(t, c.SearchValidation(), "message cleared once the text is acceptable")

	decoded := filtering.NewCodec().DecodeFilters(nav.Current().Get("filters"))
	assert.Equal(t, "abc", decoded.Value("SearchText"))
}

func TestSearchTerms_DebounceCollapsesBurst(t *testing.T) {
	c, nav := newController(t, nil)
	before := nav.Len()

	for _, text := range []string{"smi", "smit", "smith"} {
		c.SetSearchText(text)
		c.SearchTerms()
		time.Sleep(3 * time.Millisecond)
	}

	waitForPush(t, nav, before+1)
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, before+1, nav.Len(), "three rapid calls collapse into one push")
	decoded := filtering.NewCodec().DecodeFilters(nav.Current().Get("filters"))
	assert.Equal(t, "smith", decoded.Value("SearchText"), "push reflects the last call's text")
}

func TestSearchTerms_ResetsPageByOmission(t *testing.T) {
	c, nav := newController(t, url.Values{"page": {"7"}, "limit": {"30"}})
	before := nav.Len()

	c.SetSearchText("jones")
	c.SearchTerms()
	waitForPush(t, nav, before+1)

	cur := nav.Current()
	assert.Empty(t, cur.Get("page"), "page omitted so the view restarts at 1")
	assert.Equal(t, "30", cur.Get("limit"), "limit carried over")
	assert.Equal(t, 1, c.CurrentPage())
}

func TestSearchTerms_TasksPreset(t *testing.T) {
	c, nav := newController(t, nil)
	before := nav.Len()

	c.SetSearchText("vat")
	c.SearchTerms(
		viewstate.WithFilterType(viewstate.FilterTypeTasks),
		viewstate.WithTaskType([]string{"t1"}),
		viewstate.WithTaskStatus([]string{"open"}),
	)
	waitForPush(t, nav, before+1)

	decoded := filtering.NewCodec().DecodeFilters(nav.Current().Get("filters"))
	assert.Equal(t, []any{"t1"}, decoded.Value("Type"))
	assert.Equal(t, []any{"open"}, decoded.Value("Status"))
	assert.Equal(t, "vat", decoded.Value("SearchText"))
}

func TestSearchTerms_TasksPresetResets(t *testing.T) {
	c, nav := newController(t, nil)
	require.True(t, c.ApplyFilter("Type", []string{"stale"}))
	before := nav.Len()

	c.SetSearchText("vat")
	c.SearchTerms(viewstate.WithFilterType(viewstate.FilterTypeTasks))
	waitForPush(t, nav, before+1)

	decoded := filtering.NewCodec().DecodeFilters(nav.Current().Get("filters"))
	assert.Nil(t, decoded.Value("Type"), "preset without values clears the slot")
}

func TestSearchTerms_ClientsAndBroadcastsPresets(t *testing.T) {
	c, nav := newController(t, nil)
	before := nav.Len()

	c.SetSearchText("")
	c.SearchTerms(
		viewstate.WithFilterType(viewstate.FilterTypeClients),
		viewstate.WithIsActive(true),
	)
	waitForPush(t, nav, before+1)

	decoded := filtering.NewCodec().DecodeFilters(nav.Current().Get("filters"))
	assert.Equal(t, true, decoded.Value("Is Active"))
	assert.Nil(t, decoded.Value("SearchText"), "empty text clears the search filter")

	c.SearchTerms(
		viewstate.WithFilterType(viewstate.FilterTypeBroadcasts),
		viewstate.WithBroadcastTo(false),
	)
	waitForPush(t, nav, before+2)

	decoded = filtering.NewCodec().DecodeFilters(nav.Current().Get("filters"))
	assert.Equal(t, false, decoded.Value("Broadcast To"), "explicit false survives the commit")
}

func TestSearchTerms_QueryOverrides(t *testing.T) {
	c, nav := newController(t, url.Values{"activeIndex": {"2"}})
	before := nav.Len()

	c.SetSearchText("smith")
	c.SearchTerms(viewstate.WithQueryOverride("activeIndex", "0"))
	waitForPush(t, nav, before+1)

	assert.Equal(t, "0", nav.Current().Get("activeIndex"))
}

func TestToggleFilters(t *testing.T) {
	panel := &capturePanel{}
	c, nav := newController(t, nil, viewstate.WithPanel(panel))
	before := nav.Len()

	assert.False(t, c.FiltersVisible())
	c.ToggleFilters(false)
	assert.True(t, c.FiltersVisible())
	assert.False(t, panel.resets > 0)

	c.ToggleFilters(true)
	assert.Equal(t, 1, panel.resets, "reset delegates to the panel")
	assert.True(t, c.FiltersVisible(), "delegation does not flip visibility")
	assert.Equal(t, before, nav.Len(), "no URL interaction either way")
}

type capturePanel struct {
	resets int
}

func (p *capturePanel) ResetFilters() { p.resets++ }
