package viewstate

import (
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/practiq/go-queryform/pkg/filtering"
)

// Query parameter names mirrored 1:1 into the URL. Together they fully
// determine a list view's visible state.
const (
	ParamPage              = "page"
	ParamLimit             = "limit"
	ParamFilters           = "filters"
	ParamSortBy            = "sortBy"
	ParamActiveIndex       = "activeIndex"
	ParamNestedActiveIndex = "nestedActiveIndex"
)

const (
	defaultLimit          = 15
	defaultMinSearch      = 3
	defaultDebounceWait   = 1000 * time.Millisecond
	defaultDebounceMax    = 5000 * time.Millisecond
	paginatorThreshold    = 15
	pageLinksWideViewport = 5
	pageLinksNarrow       = 3
)

// PageEvent is a table paging event. Page is zero based, as table widgets
// report it; Rows is the requested page size.
type PageEvent struct {
	Page int
	Rows int
}

// SortEvent is a table sort event. Order +1 requests ascending, any other
// value descending.
type SortEvent struct {
	SortField string
	SortOrder int
}

// TableAttrs is the attribute set a data table binds to. It is a pure
// projection of the current URL state.
type TableAttrs struct {
	Lazy                bool
	StripedRows         bool
	Paginator           bool
	AlwaysShowPaginator bool
	PaginatorThreshold  int
	PageLinkSize        int
	First               int
	Rows                int
	RowsPerPageOptions  []int
	SortField           string
	SortOrder           int
}

// Controller owns one list view's query state. All reads derive from the
// Navigator's current URL; all mutations push a complete query so history
// navigation replays well-formed prior states.
type Controller struct {
	nav          Navigator
	codec        *filtering.Codec
	catalog      *filtering.Catalog
	limit        int
	limitOptions []int
	minSearch    int
	narrow       func() bool
	panel        FilterPanel
	exporter     Exporter
	debounce     *debouncer

	debounceWait time.Duration
	debounceMax  time.Duration
	now          func() time.Time

	mu               sync.Mutex
	filters          *filtering.Set
	sort             *filtering.SortSet
	searchText       string
	searchValidation string
	filtersVisible   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithCatalog sets the filter catalog the working set is seeded from.
func WithCatalog(catalog *filtering.Catalog) Option {
	return func(c *Controller) { c.catalog = catalog }
}

// WithSortCatalog seeds the working sort set.
func WithSortCatalog(sort *filtering.SortSet) Option {
	return func(c *Controller) { c.sort = sort.Clone() }
}

// WithCodec overrides the token codec.
func WithCodec(codec *filtering.Codec) Option {
	return func(c *Controller) { c.codec = codec }
}

// WithDefaultLimit sets the page size used when the URL carries none.
func WithDefaultLimit(limit int) Option {
	return func(c *Controller) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// WithLimitOptions sets the page sizes offered by the table paginator.
func WithLimitOptions(options ...int) Option {
	return func(c *Controller) {
		if len(options) > 0 {
			c.limitOptions = append([]int(nil), options...)
		}
	}
}

// WithDebounce sets the search debounce window and the hard ceiling measured
// from the first call of a burst.
func WithDebounce(wait, maxWait time.Duration) Option {
	return func(c *Controller) {
		c.debounceWait = wait
		c.debounceMax = maxWait
	}
}

// WithClock injects the time source used for debounce bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithNarrowViewport supplies the breakpoint probe that shrinks the
// paginator's page-link window.
func WithNarrowViewport(narrow func() bool) Option {
	return func(c *Controller) { c.narrow = narrow }
}

// WithMinSearchLength sets the minimum pending search text length.
func WithMinSearchLength(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.minSearch = n
		}
	}
}

// WithPanel binds the filter panel ToggleFilters(true) delegates to.
func WithPanel(panel FilterPanel) Option {
	return func(c *Controller) { c.panel = panel }
}

// WithExporter binds the table export target used by ExportCSV.
func WithExporter(exporter Exporter) Option {
	return func(c *Controller) { c.exporter = exporter }
}

// New builds a Controller over nav. The working filter set is the catalog's
// defaults overridden by whatever the current URL's filters token decodes to,
// and likewise for sort.
func New(nav Navigator, options ...Option) *Controller {
	c := &Controller{
		nav:          nav,
		limit:        defaultLimit,
		limitOptions: []int{15, 30, 50},
		minSearch:    defaultMinSearch,
		debounceWait: defaultDebounceWait,
		debounceMax:  defaultDebounceMax,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.codec == nil {
		c.codec = filtering.NewCodec()
	}
	if c.catalog == nil {
		c.catalog = filtering.DefaultCatalog()
	}
	if c.sort == nil {
		c.sort = filtering.DefaultSortSet()
	}
	c.debounce = newDebouncer(c.debounceWait, c.debounceMax, c.now)
	c.resyncLocked()
	return c
}

// Resync rebuilds the in-memory working sets from the current URL. Call it
// after the URL changed outside the controller, e.g. history navigation.
func (c *Controller) Resync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resyncLocked()
}

func (c *Controller) resyncLocked() {
	cur := c.nav.Current()
	decoded := c.codec.DecodeFilters(cur.Get(ParamFilters))
	c.filters = filtering.ApplyDefaults(c.catalog, decoded)

	base := c.sort.Clone()
	for _, spec := range c.codec.DecodeSort(cur.Get(ParamSortBy)).Active() {
		base.Put(spec)
	}
	c.sort = base
}

// Filters returns the working filter set. Mutate it only through ApplyFilter
// and ApplyDynamicFilter so every change is re-encoded before it reaches the
// URL.
func (c *Controller) Filters() *filtering.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// Sort returns the working sort set.
func (c *Controller) Sort() *filtering.SortSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort
}

// CurrentPage returns the 1-based page from the URL, defaulting to 1.
func (c *Controller) CurrentPage() int {
	page, err := strconv.Atoi(c.nav.Current().Get(ParamPage))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// CurrentLimit returns the page size from the URL, defaulting to the
// configured limit.
func (c *Controller) CurrentLimit() int {
	limit, err := strconv.Atoi(c.nav.Current().Get(ParamLimit))
	if err != nil || limit < 1 {
		return c.limit
	}
	return limit
}

// FirstIndex returns the zero-based offset of the first row on the current
// page, the form table widgets and list APIs expect.
func (c *Controller) FirstIndex() int {
	return (c.CurrentPage() - 1) * c.CurrentLimit()
}

// ActiveIndex returns the primary tab index from the URL.
func (c *Controller) ActiveIndex() int {
	return c.indexParam(ParamActiveIndex)
}

// NestedActiveIndex returns the secondary tab index from the URL.
func (c *Controller) NestedActiveIndex() int {
	return c.indexParam(ParamNestedActiveIndex)
}

func (c *Controller) indexParam(name string) int {
	idx, err := strconv.Atoi(c.nav.Current().Get(name))
	if err != nil || idx < 0 {
		return 0
	}
	return idx
}

// TableAttrs projects the current URL state into table attributes.
func (c *Controller) TableAttrs() TableAttrs {
	links := pageLinksWideViewport
	if c.narrow != nil && c.narrow() {
		links = pageLinksNarrow
	}

	attrs := TableAttrs{
		Lazy:               true,
		StripedRows:        true,
		Paginator:          true,
		PaginatorThreshold: paginatorThreshold,
		PageLinkSize:       links,
		First:              c.FirstIndex(),
		Rows:               c.CurrentLimit(),
		RowsPerPageOptions: append([]int(nil), c.limitOptions...),
	}

	sort := c.codec.DecodeSort(c.nav.Current().Get(ParamSortBy))
	if spec, ok := sort.Get(filtering.SlotSortBy); ok && spec.Active() {
		attrs.SortField = spec.Column
		if spec.Value == filtering.SortAscending {
			attrs.SortOrder = 1
		} else {
			attrs.SortOrder = -1
		}
	}
	return attrs
}

// FiltersApplied decodes the URL's filters token and reports whether any
// filter outside keysToExclude carries a meaningful value. It drives whether
// the filter panel auto-opens.
func (c *Controller) FiltersApplied(keysToExclude ...string) bool {
	excluded := make(map[string]bool, len(keysToExclude))
	for _, key := range keysToExclude {
		excluded[key] = true
	}
	decoded := c.codec.DecodeFilters(c.nav.Current().Get(ParamFilters))
	for _, spec := range decoded.Active() {
		if excluded[spec.Name] {
			continue
		}
		if !isFalsy(spec.Value) {
			return true
		}
	}
	return false
}

// ApplyFilter sets the working value of a named filter. It returns false when
// the name is not in the catalog. The URL is untouched until the next push.
func (c *Controller) ApplyFilter(name string, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.Apply(name, value)
}

// ApplyDynamicFilter also overrides the target column, for filters whose
// server field varies per screen.
func (c *Controller) ApplyDynamicFilter(name, column string, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.ApplyColumn(name, column, value)
}

// ApplySort sets the working sort slot without touching the URL.
func (c *Controller) ApplySort(name, column, value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort.Apply(name, column, value)
}

// HandlePageOrLimitChange handles a table paging event. The event's zero
// based page is stored 1-based; filters, sort, and tab indices pass through
// unchanged.
func (c *Controller) HandlePageOrLimitChange(e PageEvent) {
	q := c.fullQuery()
	q.Set(ParamPage, strconv.Itoa(e.Page+1))
	if e.Rows > 0 {
		q.Set(ParamLimit, strconv.Itoa(e.Rows))
	}
	c.nav.Push(q)
}

// HandleSortChange handles a table sort event. Order +1 sorts ascending,
// anything else descending.
func (c *Controller) HandleSortChange(e SortEvent) {
	direction := filtering.SortDescending
	if e.SortOrder == 1 {
		direction = filtering.SortAscending
	}

	c.mu.Lock()
	c.sort.Apply(filtering.SlotSortBy, e.SortField, direction)
	token := c.codec.EncodeSort(c.sort)
	c.mu.Unlock()

	q := c.fullQuery()
	q.Set(ParamSortBy, token)
	c.nav.Push(q)
}

// SetActiveIndex pushes a new URL with the primary tab index changed.
func (c *Controller) SetActiveIndex(idx int) {
	q := c.fullQuery()
	q.Set(ParamActiveIndex, strconv.Itoa(idx))
	c.nav.Push(q)
}

// SetNestedActiveIndex pushes a new URL with the nested tab index changed.
func (c *Controller) SetNestedActiveIndex(idx int) {
	q := c.fullQuery()
	q.Set(ParamNestedActiveIndex, strconv.Itoa(idx))
	c.nav.Push(q)
}

// PushQuery re-encodes the working filter and sort sets and pushes the full
// query, with overrides applied last. An empty override value deletes the
// parameter.
func (c *Controller) PushQuery(overrides map[string]string) {
	c.mu.Lock()
	filters := c.codec.EncodeFilters(c.filters)
	sort := c.codec.EncodeSort(c.sort)
	c.mu.Unlock()

	q := c.fullQuery()
	q.Set(ParamFilters, filters)
	q.Set(ParamSortBy, sort)
	for key, value := range overrides {
		if value == "" {
			q.Del(key)
			continue
		}
		q.Set(key, value)
	}
	c.nav.Push(q)
}

// fullQuery snapshots the complete six-parameter query from the current URL,
// normalizing page and limit. Pushing only complete queries keeps every
// history entry replayable.
func (c *Controller) fullQuery() url.Values {
	cur := c.nav.Current()
	q := url.Values{}
	q.Set(ParamPage, strconv.Itoa(c.CurrentPage()))
	q.Set(ParamLimit, strconv.Itoa(c.CurrentLimit()))
	for _, name := range []string{ParamFilters, ParamSortBy, ParamActiveIndex, ParamNestedActiveIndex} {
		if v := cur.Get(name); v != "" {
			q.Set(name, v)
		}
	}
	return q
}

// isFalsy treats nil, false, empty strings, zero numbers, and empty
// collections as "no value", matching how decoded JSON tokens surface them.
func isFalsy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case float64:
		return v == 0
	case int:
		return v == 0
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}
