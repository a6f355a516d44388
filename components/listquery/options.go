package listquery

import (
	"net/http"

	"github.com/practiq/go-queryform/pkg/filtering"
)

// GuardFunc vets a request before it is served. Returning an error rejects
// the request; see HTTPError for status control.
type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath    string
	PageParam    string
	LimitParam   string
	FiltersParam string
	SortParam    string
	DefaultLimit int
	MaxLimit     int
	Catalog      *filtering.Catalog
	Codec        *filtering.Codec
	Guard        GuardFunc
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:    "/api/listquery",
		PageParam:    "page",
		LimitParam:   "limit",
		FiltersParam: "filters",
		SortParam:    "sortBy",
		DefaultLimit: 15,
		MaxLimit:     100,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/listquery"
	}
	if opts.PageParam == "" {
		opts.PageParam = "page"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	if opts.FiltersParam == "" {
		opts.FiltersParam = "filters"
	}
	if opts.SortParam == "" {
		opts.SortParam = "sortBy"
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 15
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithPageParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.PageParam = name
	}
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LimitParam = name
	}
}

func WithFiltersParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FiltersParam = name
	}
}

func WithSortParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SortParam = name
	}
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxLimit = limit
	}
}

func WithCatalog(catalog *filtering.Catalog) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Catalog = catalog
	}
}

func WithCodec(codec *filtering.Codec) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Codec = codec
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func clampLimit(limit int, opts Options) int {
	if limit <= 0 {
		return opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
