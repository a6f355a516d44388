package listquery

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/practiq/go-queryform/pkg/filtering"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// FilterEntry is one decoded active filter.
type FilterEntry struct {
	Name     string             `json:"name"`
	Column   string             `json:"column"`
	Operator filtering.Operator `json:"operator"`
	Value    any                `json:"value"`
}

// SortEntry is the decoded sort, absent when the token carries none.
type SortEntry struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

// Query is the normalized list request the endpoint answers with.
type Query struct {
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
	Filters []FilterEntry `json:"filters"`
	Sort    *SortEntry    `json:"sort,omitempty"`
}

type queryResponse struct {
	Data Query `json:"data"`
}

// Handler builds a net/http handler with default options plus any overrides.
// It is an alias of NewHandler to match the recommended component API surface.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options
// value. Callers are expected to pass an Options value produced by NewOptions
// (or equivalent) so defaults/clamps are applied.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		query := Normalize(r.URL.Query().Get(opts.PageParam),
			r.URL.Query().Get(opts.LimitParam),
			r.URL.Query().Get(opts.FiltersParam),
			r.URL.Query().Get(opts.SortParam),
			opts)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}

		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(true)
		_ = enc.Encode(queryResponse{Data: query})
	})
}

// Normalize turns the raw query parameter strings into a Query. Malformed
// page, limit, filters, or sort values degrade to their defaults rather than
// failing the request.
func Normalize(page, limit, filtersToken, sortToken string, opts Options) Query {
	opts = NewOptions(func(o *Options) { *o = opts })

	codec := opts.Codec
	if codec == nil {
		codec = filtering.NewCodec()
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = filtering.DefaultCatalog()
	}

	out := Query{
		Page:    clampPage(parseInt(page)),
		Limit:   clampLimit(parseInt(limit), opts),
		Filters: []FilterEntry{},
	}
	out.Offset = (out.Page - 1) * out.Limit

	decoded := filtering.ApplyDefaults(catalog, codec.DecodeFilters(filtersToken))
	for _, spec := range decoded.Active() {
		out.Filters = append(out.Filters, FilterEntry{
			Name:     spec.Name,
			Column:   spec.Column,
			Operator: spec.Operator,
			Value:    spec.Value,
		})
	}

	if spec, ok := codec.DecodeSort(sortToken).Get(filtering.SlotSortBy); ok && spec.Active() {
		out.Sort = &SortEntry{Column: spec.Column, Direction: spec.Value}
	}
	return out
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
