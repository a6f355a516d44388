package listquery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/practiq/go-queryform/pkg/filtering"
)

func encodeClientFilter(t *testing.T) string {
	t.Helper()
	set := filtering.DefaultCatalog().NewSet()
	if !set.Apply("Client", []string{"c1", "c2"}) {
		t.Fatal("default catalog missing Client")
	}
	return filtering.NewCodec().EncodeFilters(set)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Query {
	t.Helper()
	var payload queryResponse
	if err := json.NewDecoder(rec.Result().Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload.Data
}

func TestNewHandler_DefaultsWithEmptyQuery(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/listquery", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := strings.TrimSpace(res.Header.Get("Content-Type")); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}

	query := decodeResponse(t, rec)
	if query.Page != 1 || query.Limit != 15 || query.Offset != 0 {
		t.Fatalf("unexpected defaults: %+v", query)
	}
	if query.Filters == nil || len(query.Filters) != 0 {
		t.Fatalf("expected empty filters array, got %#v", query.Filters)
	}
	if query.Sort != nil {
		t.Fatalf("expected no sort, got %+v", query.Sort)
	}
}

func TestNewHandler_DecodesTokens(t *testing.T) {
	sortSet := filtering.DefaultSortSet()
	sortSet.Apply(filtering.SlotSortBy, "legalName", filtering.SortAscending)
	sortToken := filtering.NewCodec().EncodeSort(sortSet)

	target := "/api/listquery?page=3&limit=30&filters=" + url.QueryEscape(encodeClientFilter(t)) +
		"&sortBy=" + url.QueryEscape(sortToken)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	NewHandler().ServeHTTP(rec, req)

	query := decodeResponse(t, rec)
	if query.Page != 3 || query.Limit != 30 || query.Offset != 60 {
		t.Fatalf("unexpected paging: %+v", query)
	}
	if len(query.Filters) != 1 {
		t.Fatalf("expected one active filter, got %#v", query.Filters)
	}
	entry := query.Filters[0]
	if entry.Name != "Client" || entry.Column != "clientId" || entry.Operator != filtering.OperatorIn {
		t.Fatalf("unexpected filter entry: %+v", entry)
	}
	if query.Sort == nil || query.Sort.Column != "legalName" || query.Sort.Direction != filtering.SortAscending {
		t.Fatalf("unexpected sort: %+v", query.Sort)
	}
}

func TestNewHandler_MalformedTokensDegrade(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/listquery?page=banana&limit=-2&filters=%25%25garbage&sortBy=also-garbage", nil)
	rec := httptest.NewRecorder()
	NewHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("malformed query failed the request: %d", rec.Code)
	}
	query := decodeResponse(t, rec)
	if query.Page != 1 || query.Limit != 15 {
		t.Fatalf("unexpected degraded paging: %+v", query)
	}
	if len(query.Filters) != 0 || query.Sort != nil {
		t.Fatalf("garbage tokens produced state: %+v", query)
	}
}

func TestNewHandler_LimitClamped(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/listquery?limit=5000", nil)
	rec := httptest.NewRecorder()
	NewHandler(WithMaxLimit(50)).ServeHTTP(rec, req)

	if query := decodeResponse(t, rec); query.Limit != 50 {
		t.Fatalf("limit not clamped: %+v", query)
	}
}

func TestNewHandler_Guard(t *testing.T) {
	h := NewHandler(WithGuard(func(r *http.Request) error {
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("no session")}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/listquery", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestNewHandler_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/listquery", nil)
	rec := httptest.NewRecorder()
	NewHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
