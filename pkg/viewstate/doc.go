// Package viewstate binds one list view's paging, sorting, filtering, and
// search state to a URL query string. The URL is the single source of truth:
// every mutation pushes a complete query through the view's Navigator, so
// history navigation and shared links replay a well-formed prior state, and
// in-memory state is only ever a derived cache.
//
// Controllers are constructed explicitly per list view with their filter
// catalog and Navigator; the package holds no ambient state.
package viewstate
