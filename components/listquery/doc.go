// Package listquery exposes the list-view URL contract over HTTP: a small
// endpoint that decodes page, limit, filters, and sortBy query parameters
// into the normalized shape list APIs consume. It is extraction-friendly and
// depends only on net/http plus the filtering codec.
package listquery
