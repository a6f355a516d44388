// Package queryform bundles the list-view query protocol and the webform
// template engine behind one import: filter/sort token encoding, URL-backed
// view state controllers, and rigid-template compilation.
package queryform

import (
	"github.com/practiq/go-queryform/pkg/filtering"
	"github.com/practiq/go-queryform/pkg/viewstate"
	"github.com/practiq/go-queryform/pkg/webform"
)

// Template is the stored rigid webform schema.
type Template = webform.Template

// Field is one compiled entry of the render schema.
type Field = webform.Field

// Codec encodes and decodes filter and sort URL tokens.
type Codec = filtering.Codec

// Controller binds one list view's query state to a URL.
type Controller = viewstate.Controller

// Navigator abstracts the host's location bar for Controller.
type Navigator = viewstate.Navigator

// CompileTemplate transforms a stored template into the keyed render schema,
// in editor preview mode unless webform.FromClient is passed.
func CompileTemplate(tmpl Template, options ...webform.CompileOption) (map[string]Field, error) {
	return webform.Compile(tmpl, options...)
}

// NewCodec returns a token codec; see filtering.CodecOption for versioning
// and logging knobs.
func NewCodec(options ...filtering.CodecOption) *Codec {
	return filtering.NewCodec(options...)
}

// DefaultCatalog returns the built-in filter slot catalog shared by the list
// views.
func DefaultCatalog() *filtering.Catalog {
	return filtering.DefaultCatalog()
}

// NewController builds a view state controller over nav with the default
// catalog and codec unless options say otherwise.
func NewController(nav Navigator, options ...viewstate.Option) *Controller {
	return viewstate.New(nav, options...)
}
