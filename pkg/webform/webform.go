// Package webform is the public surface of the template engine: stored rigid
// templates in, renderer-ready field schemas out, plus the strip/restore
// normalization applied around persistence.
package webform

import (
	"context"

	internalopenapi "github.com/practiq/go-queryform/internal/openapi"
	internalwebform "github.com/practiq/go-queryform/internal/webform"

	"github.com/getkin/kin-openapi/openapi3"
)

// BlockKind re-exports the internal block kind enumeration.
type BlockKind = internalwebform.BlockKind

const (
	KindHeading     = internalwebform.KindHeading
	KindDivider     = internalwebform.KindDivider
	KindInput       = internalwebform.KindInput
	KindSelect      = internalwebform.KindSelect
	KindTextArea    = internalwebform.KindTextArea
	KindEditor      = internalwebform.KindEditor
	KindRadioButton = internalwebform.KindRadioButton
	KindCheckbox    = internalwebform.KindCheckbox
	KindSwitch      = internalwebform.KindSwitch
	KindFileUpload  = internalwebform.KindFileUpload
	KindDatePicker  = internalwebform.KindDatePicker
	KindTable       = internalwebform.KindTable
)

// Validation rule kinds emitted by DeserializeRules.
const (
	RuleType      = internalwebform.RuleType
	RuleRequired  = internalwebform.RuleRequired
	RuleMin       = internalwebform.RuleMin
	RuleMax       = internalwebform.RuleMax
	RuleLowercase = internalwebform.RuleLowercase
	RuleUppercase = internalwebform.RuleUppercase
	RuleTrim      = internalwebform.RuleTrim
	RuleFormat    = internalwebform.RuleFormat
	RuleRegex     = internalwebform.RuleRegex
)

type Template = internalwebform.Template
type Row = internalwebform.Row
type Block = internalwebform.Block
type Props = internalwebform.Props
type Attrs = internalwebform.Attrs
type Option = internalwebform.Option
type TableColumn = internalwebform.TableColumn
type Rules = internalwebform.Rules
type Field = internalwebform.Field
type Columns = internalwebform.Columns
type ValidationRule = internalwebform.ValidationRule
type Uploader = internalwebform.Uploader
type ConfirmFunc = internalwebform.ConfirmFunc
type UploadFunc = internalwebform.UploadFunc
type RemoveFunc = internalwebform.RemoveFunc

// ErrUnknownBlockKind is returned when a template carries a render-kind tag
// outside the BlockKind enumeration.
var ErrUnknownBlockKind = internalwebform.ErrUnknownBlockKind

// CompileOption customises a compile pass.
type CompileOption func(*internalwebform.Options)

// FromClient compiles for the live client-facing form: file blocks stage
// uploads through the given pipeline and removal asks for confirmation.
// Without this option the compiler produces the internal editor preview,
// whose upload callbacks just echo the filename.
func FromClient(uploader Uploader, confirm ConfirmFunc) CompileOption {
	return func(o *internalwebform.Options) {
		o.FromClient = true
		o.Uploader = uploader
		o.Confirm = confirm
	}
}

// Compile transforms a stored template into the keyed render schema.
func Compile(tmpl Template, options ...CompileOption) (map[string]Field, error) {
	var opts internalwebform.Options
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}
	return internalwebform.Compile(tmpl, opts)
}

// StripEditorTypes removes the editor-only attrs.type discriminator before a
// template is persisted. The input is never mutated.
func StripEditorTypes(tmpl Template) Template {
	return internalwebform.StripEditorTypes(tmpl)
}

// RestoreEditorTypes re-adds the discriminator when a persisted template is
// loaded back into the editor. The input is never mutated.
func RestoreEditorTypes(tmpl Template) Template {
	return internalwebform.RestoreEditorTypes(tmpl)
}

// DeserializeRules expands a persisted rule block into validation rules.
func DeserializeRules(rules *Rules) []ValidationRule {
	return internalwebform.DeserializeRules(rules)
}

// LoadOpenAPI parses an OpenAPI document for ImportOperation.
func LoadOpenAPI(ctx context.Context, data []byte) (*openapi3.T, error) {
	return internalopenapi.LoadBytes(ctx, data)
}

// LoadOpenAPIFile parses an OpenAPI document from disk.
func LoadOpenAPIFile(ctx context.Context, path string) (*openapi3.T, error) {
	return internalopenapi.LoadFile(ctx, path)
}

// ImportOperation builds an editable template from the request body of the
// named OpenAPI operation.
func ImportOperation(ctx context.Context, doc *openapi3.T, operationID string) (Template, error) {
	return internalopenapi.Import(ctx, doc, operationID)
}
