package webform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// ErrUnknownBlockKind wraps compile failures caused by a render-kind tag
// outside the BlockKind enum.
var ErrUnknownBlockKind = errors.New("webform: unknown block kind")

// Options configures a compile pass. FromClient selects the live form
// behavior for file blocks; the zero value compiles for the internal template
// editor preview.
type Options struct {
	FromClient bool
	Uploader   Uploader
	Confirm    ConfirmFunc
}

// Compile transforms a stored template into the flat, keyed render schema the
// form renderer consumes. Keys derive from block labels (camel-cased, with
// numeric suffixes on collision); every block in a row splits the row's
// 12-unit grid evenly.
func Compile(tmpl Template, opts Options) (map[string]Field, error) {
	var upload UploadFunc
	var remove RemoveFunc
	if opts.FromClient {
		var err error
		upload, remove, err = clientUploadFuncs(opts.Uploader, opts.Confirm)
		if err != nil {
			return nil, err
		}
	} else {
		upload, remove = previewUploadFuncs()
	}

	out := make(map[string]Field)
	keys := newKeyAllocator()

	for ri, row := range tmpl.Rows {
		span := 12
		if n := len(row.Blocks); n > 0 {
			span = 12 / n
		}
		for bi, block := range row.Blocks {
			field, err := compileBlock(block, upload, remove)
			if err != nil {
				return nil, fmt.Errorf("webform: row %d block %d: %w", ri, bi, err)
			}
			field.GridColumns = Columns{Container: span, Label: 12, Wrapper: 12}

			base := block.Props.Label
			if base == "" {
				base = block.Name
			}
			out[keys.allocate(camelCase(base))] = field
		}
	}

	return out, nil
}

func compileBlock(block Block, upload UploadFunc, remove RemoveFunc) (Field, error) {
	field := Field{
		Kind:        block.Kind,
		Label:       block.Props.Label,
		Placeholder: block.Props.Placeholder,
		Disabled:    block.Attrs.Disabled,
		Rules:       DeserializeRules(block.Rules),
	}

	switch block.Kind {
	case KindHeading:
		level := block.Attrs.Level
		if level < 1 || level > 6 {
			level = 2
		}
		field.Type = "static"
		field.Tag = "h" + strconv.Itoa(level)
		field.Content = block.Props.Label
		field.Align = block.Attrs.Align
		if field.Align == "" {
			field.Align = "left"
		}
		field.Label = ""
		field.Rules = nil

	case KindDivider:
		field.Type = "static"
		field.Tag = "hr"
		field.Top = block.Attrs.Top
		field.Bottom = block.Attrs.Bottom
		field.Label = ""
		field.Rules = nil

	case KindInput:
		field.Type = block.Attrs.Type
		if field.Type == "" {
			field.Type = "text"
		}

	case KindSelect:
		// Single select still renders as a searchable dropdown.
		field.InputType = "search"
		field.Search = true
		field.Native = false
		field.Items = cloneOptions(block.Props.Options)
		if block.Attrs.IsMultiple {
			applyMultiValue(&field, block)
			field.Type = "multiselect"
			field.HideSelected = false
		} else {
			field.Type = "select"
		}

	case KindTextArea:
		field.Type = "textarea"

	case KindEditor:
		if block.IsStatic {
			field.Type = "static"
			field.Tag = "div"
			field.Content = sanitizeContent(block.Props.Label)
			field.Label = ""
			field.Rules = nil
		} else {
			field.Type = "editor"
		}

	case KindRadioButton:
		field.Items = cloneOptions(block.Props.Options)
		if block.Attrs.IsMultiple {
			applyMultiValue(&field, block)
			field.Type = "radiogroup"
		} else {
			field.Type = "radio"
		}

	case KindCheckbox:
		field.Items = cloneOptions(block.Props.Options)
		if block.Attrs.IsMultiple {
			applyMultiValue(&field, block)
			field.Type = "checkboxgroup"
		} else {
			field.Type = "checkbox"
		}

	case KindSwitch:
		field.Type = "toggle"
		field.Text = block.Attrs.SwitchText

	case KindFileUpload:
		field.Type = "file"
		if block.Attrs.IsMultiple {
			applyMultiValue(&field, block)
			field.Type = "multifile"
		}
		field.UploadTemp = upload
		field.RemoveTemp = remove

	case KindDatePicker:
		field.Type = "date"
		field.DisplayFormat = "DD MMM YYYY"
		field.ValueFormat = "DD-MM-YYYY"

	case KindTable:
		field.Type = "table"
		field.TableColumns = append([]TableColumn(nil), block.Props.Columns...)
		field.Values = block.Values
		if field.Values == nil {
			field.Values = []any{}
		}

	default:
		return Field{}, fmt.Errorf("%w: %q", ErrUnknownBlockKind, block.Kind)
	}

	return field, nil
}

// applyMultiValue turns a choice block into the search-style multi-value
// shape the renderer expects for isMultiple fields.
func applyMultiValue(field *Field, block Block) {
	field.InputType = "search"
	field.Search = true
	field.Native = false
	field.Items = cloneOptions(block.Props.Options)
	labels := make([]string, 0, len(block.Props.Options))
	for _, opt := range block.Props.Options {
		labels = append(labels, opt.Label)
	}
	field.Text = strings.Join(labels, ", ")
}

func cloneOptions(options []Option) []Option {
	if options == nil {
		return nil
	}
	return append([]Option(nil), options...)
}

var (
	contentPolicyOnce sync.Once
	contentPolicy     *bluemonday.Policy
)

// sanitizeContent scrubs static rich-text content before it reaches the
// renderer verbatim. Templates are authored in-product, but the editor accepts
// pasted HTML.
func sanitizeContent(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	contentPolicyOnce.Do(func() {
		contentPolicy = bluemonday.UGCPolicy()
	})
	return strings.TrimSpace(contentPolicy.Sanitize(trimmed))
}
