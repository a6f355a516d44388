// Package openapi imports OpenAPI operations as webform templates, so a
// practice can bootstrap a client-facing form from an existing API contract
// instead of re-authoring every field in the template editor.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/practiq/go-queryform/internal/webform"
)

// ErrOperationNotFound reports a missing operationId during import.
var ErrOperationNotFound = errors.New("openapi import: operation not found")

// LoadFile parses an OpenAPI document from disk.
func LoadFile(ctx context.Context, path string) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi import: load %s: %w", path, err)
	}
	return doc, nil
}

// LoadBytes parses an OpenAPI document from memory.
func LoadBytes(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi import: load document: %w", err)
	}
	return doc, nil
}

// Import builds a template from the request body of the named operation. The
// result is a starting point for the template editor: one block per body
// property, mapped to the closest block kind, with validation rules carried
// over from the schema constraints.
func Import(ctx context.Context, doc *openapi3.T, operationID string) (webform.Template, error) {
	if err := ctx.Err(); err != nil {
		return webform.Template{}, err
	}
	if doc == nil {
		return webform.Template{}, errors.New("openapi import: document is nil")
	}
	if operationID == "" {
		return webform.Template{}, errors.New("openapi import: operation id is required")
	}

	operation := findOperation(doc, operationID)
	if operation == nil {
		return webform.Template{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	schema := requestBodySchema(operation)
	if schema == nil {
		return webform.Template{}, fmt.Errorf("openapi import: operation %q has no request body schema", operationID)
	}

	tmpl := webform.Template{}
	if title := strings.TrimSpace(operation.Summary); title != "" {
		tmpl.Rows = append(tmpl.Rows, webform.Row{Blocks: []webform.Block{{
			Kind:  webform.KindHeading,
			Props: webform.Props{Label: title},
			Attrs: webform.Attrs{Level: 2},
		}}})
	}

	blocks, err := blocksFromSchema(schema, "")
	if err != nil {
		return webform.Template{}, err
	}
	for _, block := range blocks {
		tmpl.Rows = append(tmpl.Rows, webform.Row{Blocks: []webform.Block{block}})
	}
	return tmpl, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestBodySchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func blocksFromSchema(schema *openapi3.Schema, labelPrefix string) ([]webform.Block, error) {
	requiredSet := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		requiredSet[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var blocks []webform.Block
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		label := labelFor(name)
		if labelPrefix != "" {
			label = labelPrefix + " " + label
		}
		_, required := requiredSet[name]

		if prop.Type.Is(openapi3.TypeObject) {
			nested, err := blocksFromSchema(prop, label)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, nested...)
			continue
		}

		block, err := blockFromProperty(name, label, prop, required)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func blockFromProperty(name, label string, prop *openapi3.Schema, required bool) (webform.Block, error) {
	block := webform.Block{
		Name:  name,
		Props: webform.Props{Label: label},
		Rules: rulesFromSchema(prop, required),
	}

	switch {
	case len(prop.Enum) > 0:
		block.Kind = webform.KindSelect
		block.Props.Options = optionsFromEnum(prop.Enum)

	case prop.Type.Is(openapi3.TypeArray):
		items := itemsSchema(prop)
		switch {
		case items != nil && len(items.Enum) > 0:
			block.Kind = webform.KindSelect
			block.Attrs.IsMultiple = true
			block.Props.Options = optionsFromEnum(items.Enum)
		case items != nil && items.Type.Is(openapi3.TypeObject):
			block.Kind = webform.KindTable
			block.Props.Columns = columnsFromItem(items)
			block.Values = []any{}
		case items != nil && items.Format == "binary":
			block.Kind = webform.KindFileUpload
			block.Attrs.IsMultiple = true
		default:
			block.Kind = webform.KindSelect
			block.Attrs.IsMultiple = true
		}

	case prop.Type.Is(openapi3.TypeBoolean):
		block.Kind = webform.KindSwitch
		block.Attrs.SwitchText = label

	case prop.Type.Is(openapi3.TypeInteger), prop.Type.Is(openapi3.TypeNumber):
		block.Kind = webform.KindInput
		block.Attrs.Type = "number"

	default:
		switch prop.Format {
		case "date", "date-time":
			block.Kind = webform.KindDatePicker
		case "binary", "byte":
			block.Kind = webform.KindFileUpload
		default:
			if isMultiline(prop) {
				block.Kind = webform.KindTextArea
			} else {
				block.Kind = webform.KindInput
				block.Attrs.Type = inputType(prop.Format)
			}
		}
	}

	return block, nil
}

func itemsSchema(prop *openapi3.Schema) *openapi3.Schema {
	if prop.Items == nil {
		return nil
	}
	return prop.Items.Value
}

func columnsFromItem(item *openapi3.Schema) []webform.TableColumn {
	names := make([]string, 0, len(item.Properties))
	for name := range item.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]webform.TableColumn, 0, len(names))
	for _, name := range names {
		ref := item.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		col := webform.TableColumn{Label: labelFor(name)}
		switch {
		case len(ref.Value.Enum) > 0:
			col.Kind = webform.KindSelect
		case ref.Value.Type.Is(openapi3.TypeInteger), ref.Value.Type.Is(openapi3.TypeNumber):
			col.Kind = webform.KindInput
			col.Attrs.Type = "number"
		default:
			col.Kind = webform.KindInput
			col.Attrs.Type = "text"
		}
		columns = append(columns, col)
	}
	return columns
}

func optionsFromEnum(enum []any) []webform.Option {
	options := make([]webform.Option, 0, len(enum))
	for _, value := range enum {
		options = append(options, webform.Option{
			Value: value,
			Label: fmt.Sprintf("%v", value),
		})
	}
	return options
}

func rulesFromSchema(prop *openapi3.Schema, required bool) *webform.Rules {
	rules := &webform.Rules{Required: required}
	used := required

	if prop.Type.Is(openapi3.TypeInteger) || prop.Type.Is(openapi3.TypeNumber) {
		rules.Kind = "number"
		used = true
	}
	if prop.Format == "date" || prop.Format == "date-time" {
		rules.Kind = "date"
		used = true
	}
	if prop.MinLength > 0 {
		min := int(prop.MinLength)
		rules.Min = &min
		used = true
	}
	if prop.MaxLength != nil {
		max := int(*prop.MaxLength)
		rules.Max = &max
		used = true
	}
	switch prop.Format {
	case "email", "uuid":
		rules.Format = prop.Format
		used = true
	case "uri", "url":
		rules.Format = "url"
		used = true
	}
	if prop.Pattern != "" {
		rules.Regex = prop.Pattern
		used = true
	}

	if !used {
		return nil
	}
	return rules
}

func isMultiline(prop *openapi3.Schema) bool {
	if prop.Extensions == nil {
		return false
	}
	if value, ok := prop.Extensions["x-multiline"].(bool); ok {
		return value
	}
	return false
}

func inputType(format string) string {
	switch format {
	case "email":
		return "email"
	case "password":
		return "password"
	case "uri", "url":
		return "url"
	case "tel", "phone":
		return "tel"
	default:
		return "text"
	}
}

var labelSplitPattern = strings.NewReplacer("_", " ", "-", " ")

// labelFor turns a property name into an editor-facing label: "client_name"
// becomes "Client Name", "dueDate" becomes "Due Date".
func labelFor(name string) string {
	spaced := labelSplitPattern.Replace(name)
	var out strings.Builder
	for i, r := range spaced {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := rune(spaced[i-1])
			if prev >= 'a' && prev <= 'z' {
				out.WriteRune(' ')
			}
		}
		out.WriteRune(r)
	}

	words := strings.Fields(out.String())
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
