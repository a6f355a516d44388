package webform

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestCompile_HeadingAndInputRow(t *testing.T) {
	tmpl := Template{Rows: []Row{{Blocks: []Block{
		{Kind: KindHeading, Props: Props{Label: "Section"}, Attrs: Attrs{Level: 2}},
		{Kind: KindInput, Props: Props{Label: "Full Name"}, Attrs: Attrs{Type: "text"}},
	}}}}

	fields, err := Compile(tmpl, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	section, ok := fields["section"]
	if !ok {
		t.Fatalf("section key missing: %v", keysOf(fields))
	}
	if section.Tag != "h2" || section.Type != "static" || section.Content != "Section" {
		t.Fatalf("heading compiled wrong: %+v", section)
	}
	if section.Label != "" {
		t.Fatalf("heading label not cleared")
	}
	if section.Align != "left" {
		t.Fatalf("heading align default wrong: %q", section.Align)
	}
	if section.GridColumns.Container != 6 {
		t.Fatalf("two-block row should split 6/6, got %d", section.GridColumns.Container)
	}

	name, ok := fields["fullName"]
	if !ok {
		t.Fatalf("fullName key missing: %v", keysOf(fields))
	}
	if name.Type != "text" || name.GridColumns.Container != 6 {
		t.Fatalf("input compiled wrong: %+v", name)
	}
	if name.GridColumns.Label != 12 || name.GridColumns.Wrapper != 12 {
		t.Fatalf("label/wrapper columns wrong: %+v", name.GridColumns)
	}
}

func TestCompile_GridSplit(t *testing.T) {
	tmpl := Template{Rows: []Row{{Blocks: []Block{
		{Kind: KindInput, Props: Props{Label: "A"}},
		{Kind: KindInput, Props: Props{Label: "B"}},
		{Kind: KindInput, Props: Props{Label: "C"}},
	}}}}

	fields, err := Compile(tmpl, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for key, field := range fields {
		if field.GridColumns.Container != 4 {
			t.Fatalf("%s: three-block row should split into 4, got %d", key, field.GridColumns.Container)
		}
	}
}

func TestCompile_KeyCollisions(t *testing.T) {
	tmpl := Template{Rows: []Row{
		{Blocks: []Block{{Kind: KindInput, Props: Props{Label: "Notes"}}}},
		{Blocks: []Block{{Kind: KindInput, Props: Props{Label: "Notes"}}}},
		{Blocks: []Block{{Kind: KindInput, Props: Props{Label: "Notes"}}}},
	}}

	fields, err := Compile(tmpl, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for _, key := range []string{"notes", "notes_1", "notes_2"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("expected key %q, have %v", key, keysOf(fields))
		}
	}
}

func TestCompile_KeyFallsBackToName(t *testing.T) {
	tmpl := Template{Rows: []Row{{Blocks: []Block{
		{Kind: KindInput, Name: "internal_ref"},
		{Kind: KindInput},
	}}}}

	fields, err := Compile(tmpl, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, ok := fields["internalRef"]; !ok {
		t.Fatalf("name-derived key missing: %v", keysOf(fields))
	}
	// Both label and name empty still yields a usable key.
	if _, ok := fields["field"]; !ok {
		t.Fatalf("fallback key missing: %v", keysOf(fields))
	}
}

func TestCompile_MultiSelect(t *testing.T) {
	options := []Option{{Value: "a", Label: "Alpha"}, {Value: "b", Label: "Beta"}}
	tmpl := Template{Rows: []Row{{Blocks: []Block{
		{Kind: KindSelect, Props: Props{Label: "Services", Options: options}, Attrs: Attrs{IsMultiple: true}},
		{Kind: KindSelect, Props: Props{Label: "Office", Options: options}},
	}}}}

	fields, err := Compile(tmpl, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	multi := fields["services"]
	if multi.Type != "multiselect" {
		t.Fatalf("expected multiselect, got %q", multi.Type)
	}
	if multi.HideSelected {
		t.Fatalf("multiselect must keep selected items visible")
	}
	if multi.InputType != "search" || !multi.Search || multi.Native {
		t.Fatalf("multi-value search shape wrong: %+v", multi)
	}
	if len(multi.Items) != 2 {
		t.Fatalf("items not seeded: %+v", multi.Items)
	}

	single := fields["office"]
	if single.Type != "select" {
		t.Fatalf("expected select, got %q", single.Type)
	}
	if single.InputType != "search" {
		t.Fatalf("single select still renders as searchable dropdown")
	}
}

func TestCompile_ChoiceGroups(t *testing.T) {
	tmpl := Template{Rows: []Row{{Blocks: []Block{
		{Kind: KindRadioButton, Props: Props{Label: "Rating"}, Attrs: Attrs{IsMultiple: true}},
		{Kind: KindCheckbox, Props: Props{Label: "Topics"}, Attrs: Attrs{IsMultiple: true}},
		{Kind: KindSwitch, Props: Props{Label: "Consent"}, Attrs: Attrs{SwitchText: "I agree"}},
	}}}}

	fields, err := Compile(tmpl, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := fields["rating"].Type; got != "radiogroup" {
		t.Fatalf("radio group type: %q", got)
	}
	if got := fields["topics"].Type; got != "checkboxgroup" {
		t.Fatalf("checkbox group type: %q", got)
	}
	if got := fields["consent"].Text; got != "I agree" {
		t.Fatalf("switch text: %q", got)
	}
}

func TestCompile_DatePickerFormatsFixed(t *testing.T) {
	tmpl := Template{Rows: []Row{{Blocks: []Block{
		{Kind: KindDatePicker, Props: Props{Label: "Due Date"}},
	}}}}

	fields, err := Compile(tmpl, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	due := fields["dueDate"]
	if due.DisplayFormat != "DD MMM YYYY" || due.ValueFormat != "DD-MM-YYYY" {
		t.Fatalf("date formats are not configurable per field: %+v", due)
	}
}

func TestCompile_UnknownKind(t *testing.T) {
	tmpl := Template{Rows: []Row{{Blocks: []Block{
		{Kind: "BaseCarousel", Props: Props{Label: "Photos"}},
	}}}}

	_, err := Compile(tmpl, Options{})
	if !errors.Is(err, ErrUnknownBlockKind) {
		t.Fatalf("expected ErrUnknownBlockKind, got %v", err)
	}
}

func TestCompile_StaticEditorSanitized(t *testing.T) {
	tmpl := Template{Rows: []Row{{Blocks: []Block{
		{Kind: KindEditor, IsStatic: true, Props: Props{Label: `<p>Welcome</p><script>alert(1)</script>`}},
	}}}}

	fields, err := Compile(tmpl, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(fields) != 1 {
		t.Fatalf("expected a single field, got %v", keysOf(fields))
	}
	var static Field
	for _, field := range fields {
		static = field
	}
	if static.Type != "static" || static.Tag != "div" {
		t.Fatalf("static editor shape wrong: %+v", static)
	}
	if strings.Contains(static.Content, "script") {
		t.Fatalf("script survived sanitization: %q", static.Content)
	}
	if !strings.Contains(static.Content, "Welcome") {
		t.Fatalf("content lost in sanitization: %q", static.Content)
	}
}

type fakeUploader struct {
	uploads []string
	removed []string
}

func (f *fakeUploader) UploadTemp(_ context.Context, filename string, _ io.Reader) (string, error) {
	f.uploads = append(f.uploads, filename)
	return "att-" + filename, nil
}

func (f *fakeUploader) RemoveTemp(_ context.Context, id string) error {
	f.removed = append(f.removed, id)
	return nil
}

func TestCompile_FileUploadClientMode(t *testing.T) {
	tmpl := Template{Rows: []Row{{Blocks: []Block{
		{Kind: KindFileUpload, Props: Props{Label: "Documents"}, Attrs: Attrs{IsMultiple: true}},
	}}}}

	uploader := &fakeUploader{}
	var prompted string
	confirm := func(_ context.Context, message string) (bool, error) {
		prompted = message
		return true, nil
	}

	fields, err := Compile(tmpl, Options{FromClient: true, Uploader: uploader, Confirm: confirm})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	docs := fields["documents"]
	if docs.Type != "multifile" {
		t.Fatalf("multiple upload type: %q", docs.Type)
	}

	ctx := context.Background()
	id, err := docs.UploadTemp(ctx, "contract.pdf", strings.NewReader("x"))
	if err != nil || id != "att-contract.pdf" {
		t.Fatalf("upload: %v %q", err, id)
	}
	if err := docs.RemoveTemp(ctx, id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(uploader.removed) != 1 {
		t.Fatalf("pipeline removal not invoked")
	}
	if !strings.Contains(prompted, "submitted") {
		t.Fatalf("removal confirmation message wrong: %q", prompted)
	}
}

func TestCompile_FileUploadClientModeDeclined(t *testing.T) {
	tmpl := Template{Rows: []Row{{Blocks: []Block{
		{Kind: KindFileUpload, Props: Props{Label: "Documents"}},
	}}}}

	uploader := &fakeUploader{}
	decline := func(_ context.Context, _ string) (bool, error) { return false, nil }

	fields, err := Compile(tmpl, Options{FromClient: true, Uploader: uploader, Confirm: decline})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := fields["documents"].RemoveTemp(context.Background(), "att-1"); err != nil {
		t.Fatalf("declined removal must not error: %v", err)
	}
	if len(uploader.removed) != 0 {
		t.Fatalf("declined removal reached the pipeline")
	}
}

func TestCompile_FileUploadPreviewMode(t *testing.T) {
	tmpl := Template{Rows: []Row{{Blocks: []Block{
		{Kind: KindFileUpload, Props: Props{Label: "Documents"}},
	}}}}

	fields, err := Compile(tmpl, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	docs := fields["documents"]
	if docs.Type != "file" {
		t.Fatalf("single upload type: %q", docs.Type)
	}

	id, err := docs.UploadTemp(context.Background(), "photo.png", strings.NewReader("x"))
	if err != nil || id != "photo.png" {
		t.Fatalf("preview upload must echo the filename: %v %q", err, id)
	}
	if err := docs.RemoveTemp(context.Background(), id); err != nil {
		t.Fatalf("preview removal must be a no-op: %v", err)
	}
}

func TestCompile_ClientModeRequiresUploader(t *testing.T) {
	tmpl := Template{Rows: []Row{{Blocks: []Block{
		{Kind: KindFileUpload, Props: Props{Label: "Documents"}},
	}}}}
	if _, err := Compile(tmpl, Options{FromClient: true}); err == nil {
		t.Fatalf("expected error without uploader")
	}
}

func TestCompile_Table(t *testing.T) {
	tmpl := Template{Rows: []Row{{Blocks: []Block{
		{Kind: KindTable, Props: Props{Label: "Line Items", Columns: []TableColumn{
			{Kind: KindInput, Label: "Description"},
			{Kind: KindSelect, Label: "Tax Code"},
		}}},
	}}}}

	fields, err := Compile(tmpl, Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	table := fields["lineItems"]
	if table.Type != "table" || len(table.TableColumns) != 2 {
		t.Fatalf("table compiled wrong: %+v", table)
	}
	if table.Values == nil {
		t.Fatalf("table values must never be nil")
	}
}

func keysOf(fields map[string]Field) []string {
	out := make([]string, 0, len(fields))
	for key := range fields {
		out = append(out, key)
	}
	return out
}
