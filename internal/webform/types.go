package webform

// BlockKind is the closed set of render-kind tags a stored template block can
// carry. The compiler matches exhaustively on it; an unrecognised tag is a
// compile error rather than a silently defaulted field.
type BlockKind string

const (
	KindHeading     BlockKind = "BaseHeading"
	KindDivider     BlockKind = "BaseDivider"
	KindInput       BlockKind = "BaseInput"
	KindSelect      BlockKind = "BaseSelect"
	KindTextArea    BlockKind = "BaseTextArea"
	KindEditor      BlockKind = "BaseEditor"
	KindRadioButton BlockKind = "BaseRadioButton"
	KindCheckbox    BlockKind = "BaseCheckbox"
	KindSwitch      BlockKind = "BaseSwitch"
	KindFileUpload  BlockKind = "BaseFileUpload"
	KindDatePicker  BlockKind = "BaseDatePicker"
	KindTable       BlockKind = "BaseTable"
)

// KnownKind reports whether kind is part of the closed enum.
func KnownKind(kind BlockKind) bool {
	switch kind {
	case KindHeading, KindDivider, KindInput, KindSelect, KindTextArea,
		KindEditor, KindRadioButton, KindCheckbox, KindSwitch,
		KindFileUpload, KindDatePicker, KindTable:
		return true
	}
	return false
}

// Template is the persisted declarative description of a webform: rows of
// typed field blocks. Blocks within a row render side by side.
type Template struct {
	Rows []Row `json:"rows"`
}

// Row groups blocks that share one 12-unit grid row.
type Row struct {
	Blocks []Block `json:"blocks"`
}

// Block is one typed field inside a row. JSON tags match the stored schema
// produced by the template editor.
type Block struct {
	Kind     BlockKind `json:"is"`
	Name     string    `json:"name,omitempty"`
	Props    Props     `json:"props"`
	Attrs    Attrs     `json:"attrs"`
	Rules    *Rules    `json:"rules,omitempty"`
	IsStatic bool      `json:"isStatic,omitempty"`
	Values   []any     `json:"values,omitempty"`
}

// Props carries the editor-facing presentation of a block.
type Props struct {
	Label       string        `json:"label,omitempty"`
	Placeholder string        `json:"placeholder,omitempty"`
	Options     []Option      `json:"options,omitempty"`
	Columns     []TableColumn `json:"columns,omitempty"`
}

// Option is one selectable choice of a select/radio/checkbox block.
type Option struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// TableColumn describes one column of a BaseTable block. Columns reuse the
// block kind tags for their cell editors.
type TableColumn struct {
	Kind  BlockKind `json:"is"`
	Label string    `json:"label,omitempty"`
	Attrs Attrs     `json:"attrs"`
}

// Attrs carries rendering attributes. Only a subset is meaningful per kind:
// Level/Align for headings, Top/Bottom for dividers, IsMultiple for
// select/radio/checkbox/file blocks, SwitchText for switches.
type Attrs struct {
	Type       string `json:"type,omitempty"`
	Disabled   bool   `json:"disabled,omitempty"`
	Drop       bool   `json:"drop,omitempty"`
	Level      int    `json:"level,omitempty"`
	Align      string `json:"align,omitempty"`
	Top        int    `json:"top,omitempty"`
	Bottom     int    `json:"bottom,omitempty"`
	IsMultiple bool   `json:"isMultiple,omitempty"`
	SwitchText string `json:"switchText,omitempty"`
}

// Rules is the validation block persisted with a field. Modifiers are
// independent; absent keys are no-ops.
type Rules struct {
	Kind      string `json:"kind,omitempty"` // "number", "date", or empty for string
	Required  bool   `json:"required,omitempty"`
	Min       *int   `json:"min,omitempty"`
	Max       *int   `json:"max,omitempty"`
	Lowercase bool   `json:"lowercase,omitempty"`
	Uppercase bool   `json:"uppercase,omitempty"`
	Trim      bool   `json:"trim,omitempty"`
	Format    string `json:"format,omitempty"` // "email", "url", or "uuid"
	Regex     string `json:"regex,omitempty"`
}

// Columns is the 12-unit grid placement of a compiled field.
type Columns struct {
	Container int `json:"container"`
	Label     int `json:"label"`
	Wrapper   int `json:"wrapper"`
}

// Field is one compiled entry of the render schema, keyed by its derived
// field key in the Compile output.
type Field struct {
	Kind BlockKind `json:"-"`

	Type      string `json:"type,omitempty"`
	InputType string `json:"inputType,omitempty"`

	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`

	// Static blocks.
	Tag     string `json:"tag,omitempty"`
	Content string `json:"content,omitempty"`
	Align   string `json:"align,omitempty"`
	Top     int    `json:"top,omitempty"`
	Bottom  int    `json:"bottom,omitempty"`

	// Choice blocks.
	Items        []Option `json:"items,omitempty"`
	Text         string   `json:"text,omitempty"`
	Search       bool     `json:"search,omitempty"`
	Native       bool     `json:"native"`
	HideSelected bool     `json:"hideSelected"`

	// Date blocks.
	DisplayFormat string `json:"displayFormat,omitempty"`
	ValueFormat   string `json:"valueFormat,omitempty"`

	// Table blocks.
	TableColumns []TableColumn `json:"columns,omitempty"`
	Values       []any         `json:"values,omitempty"`

	GridColumns Columns          `json:"gridColumns"`
	Rules       []ValidationRule `json:"rules,omitempty"`

	// File blocks; nil outside BaseFileUpload.
	UploadTemp UploadFunc `json:"-"`
	RemoveTemp RemoveFunc `json:"-"`
}
