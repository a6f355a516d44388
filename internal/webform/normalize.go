package webform

// The template editor needs an attrs.type discriminator on BaseSelect and
// BaseTextArea blocks (and on table columns of the same kinds) purely for
// in-editor rendering. It is stripped before persistence and restored on
// load. Both passes deep-clone; the caller's template is never mutated.

// StripEditorTypes returns a copy of tmpl with the editor-only attrs.type
// removed from select/textarea blocks and table columns, and with every table
// block guaranteed a non-nil values array.
func StripEditorTypes(tmpl Template) Template {
	out := tmpl.Clone()
	for ri := range out.Rows {
		for bi := range out.Rows[ri].Blocks {
			block := &out.Rows[ri].Blocks[bi]
			switch block.Kind {
			case KindSelect, KindTextArea:
				block.Attrs.Type = ""
			case KindTable:
				if block.Values == nil {
					block.Values = []any{}
				}
				normalizeColumns(block, "")
			}
		}
	}
	return out
}

// RestoreEditorTypes returns a copy of tmpl with attrs.type = "text" restored
// on the blocks StripEditorTypes cleared.
func RestoreEditorTypes(tmpl Template) Template {
	out := tmpl.Clone()
	for ri := range out.Rows {
		for bi := range out.Rows[ri].Blocks {
			block := &out.Rows[ri].Blocks[bi]
			switch block.Kind {
			case KindSelect, KindTextArea:
				block.Attrs.Type = "text"
			case KindTable:
				normalizeColumns(block, "text")
			}
		}
	}
	return out
}

func normalizeColumns(block *Block, typ string) {
	for ci := range block.Props.Columns {
		col := &block.Props.Columns[ci]
		switch col.Kind {
		case KindSelect, KindTextArea:
			col.Attrs.Type = typ
		}
	}
}

// Clone returns a deep copy of the template.
func (t Template) Clone() Template {
	out := Template{}
	if t.Rows == nil {
		return out
	}
	out.Rows = make([]Row, len(t.Rows))
	for ri, row := range t.Rows {
		blocks := make([]Block, len(row.Blocks))
		for bi, block := range row.Blocks {
			blocks[bi] = block.clone()
		}
		out.Rows[ri] = Row{Blocks: blocks}
	}
	return out
}

func (b Block) clone() Block {
	out := b
	if b.Props.Options != nil {
		out.Props.Options = append([]Option(nil), b.Props.Options...)
	}
	if b.Props.Columns != nil {
		out.Props.Columns = append([]TableColumn(nil), b.Props.Columns...)
	}
	if b.Values != nil {
		out.Values = append([]any(nil), b.Values...)
	}
	if b.Rules != nil {
		rules := *b.Rules
		if b.Rules.Min != nil {
			min := *b.Rules.Min
			rules.Min = &min
		}
		if b.Rules.Max != nil {
			max := *b.Rules.Max
			rules.Max = &max
		}
		out.Rules = &rules
	}
	return out
}
