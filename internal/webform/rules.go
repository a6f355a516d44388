package webform

import "strconv"

// ValidationRule is one deserialized validation constraint. Kind names the
// validator concern; thresholds and patterns live in Params.
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

const (
	RuleType      = "type"
	RuleRequired  = "required"
	RuleMin       = "min"
	RuleMax       = "max"
	RuleLowercase = "lowercase"
	RuleUppercase = "uppercase"
	RuleTrim      = "trim"
	RuleFormat    = "format"
	RuleRegex     = "regex"
)

// DeserializeRules expands a persisted rule block into validation rules. The
// base type rule (number/date/string) comes first, then each modifier in a
// fixed order. Modifiers target independent validator concerns, so the order
// is a stability guarantee for serialized output, not a semantic one.
func DeserializeRules(rules *Rules) []ValidationRule {
	if rules == nil {
		return nil
	}

	kind := rules.Kind
	switch kind {
	case "number", "date":
	default:
		kind = "string"
	}

	out := []ValidationRule{{Kind: RuleType, Params: map[string]string{"value": kind}}}

	if rules.Required {
		out = append(out, ValidationRule{Kind: RuleRequired})
	}
	if rules.Min != nil {
		out = append(out, ValidationRule{Kind: RuleMin, Params: map[string]string{"value": strconv.Itoa(*rules.Min)}})
	}
	if rules.Max != nil {
		out = append(out, ValidationRule{Kind: RuleMax, Params: map[string]string{"value": strconv.Itoa(*rules.Max)}})
	}
	if rules.Lowercase {
		out = append(out, ValidationRule{Kind: RuleLowercase})
	}
	if rules.Uppercase {
		out = append(out, ValidationRule{Kind: RuleUppercase})
	}
	if rules.Trim {
		out = append(out, ValidationRule{Kind: RuleTrim})
	}
	switch rules.Format {
	case "email", "url", "uuid":
		out = append(out, ValidationRule{Kind: RuleFormat, Params: map[string]string{"value": rules.Format}})
	}
	if rules.Regex != "" {
		out = append(out, ValidationRule{Kind: RuleRegex, Params: map[string]string{"pattern": rules.Regex}})
	}

	return out
}
