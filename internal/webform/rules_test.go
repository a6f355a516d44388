package webform

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeserializeRules(t *testing.T) {
	min, max := 2, 10
	rules := &Rules{
		Kind:      "number",
		Required:  true,
		Min:       &min,
		Max:       &max,
		Trim:      true,
		Format:    "email",
		Regex:     "^[A-Z]+$",
		Uppercase: true,
	}

	got := DeserializeRules(rules)
	want := []ValidationRule{
		{Kind: RuleType, Params: map[string]string{"value": "number"}},
		{Kind: RuleRequired},
		{Kind: RuleMin, Params: map[string]string{"value": "2"}},
		{Kind: RuleMax, Params: map[string]string{"value": "10"}},
		{Kind: RuleUppercase},
		{Kind: RuleTrim},
		{Kind: RuleFormat, Params: map[string]string{"value": "email"}},
		{Kind: RuleRegex, Params: map[string]string{"pattern": "^[A-Z]+$"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestDeserializeRules_Defaults(t *testing.T) {
	if DeserializeRules(nil) != nil {
		t.Fatalf("nil rules must deserialize to nil")
	}

	got := DeserializeRules(&Rules{})
	if len(got) != 1 || got[0].Params["value"] != "string" {
		t.Fatalf("empty rules should yield the string type rule, got %+v", got)
	}

	// Unknown formats are no-ops rather than errors.
	got = DeserializeRules(&Rules{Format: "ipv6"})
	if len(got) != 1 {
		t.Fatalf("unknown format leaked: %+v", got)
	}
}

func TestCamelCase(t *testing.T) {
	cases := map[string]string{
		"Full Name":        "fullName",
		"ABN / Tax number": "abnTaxNumber",
		"email":            "email",
		"Due  Date":        "dueDate",
		"":                 "",
	}
	for input, want := range cases {
		if got := camelCase(input); got != want {
			t.Fatalf("camelCase(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestKeyAllocator_SuffixScan(t *testing.T) {
	alloc := newKeyAllocator()
	if got := alloc.allocate("notes"); got != "notes" {
		t.Fatalf("first allocation: %q", got)
	}
	if got := alloc.allocate("notes"); got != "notes_1" {
		t.Fatalf("second allocation: %q", got)
	}
	if got := alloc.allocate("notes"); got != "notes_2" {
		t.Fatalf("third allocation: %q", got)
	}
	// A different base with a shared prefix does not disturb the scan.
	if got := alloc.allocate("notes_extra"); got != "notes_extra" {
		t.Fatalf("prefix sibling: %q", got)
	}
	if got := alloc.allocate("notes"); got != "notes_3" {
		t.Fatalf("fourth allocation: %q", got)
	}
	if got := alloc.allocate(""); got != "field" {
		t.Fatalf("empty base: %q", got)
	}
}
