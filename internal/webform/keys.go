package webform

import (
	"regexp"
	"strconv"
	"strings"
)

var splitWordsPattern = regexp.MustCompile(`[^A-Za-z0-9]+`)

// camelCase converts a human label into a field key: "Full Name" becomes
// "fullName", "ABN / Tax number" becomes "abnTaxNumber".
func camelCase(input string) string {
	words := splitWordsPattern.Split(input, -1)
	var out strings.Builder
	first := true
	for _, word := range words {
		if word == "" {
			continue
		}
		lower := strings.ToLower(word)
		if first {
			out.WriteString(lower)
			first = false
			continue
		}
		out.WriteString(strings.ToUpper(lower[:1]))
		out.WriteString(lower[1:])
	}
	return out.String()
}

// keyAllocator hands out unique field keys. Colliding base keys get numeric
// suffixes (_1, _2, ...) one past the highest suffix already emitted for that
// base. The suffix search scans all emitted keys by prefix, which is
// quadratic in the number of colliding labels; fine for human-authored forms
// under a hundred fields.
type keyAllocator struct {
	emitted map[string]struct{}
}

func newKeyAllocator() *keyAllocator {
	return &keyAllocator{emitted: make(map[string]struct{})}
}

func (a *keyAllocator) allocate(base string) string {
	if base == "" {
		// Neither a label nor a name was present; an empty map key would be
		// unreachable from the renderer.
		base = "field"
	}
	if _, taken := a.emitted[base]; !taken {
		a.emitted[base] = struct{}{}
		return base
	}

	highest := 0
	prefix := base + "_"
	for key := range a.emitted {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		n, err := strconv.Atoi(key[len(prefix):])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	key := prefix + strconv.Itoa(highest+1)
	a.emitted[key] = struct{}{}
	return key
}
