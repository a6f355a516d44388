package filtering

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"strings"
)

// TokenVersionLegacy is the unversioned base64 form carried by every URL the
// product has ever emitted. TokenVersionPrefixed adds a "1." version prefix
// ahead of the payload; base64 alphabets never contain '.', so the two forms
// cannot be confused.
const (
	TokenVersionLegacy   = 0
	TokenVersionPrefixed = 1
)

const versionPrefix = "1."

// Codec encodes filter and sort sets to URL-safe opaque tokens and decodes
// them back. Decoding never fails: malformed tokens are logged and yield an
// empty set, so a hand-edited URL degrades to "no active filters" instead of
// breaking the list view.
type Codec struct {
	logger  *slog.Logger
	version int
}

// CodecOption customises a Codec.
type CodecOption func(*Codec)

// WithLogger sets the logger used to report decode failures. A nil logger
// keeps the codec silent.
func WithLogger(logger *slog.Logger) CodecOption {
	return func(c *Codec) {
		c.logger = logger
	}
}

// WithTokenVersion selects the encoded form. Unknown versions fall back to
// the legacy form.
func WithTokenVersion(version int) CodecOption {
	return func(c *Codec) {
		if version == TokenVersionPrefixed {
			c.version = TokenVersionPrefixed
			return
		}
		c.version = TokenVersionLegacy
	}
}

// NewCodec constructs a Codec emitting the legacy token form by default.
func NewCodec(options ...CodecOption) *Codec {
	c := &Codec{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// EncodeFilters serialises the active slots of set, in insertion order, as a
// base64 JSON array of [name, column, operator, value] tuples. Inert slots
// are skipped entirely, never emitted as nulls.
func (c *Codec) EncodeFilters(set *Set) string {
	tuples := make([][]any, 0)
	if set != nil {
		for _, spec := range set.Active() {
			tuples = append(tuples, []any{spec.Name, spec.Column, string(spec.Operator), spec.Value})
		}
	}
	return c.encode(tuples)
}

// DecodeFilters rebuilds a set from a token produced by EncodeFilters. An
// empty token or an undecodable one yields an empty set.
func (c *Codec) DecodeFilters(token string) *Set {
	set := NewSet()
	for _, tuple := range c.decode(token) {
		if len(tuple) < 4 {
			continue
		}
		name, _ := tuple[0].(string)
		column, _ := tuple[1].(string)
		operator, _ := tuple[2].(string)
		if name == "" {
			continue
		}
		set.Put(Spec{
			Name:     name,
			Column:   column,
			Operator: Operator(operator),
			Value:    tuple[3],
		})
	}
	return set
}

// EncodeSort serialises the active slots of set as [name, column, value]
// tuples under the same token format as filters.
func (c *Codec) EncodeSort(set *SortSet) string {
	tuples := make([][]any, 0)
	if set != nil {
		for _, spec := range set.Active() {
			tuples = append(tuples, []any{spec.Name, spec.Column, spec.Value})
		}
	}
	return c.encode(tuples)
}

// DecodeSort rebuilds a sort set from a token produced by EncodeSort.
func (c *Codec) DecodeSort(token string) *SortSet {
	set := NewSortSet()
	for _, tuple := range c.decode(token) {
		if len(tuple) < 3 {
			continue
		}
		name, _ := tuple[0].(string)
		column, _ := tuple[1].(string)
		value, _ := tuple[2].(string)
		if name == "" {
			continue
		}
		set.Put(SortSpec{Name: name, Column: column, Value: value})
	}
	return set
}

func (c *Codec) encode(tuples [][]any) string {
	payload, err := json.Marshal(tuples)
	if err != nil {
		// Tuples are built from JSON-representable slot values; reaching
		// this means a caller stored a channel or func in a slot.
		c.warn("encode token", err)
		payload = []byte("[]")
	}
	token := base64.StdEncoding.EncodeToString(payload)
	if c.version == TokenVersionPrefixed {
		return versionPrefix + token
	}
	return token
}

func (c *Codec) decode(token string) [][]any {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	token = strings.TrimPrefix(token, versionPrefix)

	payload, err := decodeBase64(token)
	if err != nil {
		c.warn("decode token", err)
		return nil
	}

	var tuples [][]any
	if err := json.Unmarshal(payload, &tuples); err != nil {
		c.warn("parse token", err)
		return nil
	}
	return tuples
}

// decodeBase64 accepts all four base64 alphabets. Tokens travel through
// copy-pasted URLs, so padding and +/ substitutions get mangled routinely.
func decodeBase64(token string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	var lastErr error
	for _, enc := range encodings {
		payload, err := enc.DecodeString(token)
		if err == nil {
			return payload, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Codec) warn(msg string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn("filtering: "+msg, "error", err)
}
