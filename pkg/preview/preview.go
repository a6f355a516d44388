// Package preview fills out a compiled webform in the terminal. Each render
// field becomes a prompt matching its input shape; static blocks are printed
// rather than prompted. The collected answers come back as the value map a
// form submission would carry.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/practiq/go-queryform/pkg/webform"
)

// dateLayout matches the fixed DD-MM-YYYY value format date fields store.
const dateLayout = "02-01-2006"

// Runner walks a compiled field map and collects answers through its driver.
type Runner struct {
	driver PromptDriver
}

// Option configures a Runner.
type Option func(*Runner)

// WithDriver overrides the prompt driver, which defaults to a survey-backed
// terminal driver.
func WithDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// New builds a Runner.
func New(options ...Option) *Runner {
	r := &Runner{driver: &surveyDriver{}}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Run prompts for every field and returns the collected values keyed the way
// the render schema keys them. Fields are visited in key order; statics are
// printed and contribute no value.
func (r *Runner) Run(ctx context.Context, fields map[string]webform.Field) (map[string]any, error) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	values := make(map[string]any)
	for _, key := range keys {
		field := fields[key]
		value, collected, err := r.collect(ctx, key, field)
		if err != nil {
			return nil, fmt.Errorf("preview: field %q: %w", key, err)
		}
		if collected {
			values[key] = value
		}
	}
	return values, nil
}

// RunJSON is Run with the values marshaled for submission.
func (r *Runner) RunJSON(ctx context.Context, fields map[string]webform.Field) ([]byte, error) {
	values, err := r.Run(ctx, fields)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(values, "", "  ")
}

func (r *Runner) collect(ctx context.Context, key string, field webform.Field) (any, bool, error) {
	switch field.Kind {
	case webform.KindHeading:
		return nil, false, r.driver.Info(ctx, strings.ToUpper(field.Content))
	case webform.KindDivider:
		return nil, false, r.driver.Info(ctx, strings.Repeat("-", 40))
	case webform.KindEditor:
		if field.Tag != "" {
			return nil, false, r.driver.Info(ctx, field.Content)
		}
		return r.promptText(ctx, field)
	case webform.KindInput:
		return r.promptInput(ctx, field)
	case webform.KindSelect, webform.KindRadioButton:
		if field.Type == "multiselect" {
			return r.promptMulti(ctx, field)
		}
		return r.promptSelect(ctx, field)
	case webform.KindCheckbox:
		return r.promptMulti(ctx, field)
	case webform.KindTextArea:
		return r.promptText(ctx, field)
	case webform.KindSwitch:
		on, err := r.driver.Confirm(ctx, ConfirmConfig{Message: field.Label, Help: field.Text})
		return on, err == nil, err
	case webform.KindDatePicker:
		return r.promptDate(ctx, field)
	case webform.KindFileUpload:
		return r.promptFiles(ctx, field)
	case webform.KindTable:
		return nil, false, r.driver.Info(ctx, fmt.Sprintf("%s: table input is not supported in terminal preview", field.Label))
	default:
		return nil, false, fmt.Errorf("unhandled field type %q", field.Type)
	}
}

func (r *Runner) promptInput(ctx context.Context, field webform.Field) (any, bool, error) {
	cfg := InputConfig{
		Message:     field.Label,
		Placeholder: field.Placeholder,
		Validator:   rulesValidator(field.Rules),
	}
	if field.Type == "number" {
		cfg.Validator = chainValidators(cfg.Validator, numericValidator)
	}
	out, err := r.driver.Input(ctx, cfg)
	if err != nil {
		return nil, false, err
	}
	if field.Type == "number" && out != "" {
		n, convErr := strconv.ParseFloat(out, 64)
		if convErr == nil {
			return n, true, nil
		}
	}
	return out, true, nil
}

func (r *Runner) promptText(ctx context.Context, field webform.Field) (any, bool, error) {
	out, err := r.driver.TextArea(ctx, TextAreaConfig{Message: field.Label})
	return out, err == nil, err
}

func (r *Runner) promptSelect(ctx context.Context, field webform.Field) (any, bool, error) {
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: field.Label,
		Options: optionLabels(field.Items),
	})
	if err != nil {
		return nil, false, err
	}
	if idx < 0 || idx >= len(field.Items) {
		return nil, false, nil
	}
	return field.Items[idx].Value, true, nil
}

func (r *Runner) promptMulti(ctx context.Context, field webform.Field) (any, bool, error) {
	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message: field.Label,
		Options: optionLabels(field.Items),
	})
	if err != nil {
		return nil, false, err
	}
	out := make([]any, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(field.Items) {
			out = append(out, field.Items[idx].Value)
		}
	}
	return out, true, nil
}

func (r *Runner) promptDate(ctx context.Context, field webform.Field) (any, bool, error) {
	out, err := r.driver.Input(ctx, InputConfig{
		Message:   field.Label,
		Help:      "format " + field.ValueFormat,
		Validator: chainValidators(rulesValidator(field.Rules), dateValidator),
	})
	return out, err == nil, err
}

// promptFiles asks for local paths and stages each through the field's
// upload callback when one is bound, collecting the returned attachment ids.
func (r *Runner) promptFiles(ctx context.Context, field webform.Field) (any, bool, error) {
	multiple := field.Type == "multifile"
	message := field.Label
	if multiple {
		message += " (comma separated paths)"
	}
	out, err := r.driver.Input(ctx, InputConfig{Message: message, Validator: rulesValidator(field.Rules)})
	if err != nil {
		return nil, false, err
	}
	if strings.TrimSpace(out) == "" {
		return nil, false, nil
	}

	paths := []string{out}
	if multiple {
		paths = strings.Split(out, ",")
	}

	var ids []any
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if field.UploadTemp == nil {
			ids = append(ids, filepath.Base(path))
			continue
		}
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, false, openErr
		}
		id, upErr := field.UploadTemp(ctx, filepath.Base(path), f)
		f.Close()
		if upErr != nil {
			return nil, false, upErr
		}
		ids = append(ids, id)
	}
	if !multiple && len(ids) == 1 {
		return ids[0], true, nil
	}
	return ids, true, nil
}

func optionLabels(items []webform.Option) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func rulesValidator(rules []webform.ValidationRule) func(string) error {
	required := false
	for _, rule := range rules {
		if rule.Kind == webform.RuleRequired {
			required = true
		}
	}
	if !required {
		return nil
	}
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("a value is required")
		}
		return nil
	}
}

func numericValidator(v string) error {
	if v == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(v, 64); err != nil {
		return fmt.Errorf("%q is not a number", v)
	}
	return nil
}

func dateValidator(v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return fmt.Errorf("%q is not a DD-MM-YYYY date", v)
	}
	return nil
}

func chainValidators(validators ...func(string) error) func(string) error {
	var active []func(string) error
	for _, v := range validators {
		if v != nil {
			active = append(active, v)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(v string) error {
		for _, validate := range active {
			if err := validate(v); err != nil {
				return err
			}
		}
		return nil
	}
}
