package preview

import (
	"context"
	"errors"
)

// ErrScriptExhausted is returned by Scripted when a prompt arrives after the
// queued answers ran out.
var ErrScriptExhausted = errors.New("preview: scripted answers exhausted")

// Scripted is a PromptDriver that replays queued answers in order, for tests
// and non-interactive runs. Info output is recorded rather than printed.
type Scripted struct {
	Inputs       []string
	Confirms     []bool
	Selections   []int
	MultiSelects [][]int
	TextAreas    []string

	Messages []string
}

func (s *Scripted) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.Inputs) == 0 {
		return "", ErrScriptExhausted
	}
	out := s.Inputs[0]
	s.Inputs = s.Inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(out); err != nil {
			return "", err
		}
	}
	return out, nil
}

func (s *Scripted) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(s.Confirms) == 0 {
		return false, ErrScriptExhausted
	}
	out := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return out, nil
}

func (s *Scripted) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(s.Selections) == 0 {
		return 0, ErrScriptExhausted
	}
	out := s.Selections[0]
	s.Selections = s.Selections[1:]
	return out, nil
}

func (s *Scripted) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.MultiSelects) == 0 {
		return nil, ErrScriptExhausted
	}
	out := s.MultiSelects[0]
	s.MultiSelects = s.MultiSelects[1:]
	return out, nil
}

func (s *Scripted) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.TextAreas) == 0 {
		return "", ErrScriptExhausted
	}
	out := s.TextAreas[0]
	s.TextAreas = s.TextAreas[1:]
	return out, nil
}

func (s *Scripted) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Messages = append(s.Messages, msg)
	return nil
}
