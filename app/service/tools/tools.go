// Package tools defines the operations a language model may call during a
// conversation. Each definition is bound to a session by the transport that
// exposes it, so state never leaks between conversations.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type ParamType string

const (
	TypeString     ParamType = "string"
	TypeStringList ParamType = "string_list"
)

type Param struct {
	Name        string
	Description string
	Type        ParamType
	Required    bool
}

// Tool is one named operation over a session of type S.
type Tool[S any] struct {
	Name        string
	Description string
	Params      []Param
	Call        func(ctx context.Context, s S, args Args) (string, error)
}

// Bind fixes the session the tool works on.
func (t Tool[S]) Bind(s S) func(ctx context.Context, args Args) (string, error) {
	return func(ctx context.Context, args Args) (string, error) {
		return t.Call(ctx, s, args)
	}
}

// InputHint describes the expected JSON input for models that pass tool input as text.
func (t Tool[S]) InputHint() string {
	if len(t.Params) == 0 {
		return "No input required."
	}

	fields := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		kind := "string"
		if p.Type == TypeStringList {
			kind = "string[]"
		}
		fields = append(fields, fmt.Sprintf("%s (%s): %s", p.Name, kind, p.Description))
	}

	return "Input must be a JSON object with fields " + strings.Join(fields, "; ") + "."
}

// Args are decoded tool arguments.
type Args map[string]any

func (a Args) String(key string) string {
	switch v := a[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Strings accepts a JSON array or a single comma separated string.
func (a Args) Strings(key string) []string {
	switch v := a[key].(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			} else if item != nil {
				result = append(result, fmt.Sprint(item))
			}
		}
		return result
	case string:
		return strings.Split(v, ",")
	}

	return nil
}

// ParseInput decodes free-form tool input. A JSON object is used as is; anything
// else is assigned to the first parameter.
func ParseInput(input string, params []Param) (Args, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Args{}, nil
	}

	if input[0] == '{' {
		var args Args
		if err := json.Unmarshal([]byte(input), &args); err != nil {
			return nil, fmt.Errorf("invalid tool input JSON: %w", err)
		}
		return args, nil
	}

	if len(params) == 0 {
		return Args{}, nil
	}

	first := params[0]
	if first.Type == TypeStringList && input[0] == '[' {
		var list []any
		if err := json.Unmarshal([]byte(input), &list); err != nil {
			return nil, fmt.Errorf("invalid tool input JSON: %w", err)
		}
		return Args{first.Name: list}, nil
	}

	return Args{first.Name: strings.Trim(input, `"`)}, nil
}

// Missing lists required parameters absent from args.
func Missing(params []Param, args Args) []string {
	var missing []string
	for _, p := range params {
		if !p.Required {
			continue
		}
		if _, ok := args[p.Name]; !ok {
			missing = append(missing, p.Name)
		}
	}

	return missing
}
