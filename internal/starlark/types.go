// Package starlark provides the Starlark evaluation context used to bind
// template placeholders to the dates of a batch run.
package starlark

import (
	"fmt"
	"sort"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/scd2"
)

// DateLayout is how dates are exposed to expressions.
const DateLayout = "2006-01-02"

// TargetInfo contains database target information.
// Exposed as the "target" global.
type TargetInfo struct {
	Type     string
	Schema   string
	Database string
}

// ToStarlark converts TargetInfo to a Starlark struct value.
func (t *TargetInfo) ToStarlark() starlark.Value {
	return starlarkstruct.FromStringDict(starlark.String("target"), starlark.StringDict{
		"type":     starlark.String(t.Type),
		"schema":   starlark.String(t.Schema),
		"database": starlark.String(t.Database),
	})
}

// TargetInfoFromConfig extracts the fields of a target that templates may
// see. Credentials are left out.
func TargetInfoFromConfig(t *core.TargetConfig) *TargetInfo {
	if t == nil {
		return nil
	}
	return &TargetInfo{
		Type:     t.Type,
		Schema:   t.Schema,
		Database: t.Database,
	}
}

// BatchToStarlark exposes a batch context as a struct whose fields are the
// date role names.
func BatchToStarlark(ctx scd2.BatchContext) starlark.Value {
	fields := make(starlark.StringDict, 4)
	for _, role := range scd2.DateRoles() {
		fields[string(role)] = starlark.String(ctx.Value(role).Format(DateLayout))
	}
	return starlarkstruct.FromStringDict(starlark.String("batch"), fields)
}

// GoToStarlark converts a Go value to a Starlark value.
// Supported types: string, int, int64, float64, bool, []string, []any, map[string]any
func GoToStarlark(v any) (starlark.Value, error) {
	switch val := v.(type) {
	case nil:
		return starlark.None, nil
	case string:
		return starlark.String(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case int64:
		return starlark.MakeInt64(val), nil
	case float64:
		return starlark.Float(val), nil
	case bool:
		return starlark.Bool(val), nil
	case []string:
		items := make([]starlark.Value, len(val))
		for i, s := range val {
			items[i] = starlark.String(s)
		}
		return starlark.NewList(items), nil
	case []any:
		items := make([]starlark.Value, len(val))
		for i, item := range val {
			sv, err := GoToStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			items[i] = sv
		}
		return starlark.NewList(items), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		dict := starlark.NewDict(len(val))
		for _, k := range keys {
			sv, err := GoToStarlark(val[k])
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", k, err)
			}
			if err := dict.SetKey(starlark.String(k), sv); err != nil {
				return nil, fmt.Errorf("dict setkey %q: %w", k, err)
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}
