package starlark

import (
	"fmt"
	"strings"
	"time"

	"go.starlark.net/starlark"

	"github.com/ninjasql/ninjasql/pkg/scd2"
)

// builtinNames are reserved; vars may not shadow them.
var builtinNames = map[string]bool{
	"batch":     true,
	"target":    true,
	"vars":      true,
	"add_days":  true,
	"timestamp": true,
	"quote":     true,
}

func init() {
	for _, role := range scd2.DateRoles() {
		builtinNames[string(role)] = true
	}
}

// addDays implements add_days(date, n): the date n days later.
func addDays(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var date string
	var n int
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &date, &n); err != nil {
		return nil, err
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return starlark.String(d.AddDate(0, 0, n).Format(DateLayout)), nil
}

// timestampOf implements timestamp(date): the date at midnight.
func timestampOf(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var date string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &date); err != nil {
		return nil, err
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return starlark.String(d.Format("2006-01-02 15:04:05")), nil
}

// quote implements quote(s): an SQL string literal.
func quote(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var s string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &s); err != nil {
		return nil, err
	}
	return starlark.String("'" + strings.ReplaceAll(s, "'", "''") + "'"), nil
}

// IsBuiltin reports whether name is a template builtin.
func IsBuiltin(name string) bool { return builtinNames[name] }

// Helpers returns the batch-independent builtins: add_days, timestamp and
// quote. Macro files are executed with these predeclared.
func Helpers() starlark.StringDict {
	return starlark.StringDict{
		"add_days":  starlark.NewBuiltin("add_days", addDays),
		"timestamp": starlark.NewBuiltin("timestamp", timestampOf),
		"quote":     starlark.NewBuiltin("quote", quote),
	}
}

// Predeclared returns the globals of a template evaluation: the four date
// roles as YYYY-MM-DD strings, batch, target, vars and the date helpers.
func Predeclared(batch scd2.BatchContext, target *TargetInfo, vars *starlark.Dict) starlark.StringDict {
	globals := Helpers()
	globals["batch"] = BatchToStarlark(batch)
	for _, role := range scd2.DateRoles() {
		globals[string(role)] = starlark.String(batch.Value(role).Format(DateLayout))
	}
	if target != nil {
		globals["target"] = target.ToStarlark()
	}
	if vars == nil {
		vars = starlark.NewDict(0)
	}
	globals["vars"] = vars
	return globals
}
