// Package filter evaluates user supplied expressions against catalog records.
// Record fields are exposed under their JSON names, for example
// `duration > 180 && lower(artist_name) contains "punk"`. Besides the expr
// builtins, year(date) and minutes(seconds) are available.
package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/builtin"
	"github.com/expr-lang/expr/vm"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

var errEmptyExpression = errors.New("empty expression")

// CompilationError indicates an expression could not be compiled.
type CompilationError struct {
	Expression string
	Reason     string
	Err        error
}

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compilation error in '%s': %s: %v", e.Expression, e.Reason, e.Err)
	}

	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// EvaluationError indicates an expression failed on a record.
type EvaluationError struct {
	Expression string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluating '%s': %v", e.Expression, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// Filter is a compiled boolean expression. It is safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles expression into a filter.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Err:        errEmptyExpression,
		}
	}

	options := []expr.Option{
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	}

	// A record field shadows the builtin of the same name, e.g. duration.
	for _, name := range shadowedBuiltins() {
		options = append(options, expr.DisableBuiltin(name))
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{expression: expression, program: program}, nil
}

// Expression returns the source expression.
func (f *Filter) Expression() string {
	return f.expression
}

// Match reports whether record satisfies the filter.
func (f *Filter) Match(record any) (bool, error) {
	env, err := environment(record)
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, Err: err}
	}

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, Err: err}
	}

	matched, ok := result.(bool)

	return ok && matched, nil
}

// Apply keeps the records that satisfy f, in order. A nil filter keeps everything.
func Apply[T any](f *Filter, records []T) ([]T, error) {
	if f == nil {
		return records, nil
	}

	kept := make([]T, 0, len(records))

	for _, record := range records {
		matched, err := f.Match(record)
		if err != nil {
			return nil, err
		}

		if matched {
			kept = append(kept, record)
		}
	}

	return kept, nil
}

// catalogRecords are the record types a filter can be applied to.
var catalogRecords = []any{
	deezer.Track{}, deezer.Album{}, deezer.Artist{}, deezer.Playlist{},
	deezer.Genre{}, deezer.Radio{}, deezer.User{}, deezer.Editorial{},
	deezer.Podcast{}, deezer.Episode{},
}

var shadowedBuiltins = sync.OnceValue(func() []string {
	var names []string

	for _, field := range recordFieldNames(catalogRecords...) {
		if _, ok := builtin.Index[field]; ok {
			names = append(names, field)
		}
	}

	return names
})

// recordFieldNames returns the JSON names of the records' fields, without duplicates.
func recordFieldNames(records ...any) []string {
	seen := make(map[string]bool)

	var names []string

	for _, record := range records {
		recordType := reflect.TypeOf(record)
		for i := range recordType.NumField() {
			field := recordType.Field(i)

			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "" || name == "-" || seen[name] {
				continue
			}

			seen[name] = true
			names = append(names, name)
		}
	}

	return names
}

// environment exposes record fields by their JSON names next to the helpers.
func environment(record any) (map[string]any, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	fields := make(map[string]any)

	err = json.Unmarshal(data, &fields)
	if err != nil {
		return nil, fmt.Errorf("record is not an object: %w", err)
	}

	env := helperFunctions()
	for key, value := range fields {
		if _, reserved := env[key]; !reserved {
			env[key] = value
		}
	}

	return env, nil
}

func helperFunctions() map[string]any {
	return map[string]any{
		// year extracts the year of a "2006-01-02" date, 0 when unknown.
		"year": func(date any) int {
			raw, ok := date.(string)
			if !ok {
				return 0
			}

			parsed, err := time.Parse(time.DateOnly, raw)
			if err != nil {
				return 0
			}

			return parsed.Year()
		},
		"minutes": func(seconds float64) float64 {
			return seconds / 60
		},
	}
}
