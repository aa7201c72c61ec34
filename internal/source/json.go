package source

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ninjasql/ninjasql/pkg/core"
)

// jsonColumns accumulates columns in order of first appearance.
type jsonColumns struct {
	names []string
	sets  map[string]*typeSet
}

func (c *jsonColumns) set(name string) *typeSet {
	s, ok := c.sets[name]
	if !ok {
		s = newTypeSet()
		c.sets[name] = s
		c.names = append(c.names, name)
	}
	return s
}

// readJSON accepts either an array of objects or a stream of objects
// (newline-delimited JSON).
func readJSON(r io.Reader, path string, opts Options) (*Table, error) {
	dec := json.NewDecoder(bufio.NewReader(r))
	dec.UseNumber()

	cols := &jsonColumns{sets: make(map[string]*typeSet)}
	rows := 0

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, &NoColumnsError{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	switch tok {
	case json.Delim('['):
		for dec.More() && rows < opts.SampleSize {
			if err := expectDelim(dec, '{'); err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", path, rows+1, err)
			}
			if err := readObject(dec, cols); err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", path, rows+1, err)
			}
			rows++
		}
	case json.Delim('{'):
		for {
			if err := readObject(dec, cols); err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", path, rows+1, err)
			}
			rows++
			if rows >= opts.SampleSize {
				break
			}
			err := expectDelim(dec, '{')
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", path, rows+1, err)
			}
		}
	default:
		return nil, fmt.Errorf("%s: expected an array or object, got %v", path, tok)
	}

	if len(cols.names) == 0 {
		return nil, &NoColumnsError{Path: path}
	}

	t := &Table{Path: path, Rows: rows, Columns: make([]Column, len(cols.names))}
	for i, name := range cols.names {
		t.Columns[i] = Column{Name: name, Type: cols.sets[name].result()}
	}
	return t, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// readObject consumes the members of an object whose opening brace was read.
func readObject(dec *json.Decoder, cols *jsonColumns) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}

		name := cleanName(key)
		if name == "" {
			continue
		}
		observeJSON(cols.set(name), v)
	}
	return expectDelim(dec, '}')
}

func observeJSON(s *typeSet, v any) {
	switch val := v.(type) {
	case nil:
	case json.Number:
		if _, err := val.Int64(); err == nil {
			s.narrow(core.TypeInteger)
		} else {
			s.narrow(core.TypeDouble)
		}
	case bool:
		s.narrow(core.TypeBoolean)
	case string:
		s.observe(val)
	default:
		s.narrow(core.TypeString)
	}
}
