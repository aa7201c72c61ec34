package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

func readCSV(r io.Reader, path string, opts Options) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	if opts.Separator != 0 {
		reader.Comma = opts.Separator
	}

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &NoColumnsError{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var names []string
	var pending []string
	if opts.NoHeader {
		names = make([]string, len(first))
		for i := range first {
			names[i] = positionalName(i)
		}
		pending = append([]string(nil), first...)
	} else {
		names = make([]string, len(first))
		blank := true
		for i, h := range first {
			names[i] = cleanName(h)
			if names[i] == "" {
				names[i] = positionalName(i)
				continue
			}
			blank = false
		}
		if blank {
			return nil, &NoColumnsError{Path: path}
		}
	}
	if err := checkDuplicates(path, names); err != nil {
		return nil, err
	}

	sets := make([]*typeSet, len(names))
	for i := range sets {
		sets[i] = newTypeSet()
	}
	observe := func(rec []string) {
		for i := 0; i < len(rec) && i < len(sets); i++ {
			sets[i].observe(rec[i])
		}
	}

	rows := 0
	if pending != nil {
		observe(pending)
		rows++
	}
	for rows < opts.SampleSize {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", rows+1, err)
		}
		observe(rec)
		rows++
	}

	t := &Table{Path: path, Rows: rows, Columns: make([]Column, len(names))}
	for i, name := range names {
		t.Columns[i] = Column{Name: name, Type: sets[i].result()}
	}
	return t, nil
}

func checkDuplicates(path string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return fmt.Errorf("%s: duplicate column %q", path, n)
		}
		seen[n] = true
	}
	return nil
}
