package source

import (
	"strconv"
	"strings"
	"time"

	"github.com/ninjasql/ninjasql/pkg/core"
)

var dateLayouts = []string{"2006-01-02"}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
}

// typeSet tracks which candidate types every non-empty value of a column fits.
type typeSet struct {
	seen      bool
	integer   bool
	double    bool
	boolean   bool
	date      bool
	timestamp bool
}

func newTypeSet() *typeSet {
	return &typeSet{integer: true, double: true, boolean: true, date: true, timestamp: true}
}

// observe narrows the candidates with one raw value. Empty values are ignored.
func (s *typeSet) observe(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	s.seen = true
	if s.integer {
		_, err := strconv.ParseInt(v, 10, 64)
		s.integer = err == nil
	}
	if s.double {
		_, err := strconv.ParseFloat(v, 64)
		s.double = err == nil
	}
	if s.boolean {
		s.boolean = isBool(v)
	}
	if s.date {
		s.date = parses(v, dateLayouts)
	}
	if s.timestamp {
		s.timestamp = parses(v, timestampLayouts)
	}
}

// narrow records a value whose JSON kind already fixes its type.
func (s *typeSet) narrow(t core.LogicalType) {
	s.seen = true
	s.integer = s.integer && t == core.TypeInteger
	s.double = s.double && (t == core.TypeInteger || t == core.TypeDouble)
	s.boolean = s.boolean && t == core.TypeBoolean
	s.date = false
	s.timestamp = false
}

// result picks the narrowest type consistent with every observation.
func (s *typeSet) result() core.LogicalType {
	switch {
	case !s.seen:
		return core.TypeString
	case s.integer:
		return core.TypeInteger
	case s.double:
		return core.TypeDouble
	case s.boolean:
		return core.TypeBoolean
	case s.date:
		return core.TypeDate
	case s.timestamp:
		return core.TypeTimestamp
	default:
		return core.TypeString
	}
}

func isBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "false":
		return true
	}
	return false
}

func parses(v string, layouts []string) bool {
	for _, layout := range layouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}
