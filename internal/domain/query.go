package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter is a raw client-supplied filter clause, untrusted until it has
// passed through BuildConferenceQuery.
type Filter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

type FilterField int

const (
	FieldCity FilterField = iota
	FieldTopic
	FieldMonth
	FieldMaxAttendees
)

type FilterOp int

const (
	OpEqual FilterOp = iota
	OpGreater
	OpGreaterOrEqual
	OpLess
	OpLessOrEqual
	OpNotEqual
)

var filterFields = map[string]FilterField{
	"CITY":          FieldCity,
	"TOPIC":         FieldTopic,
	"MONTH":         FieldMonth,
	"MAX_ATTENDEES": FieldMaxAttendees,
}

var filterOps = map[string]FilterOp{
	"EQ":   OpEqual,
	"GT":   OpGreater,
	"GTEQ": OpGreaterOrEqual,
	"LT":   OpLess,
	"LTEQ": OpLessOrEqual,
	"NE":   OpNotEqual,
}

// Predicate is a validated filter clause. Value is a string for text
// fields and an int for numeric fields.
type Predicate struct {
	Field FilterField
	Op    FilterOp
	Value any
}

// ConferenceQuery is the compiled form of a filter list. At most one
// field carries inequality predicates; results sort by that field first.
type ConferenceQuery struct {
	Predicates      []Predicate
	HasInequality   bool
	InequalityField FilterField
}

// BuildConferenceQuery validates and compiles raw filters. Unknown
// fields or operators and non-numeric values for numeric fields yield
// ErrInvalidFilter; inequality predicates over two distinct fields yield
// ErrAmbiguousInequality.
func BuildConferenceQuery(filters []Filter) (*ConferenceQuery, error) {
	q := &ConferenceQuery{
		Predicates: make([]Predicate, 0, len(filters)),
	}
	for _, f := range filters {
		field, ok := filterFields[f.Field]
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidFilter, f.Field)
		}
		op, ok := filterOps[f.Operator]
		if !ok {
			return nil, fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, f.Operator)
		}

		var value any = f.Value
		if field == FieldMonth || field == FieldMaxAttendees {
			n, err := strconv.Atoi(strings.TrimSpace(f.Value))
			if err != nil {
				return nil, fmt.Errorf("%w: field %q needs a numeric value, got %q", ErrInvalidFilter, f.Field, f.Value)
			}
			value = n
		}

		if op != OpEqual {
			if q.HasInequality && q.InequalityField != field {
				return nil, ErrAmbiguousInequality
			}
			q.HasInequality = true
			q.InequalityField = field
		}

		q.Predicates = append(q.Predicates, Predicate{Field: field, Op: op, Value: value})
	}
	return q, nil
}
