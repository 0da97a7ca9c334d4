package domain

import (
	"errors"
	"testing"
)

func TestBuildConferenceQuery(t *testing.T) {
	tests := []struct {
		name       string
		filters    []Filter
		wantErr    error
		wantPreds  int
		wantIneq   bool
		wantIneqOn FilterField
	}{
		{
			name:      "no filters",
			filters:   nil,
			wantPreds: 0,
		},
		{
			name: "single equality",
			filters: []Filter{
				{Field: "CITY", Operator: "EQ", Value: "London"},
			},
			wantPreds: 1,
		},
		{
			name: "equality plus inequality on another field",
			filters: []Filter{
				{Field: "TOPIC", Operator: "EQ", Value: "Go"},
				{Field: "MAX_ATTENDEES", Operator: "GT", Value: "10"},
			},
			wantPreds:  2,
			wantIneq:   true,
			wantIneqOn: FieldMaxAttendees,
		},
		{
			name: "two inequalities on the same field",
			filters: []Filter{
				{Field: "MONTH", Operator: "GTEQ", Value: "3"},
				{Field: "MONTH", Operator: "LT", Value: "9"},
			},
			wantPreds:  2,
			wantIneq:   true,
			wantIneqOn: FieldMonth,
		},
		{
			name: "inequalities on two different fields",
			filters: []Filter{
				{Field: "CITY", Operator: "GT", Value: "A"},
				{Field: "MONTH", Operator: "LT", Value: "9"},
			},
			wantErr: ErrAmbiguousInequality,
		},
		{
			name: "unknown field",
			filters: []Filter{
				{Field: "SPEAKER", Operator: "EQ", Value: "x"},
			},
			wantErr: ErrInvalidFilter,
		},
		{
			name: "unknown operator",
			filters: []Filter{
				{Field: "CITY", Operator: "LIKE", Value: "x"},
			},
			wantErr: ErrInvalidFilter,
		},
		{
			name: "non-numeric month value",
			filters: []Filter{
				{Field: "MONTH", Operator: "EQ", Value: "June"},
			},
			wantErr: ErrInvalidFilter,
		},
		{
			name: "non-numeric max attendees value",
			filters: []Filter{
				{Field: "MAX_ATTENDEES", Operator: "GT", Value: "lots"},
			},
			wantErr: ErrInvalidFilter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := BuildConferenceQuery(tt.filters)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(q.Predicates) != tt.wantPreds {
				t.Fatalf("expected %d predicates, got %d", tt.wantPreds, len(q.Predicates))
			}
			if q.HasInequality != tt.wantIneq {
				t.Fatalf("expected HasInequality=%v, got %v", tt.wantIneq, q.HasInequality)
			}
			if tt.wantIneq && q.InequalityField != tt.wantIneqOn {
				t.Fatalf("expected inequality on %v, got %v", tt.wantIneqOn, q.InequalityField)
			}
		})
	}
}

func TestBuildConferenceQuery_CoercesIntegers(t *testing.T) {
	q, err := BuildConferenceQuery([]Filter{
		{Field: "MONTH", Operator: "EQ", Value: " 6 "},
		{Field: "MAX_ATTENDEES", Operator: "GT", Value: "100"},
		{Field: "CITY", Operator: "EQ", Value: "Paris"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := q.Predicates[0].Value.(int); !ok || v != 6 {
		t.Errorf("expected month coerced to int 6, got %#v", q.Predicates[0].Value)
	}
	if v, ok := q.Predicates[1].Value.(int); !ok || v != 100 {
		t.Errorf("expected max attendees coerced to int 100, got %#v", q.Predicates[1].Value)
	}
	if v, ok := q.Predicates[2].Value.(string); !ok || v != "Paris" {
		t.Errorf("expected city kept as string, got %#v", q.Predicates[2].Value)
	}
}
