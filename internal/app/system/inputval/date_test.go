package inputval

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/mepad/internal/domain/apperr"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2026-03-14"`, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{`"2026-03-14T09:30"`, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)},
		{`"2026-03-14T09:30:00Z"`, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)},
		{`"2026-03-14T11:30:00+02:00"`, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		var d Date
		if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
			t.Errorf("Unmarshal(%s) error: %v", tt.in, err)
			continue
		}
		if !d.Equal(tt.want) || d.Location() != time.UTC {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, d.Time, tt.want)
		}
	}
}

func TestDate_UnmarshalJSON_Invalid(t *testing.T) {
	for _, in := range []string{`"next tuesday"`, `"14/03/2026"`, `20260314`} {
		var d Date
		err := json.Unmarshal([]byte(in), &d)
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Unmarshal(%s) = %v, want a validation error", in, err)
		}
	}
}

func TestDate_Null(t *testing.T) {
	var body struct {
		When *Date `json:"when"`
	}
	if err := json.Unmarshal([]byte(`{"when":null}`), &body); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if body.When != nil {
		t.Errorf("When = %v, want nil", body.When)
	}
}
