package inputval

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/dalemusser/mepad/internal/domain/apperr"
)

// Date accepts either an RFC 3339 timestamp or a bare calendar date
// ("2026-03-14", read as midnight UTC).
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return apperr.Invalid("dates must be strings")
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return apperr.Invalid("%q is not a valid date", s)
}
