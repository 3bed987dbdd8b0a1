// Package timex holds small time helpers shared by the config loaders and
// the services.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Duration wraps time.Duration so JSON can carry either a Go duration string
// ("3s", "1m30s") or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// UnixMilli returns t as epoch milliseconds, the timestamp unit of accounts
// and vault envelopes.
func UnixMilli(t time.Time) int64 {
	return t.UnixMilli()
}

// FromUnixMilli is the inverse of UnixMilli, in UTC.
func FromUnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
