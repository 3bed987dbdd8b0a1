package metadata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/otpkeeper/internal/timex"
)

// GetString returns "" for an absent key.
func GetString(ctx context.Context, r Repository, key string) (string, error) {
	v, err := r.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func SetString(ctx context.Context, r Repository, key, value string) error {
	return r.Set(ctx, key, []byte(value))
}

// GetTime reads a timestamp stored by SetTime. An absent key gives the zero
// time.
func GetTime(ctx context.Context, r Repository, key string) (time.Time, error) {
	v, err := r.Get(ctx, key)
	if err != nil || v == nil {
		return time.Time{}, err
	}
	ms, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("metadata[%s] is not a timestamp: %w", key, err)
	}
	return timex.FromUnixMilli(ms), nil
}

// SetTime stores t as epoch milliseconds.
func SetTime(ctx context.Context, r Repository, key string, t time.Time) error {
	return r.Set(ctx, key, []byte(strconv.FormatInt(timex.UnixMilli(t), 10)))
}

// SetTimes stores several timestamps atomically.
func SetTimes(ctx context.Context, r Repository, times map[string]time.Time) error {
	values := make(map[string][]byte, len(times))
	for k, t := range times {
		values[k] = []byte(strconv.FormatInt(timex.UnixMilli(t), 10))
	}
	return r.SetMany(ctx, values)
}
