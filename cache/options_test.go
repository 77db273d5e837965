package cache

import (
	"errors"
	"testing"
	"time"
)

func TestOptionsBuilder_RequiresKey(t *testing.T) {
	_, err := NewOptionsBuilder().WithSlidingExpiration(time.Minute).Build()
	if !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}

func TestOptionsBuilder_Build(t *testing.T) {
	opts, err := NewOptionsBuilder().
		WithKey("k").
		WithAbsoluteExpirationRelativeToNow(5 * time.Minute).
		WithSlidingExpiration(time.Minute).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.AbsoluteExpirationRelativeToNow != 5*time.Minute || opts.SlidingExpiration != time.Minute {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestOptionsBuilder_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		build func(*OptionsBuilder) *OptionsBuilder
		field string
	}{
		{
			name:  "zero relative",
			build: func(b *OptionsBuilder) *OptionsBuilder { return b.WithAbsoluteExpirationRelativeToNow(0) },
			field: "AbsoluteExpirationRelativeToNow",
		},
		{
			name:  "negative sliding",
			build: func(b *OptionsBuilder) *OptionsBuilder { return b.WithSlidingExpiration(-time.Second) },
			field: "SlidingExpiration",
		},
		{
			name:  "zero absolute",
			build: func(b *OptionsBuilder) *OptionsBuilder { return b.WithAbsoluteExpiration(time.Time{}) },
			field: "AbsoluteExpiration",
		},
		{
			name:  "past absolute",
			build: func(b *OptionsBuilder) *OptionsBuilder { return b.WithAbsoluteExpiration(time.Now().Add(-time.Hour)) },
			field: "AbsoluteExpiration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(NewOptionsBuilder().WithKey("k")).Build()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestOptionsBuilder_AbsoluteExpirationUsesClock(t *testing.T) {
	clock := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	at := clock.Add(time.Hour)

	// The deadline is past for time.Now but ahead of the store clock.
	opts, err := NewOptionsBuilder().
		WithKey("k").
		WithAbsoluteExpiration(at).
		WithClock(func() time.Time { return clock }).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.AbsoluteExpiration.Equal(at) {
		t.Errorf("AbsoluteExpiration = %v, want %v", opts.AbsoluteExpiration, at)
	}

	_, err = NewOptionsBuilder().
		WithKey("k").
		WithClock(func() time.Time { return at }).
		WithAbsoluteExpiration(at).
		Build()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "AbsoluteExpiration" {
		t.Errorf("deadline equal to the clock must be rejected, got %v", err)
	}
}

func TestOptions_DeadlineAndExpiresAt(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		opts         Options
		wantDeadline time.Time
		wantExpires  time.Time
	}{
		{name: "none", opts: Options{}},
		{
			name:         "relative only",
			opts:         Options{AbsoluteExpirationRelativeToNow: time.Hour},
			wantDeadline: now.Add(time.Hour),
			wantExpires:  now.Add(time.Hour),
		},
		{
			name:         "absolute before relative",
			opts:         Options{AbsoluteExpiration: now.Add(10 * time.Minute), AbsoluteExpirationRelativeToNow: time.Hour},
			wantDeadline: now.Add(10 * time.Minute),
			wantExpires:  now.Add(10 * time.Minute),
		},
		{
			name:         "sliding fires first",
			opts:         Options{AbsoluteExpirationRelativeToNow: time.Hour, SlidingExpiration: time.Minute},
			wantDeadline: now.Add(time.Hour),
			wantExpires:  now.Add(time.Minute),
		},
		{
			name:        "sliding only",
			opts:        Options{SlidingExpiration: time.Minute},
			wantExpires: now.Add(time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deadline := tt.opts.Deadline(now)
			if !deadline.Equal(tt.wantDeadline) {
				t.Errorf("Deadline() = %v, want %v", deadline, tt.wantDeadline)
			}
			if got := tt.opts.ExpiresAt(now, deadline); !got.Equal(tt.wantExpires) {
				t.Errorf("ExpiresAt() = %v, want %v", got, tt.wantExpires)
			}
		})
	}
}
