package cache

import (
	"errors"
	"time"
)

// ErrEmptyKey is returned by OptionsBuilder.Build when no key was supplied.
var ErrEmptyKey = errors.New("cache: options key cannot be empty")

// Options is the expiration policy of a single cache entry. Zero values mean
// "not set". When several bounds are set the entry expires at whichever fires first.
type Options struct {
	// AbsoluteExpiration is a wall clock deadline.
	AbsoluteExpiration time.Time
	// AbsoluteExpirationRelativeToNow is a deadline measured from the write.
	AbsoluteExpirationRelativeToNow time.Duration
	// SlidingExpiration is how long the entry may stay unread before it expires.
	SlidingExpiration time.Duration
}

// Deadline returns the earliest absolute bound for an entry written at now, or
// the zero time when the entry has no absolute bound.
func (o Options) Deadline(now time.Time) time.Time {
	var deadline time.Time
	if !o.AbsoluteExpiration.IsZero() {
		deadline = o.AbsoluteExpiration
	}
	if o.AbsoluteExpirationRelativeToNow > 0 {
		relative := now.Add(o.AbsoluteExpirationRelativeToNow)
		if deadline.IsZero() || relative.Before(deadline) {
			deadline = relative
		}
	}
	return deadline
}

// ExpiresAt returns when an entry touched at now should expire, combining the
// absolute deadline with the sliding window. Zero means no expiration.
func (o Options) ExpiresAt(now time.Time, deadline time.Time) time.Time {
	expires := deadline
	if o.SlidingExpiration > 0 {
		sliding := now.Add(o.SlidingExpiration)
		if expires.IsZero() || sliding.Before(expires) {
			expires = sliding
		}
	}
	return expires
}

// OptionsBuilder assembles Options for a keyed entry.
type OptionsBuilder struct {
	key     string
	options Options
	now     func() time.Time
	err     error
}

// NewOptionsBuilder returns an empty builder.
func NewOptionsBuilder() *OptionsBuilder {
	return &OptionsBuilder{now: time.Now}
}

// WithClock sets the time source an absolute deadline is checked against at
// Build. It should be the clock of the store the entry is written to.
func (b *OptionsBuilder) WithClock(now func() time.Time) *OptionsBuilder {
	if now != nil {
		b.now = now
	}
	return b
}

// WithKey sets the key of the entry the options are built for.
func (b *OptionsBuilder) WithKey(key string) *OptionsBuilder {
	b.key = key
	return b
}

// WithAbsoluteExpiration sets a wall clock deadline. Build rejects it when it
// is not after the builder clock.
func (b *OptionsBuilder) WithAbsoluteExpiration(at time.Time) *OptionsBuilder {
	if at.IsZero() {
		b.fail(&ConfigError{Field: "AbsoluteExpiration", Message: "must be set"})
	}
	b.options.AbsoluteExpiration = at
	return b
}

// WithAbsoluteExpirationRelativeToNow sets a deadline measured from the write.
func (b *OptionsBuilder) WithAbsoluteExpirationRelativeToNow(d time.Duration) *OptionsBuilder {
	if d <= 0 {
		b.fail(&ConfigError{Field: "AbsoluteExpirationRelativeToNow", Message: "must be greater than 0"})
	}
	b.options.AbsoluteExpirationRelativeToNow = d
	return b
}

// WithSlidingExpiration sets how long the entry may stay inactive.
func (b *OptionsBuilder) WithSlidingExpiration(d time.Duration) *OptionsBuilder {
	if d <= 0 {
		b.fail(&ConfigError{Field: "SlidingExpiration", Message: "must be greater than 0"})
	}
	b.options.SlidingExpiration = d
	return b
}

func (b *OptionsBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build returns the assembled Options. It fails with ErrEmptyKey when no key
// was set, or with the first invalid expiration supplied.
func (b *OptionsBuilder) Build() (Options, error) {
	if b.key == "" {
		return Options{}, ErrEmptyKey
	}
	if b.err != nil {
		return Options{}, b.err
	}
	if at := b.options.AbsoluteExpiration; !at.IsZero() && !at.After(b.now()) {
		return Options{}, &ConfigError{Field: "AbsoluteExpiration", Message: "must be in the future"}
	}
	return b.options, nil
}
