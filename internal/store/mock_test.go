package store

import (
	"time"

	"github.com/7phs/membuf/internal/config"
)

var (
	_ config.Config     = (*mockConfig)(nil)
	_ config.TimeSource = constantTime{}
	_ config.TimeSource = (*adjustableTime)(nil)
)

type constantTime time.Time

func (o constantTime) Now() time.Time {
	return time.Time(o)
}

type adjustableTime struct {
	now time.Time
}

func (o *adjustableTime) Now() time.Time {
	return o.now
}

func (o *adjustableTime) advance(d time.Duration) {
	o.now = o.now.Add(d)
}

type mockConfig struct {
	Exp    time.Duration
	MaxVal int
	TimeS  config.TimeSource
}

func (o *mockConfig) LogLevel() config.LogLevel {
	return config.LogLevelDebug
}

func (o *mockConfig) Port() int {
	return 0
}

func (o *mockConfig) Expiration() time.Duration {
	return o.Exp
}

func (o *mockConfig) Maintenance() time.Duration {
	return 0
}

func (o *mockConfig) MaxValue() int {
	return o.MaxVal
}

func (o *mockConfig) Direct() bool {
	return false
}

func (o *mockConfig) Time() config.TimeSource {
	if o.TimeS == nil {
		return config.SystemTime{}
	}

	return o.TimeS
}
