package server

import (
	"context"
	"time"

	"github.com/7phs/membuf/internal/config"
	"github.com/stretchr/testify/mock"
)

var (
	_ config.Config = (*mockConfig)(nil)
	_ Maintenance   = (*mockMaintenance)(nil)
)

type mockConfig struct {
	Exp    time.Duration
	MaxVal int
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
	return time.Minute
}

func (o *mockConfig) MaxValue() int {
	return o.MaxVal
}

func (o *mockConfig) Direct() bool {
	return false
}

func (o *mockConfig) Time() config.TimeSource {
	return config.SystemTime{}
}

type mockMaintenance struct {
	mock.Mock
}

func (m *mockMaintenance) ID() string {
	return m.Called().String(0)
}

func (m *mockMaintenance) Clean(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
