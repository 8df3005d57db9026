package config

import (
	"os"
	"strconv"
	"time"
)

const (
	LOGLEVEL    = "LOGLEVEL"
	PORT        = "PORT"
	EXPIRATION  = "EXPIRATION"
	MAINTENANCE = "MAINTENANCE"
	MAXVALUE    = "MAXVALUE"
	DIRECT      = "DIRECT"

	defaultLogLevel    = LogLevelInfo
	defaultPort        = 9889
	defaultExpiration  = 30 * time.Minute
	defaultMaintenance = 10 * time.Minute
	defaultMaxValue    = 4 << 20
	defaultDirect      = false
)

type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

type TimeSource interface {
	Now() time.Time
}

type SystemTime struct{}

func (o SystemTime) Now() time.Time {
	return time.Now()
}

type Config interface {
	LogLevel() LogLevel
	Port() int
	Expiration() time.Duration
	Maintenance() time.Duration
	MaxValue() int
	Direct() bool
	Time() TimeSource
}

type EnvConfig struct {
	logLevel    LogLevel
	port        int
	expiration  time.Duration
	maintenance time.Duration
	maxValue    int
	direct      bool
}

func NewConfigFromEnv() (Config, error) {
	logLevel := LogLevel(getStringOr(LOGLEVEL, string(defaultLogLevel)))

	port, err := getIntOr(PORT, defaultPort)
	if err != nil {
		return nil, err
	}

	expiration, err := getDurationOr(EXPIRATION, defaultExpiration)
	if err != nil {
		return nil, err
	}

	maintenance, err := getDurationOr(MAINTENANCE, defaultMaintenance)
	if err != nil {
		return nil, err
	}

	maxValue, err := getIntOr(MAXVALUE, defaultMaxValue)
	if err != nil {
		return nil, err
	}

	direct, err := getBoolOr(DIRECT, defaultDirect)
	if err != nil {
		return nil, err
	}

	return &EnvConfig{
		logLevel:    logLevel,
		port:        port,
		expiration:  expiration,
		maintenance: maintenance,
		maxValue:    maxValue,
		direct:      direct,
	}, nil
}

func (o *EnvConfig) LogLevel() LogLevel {
	return o.logLevel
}

func (o *EnvConfig) Port() int {
	return o.port
}

func (o *EnvConfig) Expiration() time.Duration {
	return o.expiration
}

func (o *EnvConfig) Maintenance() time.Duration {
	return o.maintenance
}

func (o *EnvConfig) MaxValue() int {
	return o.maxValue
}

func (o *EnvConfig) Direct() bool {
	return o.direct
}

func (o *EnvConfig) Time() TimeSource {
	return SystemTime{}
}

func getStringOr(key string, defV string) string {
	v := os.Getenv(key)
	if v == "" {
		return defV
	}

	return v
}

func getIntOr(key string, defV int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defV, nil
	}

	return strconv.Atoi(v)
}

func getDurationOr(key string, defV time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defV, nil
	}

	return time.ParseDuration(v)
}

func getBoolOr(key string, defV bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defV, nil
	}

	return strconv.ParseBool(v)
}
