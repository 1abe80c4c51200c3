package logger

import (
	"testing"

	"github.com/deppfellow/gastro-routes/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPgxTraceLogLevelMatchesTracelog(t *testing.T) {
	cases := map[zerolog.Level]tracelog.LogLevel{
		zerolog.TraceLevel: tracelog.LogLevelTrace,
		zerolog.DebugLevel: tracelog.LogLevelDebug,
		zerolog.InfoLevel:  tracelog.LogLevelInfo,
		zerolog.WarnLevel:  tracelog.LogLevelWarn,
		zerolog.ErrorLevel: tracelog.LogLevelError,
		zerolog.Disabled:   tracelog.LogLevelNone,
	}

	for in, want := range cases {
		assert.Equal(t, want, tracelog.LogLevel(GetPgxTraceLogLevel(in)), in.String())
	}
}

func TestNewLoggerServiceWithoutLicense(t *testing.T) {
	svc, err := NewLoggerService(config.DefaultObservabilityConfig())
	require.NoError(t, err)
	assert.Nil(t, svc.GetApplication())

	var nilSvc *LoggerService
	assert.Nil(t, nilSvc.GetApplication())
	nilSvc.Shutdown()
}

func TestNewLoggerUsesConfiguredLevel(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	l := NewLogger(cfg)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
}

func TestWithTraceContextNilTransaction(t *testing.T) {
	base := zerolog.Nop()
	assert.Equal(t, base, WithTraceContext(base, nil))
}
