package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/troopsched/config"
	coremon "github.com/kilianp07/troopsched/core/monitoring"
)

func TestNewSentryMonitorEmptyDSN(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{})
	require.NoError(t, err)
	assert.IsType(t, coremon.NopMonitor{}, m)
}

func TestNewSentryMonitorBadDSN(t *testing.T) {
	_, err := NewSentryMonitor(config.SentryConfig{DSN: "not a dsn"})
	assert.Error(t, err)
}

func TestSentryMonitorCapture(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{
		DSN:         "http://public@127.0.0.1:1/1",
		Environment: "test",
	})
	require.NoError(t, err)
	m.CaptureException(nil, nil)
	m.CaptureException(errors.New("week 1 incomplete"), map[string]string{"week": "1"})
	m.Flush(10 * time.Millisecond)
}
