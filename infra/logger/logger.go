package logger

import (
	"fmt"
	"strings"
	"sync/atomic"

	corelogger "github.com/kilianp07/troopsched/core/logger"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger discards every record.
type NopLogger = corelogger.Nop

const (
	DriverZerolog = "zerolog"
	DriverLogrus  = "logrus"
)

var driver atomic.Value

func init() { driver.Store(DriverZerolog) }

// New returns a Logger tagged with component using the selected driver.
// APP_ENV=dev selects console output for zerolog.
func New(component string) Logger {
	if driver.Load() == DriverLogrus {
		return NewLogrusLogger(component)
	}
	return NewZerologLogger(component)
}

// SetDriver selects the backend used by New. Empty keeps zerolog.
func SetDriver(name string) error {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", DriverZerolog:
		driver.Store(DriverZerolog)
	case DriverLogrus:
		driver.Store(DriverLogrus)
	default:
		return fmt.Errorf("unknown log driver %q", name)
	}
	return nil
}

// SetLevel sets the minimum level for every logger. An empty level keeps
// the current one.
func SetLevel(level string) error {
	if strings.TrimSpace(level) == "" {
		return nil
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(l)
	if lr, err := logrus.ParseLevel(l.String()); err == nil {
		logrusBase.SetLevel(lr)
	}
	return nil
}
