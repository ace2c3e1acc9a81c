package ffmpeg

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
)

// LogLevel is FFmpeg's native log verbosity (AV_LOG_*).
type LogLevel int32

const (
	LogQuiet   LogLevel = -8
	LogPanic   LogLevel = 0
	LogFatal   LogLevel = 8
	LogError   LogLevel = 16
	LogWarning LogLevel = 24
	LogInfo    LogLevel = 32
	LogVerbose LogLevel = 40
	LogDebug   LogLevel = 48
	LogTrace   LogLevel = 56
)

var logLevelNames = []struct {
	level LogLevel
	name  string
}{
	{LogQuiet, "quiet"},
	{LogPanic, "panic"},
	{LogFatal, "fatal"},
	{LogError, "error"},
	{LogWarning, "warning"},
	{LogInfo, "info"},
	{LogVerbose, "verbose"},
	{LogDebug, "debug"},
	{LogTrace, "trace"},
}

func (l LogLevel) String() string {
	for _, n := range logLevelNames {
		if n.level == l {
			return n.name
		}
	}
	return fmt.Sprintf("LogLevel(%d)", int32(l))
}

// ParseLogLevel accepts the names used by the ffmpeg command line tool
// ("quiet", "error", "warning", "info", "debug", ...). "warn" is an alias.
func ParseLogLevel(s string) (LogLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warn" {
		return LogWarning, nil
	}
	for _, n := range logLevelNames {
		if n.name == s {
			return n.level, nil
		}
	}
	return 0, fmt.Errorf("unknown log level %q: %w", s, ErrInvalidArgument)
}

// SlogLevel maps the native level onto the closest slog level.
func (l LogLevel) SlogLevel() slog.Level {
	switch {
	case l >= LogDebug:
		return slog.LevelDebug
	case l >= LogInfo:
		return slog.LevelInfo
	case l >= LogWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// SetLogLevel sets the verbosity of FFmpeg's own logging on stderr.
func SetLogLevel(level LogLevel) error {
	if err := requireLibrary(LibAVUtil); err != nil {
		return err
	}
	avLogSetLevel(int32(level))
	return nil
}

// GetLogLevel returns the native verbosity, or LogInfo when not loaded.
func GetLogLevel() LogLevel {
	if !LibAVUtil.Available() {
		return LogInfo
	}
	return LogLevel(avLogGetLevel())
}

var pkgLogger atomic.Pointer[slog.Logger]

func init() {
	pkgLogger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// SetLogger sets the logger used for the package's own diagnostics
// (library loading, interrupted I/O). A nil logger disables logging.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pkgLogger.Store(l.With(slog.String("component", "ffmpeg")))
}

func logger() *slog.Logger {
	return pkgLogger.Load()
}
