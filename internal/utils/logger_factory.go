package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	stderrOutputPathConstant             = "stderr"
	jsonZapEncodingStringConstant        = "json"
	consoleZapEncodingStringConstant     = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level %q (supported: debug, info, warn, error)"
	unsupportedLogFormatTemplateConstant = "unsupported log format %q (supported: structured, console)"
)

// LogLevel selects the minimum diagnostic severity emitted by the logger.
type LogLevel string

// Log levels accepted by the log-level flag and configuration file.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat selects the encoding used for diagnostic output.
type LogFormat string

// Log formats accepted by the log-format flag and configuration file.
const (
	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"
)

func (logLevel LogLevel) zapLevel() (zapcore.Level, error) {
	switch logLevel {
	case LogLevelDebug:
		return zapcore.DebugLevel, nil
	case LogLevelInfo:
		return zapcore.InfoLevel, nil
	case LogLevelWarn:
		return zapcore.WarnLevel, nil
	case LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InvalidLevel, fmt.Errorf(unsupportedLogLevelTemplateConstant, string(logLevel))
	}
}

func (logFormat LogFormat) zapEncoding() (string, error) {
	switch logFormat {
	case LogFormatStructured:
		return jsonZapEncodingStringConstant, nil
	case LogFormatConsole:
		return consoleZapEncodingStringConstant, nil
	default:
		return "", fmt.Errorf(unsupportedLogFormatTemplateConstant, string(logFormat))
	}
}

// LoggerFactory builds zap loggers that write diagnostics to standard error,
// keeping standard output free for command results.
type LoggerFactory struct{}

// NewLoggerFactory constructs a logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger produces a zap.Logger honoring the requested level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, levelError := requestedLogLevel.zapLevel()
	if levelError != nil {
		return nil, levelError
	}

	encoding, formatError := requestedLogFormat.zapEncoding()
	if formatError != nil {
		return nil, formatError
	}

	configuration := zap.NewProductionConfig()
	configuration.Level = zap.NewAtomicLevelAt(zapLogLevel)
	configuration.Encoding = encoding
	configuration.OutputPaths = []string{stderrOutputPathConstant}
	configuration.ErrorOutputPaths = []string{stderrOutputPathConstant}

	return configuration.Build()
}
