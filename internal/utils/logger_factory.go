package utils

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/transform-readme/internal/utils/flags"
)

const (
	logLevelDebugStringConstant       = "debug"
	logLevelInfoStringConstant        = "info"
	logLevelWarnStringConstant        = "warn"
	logLevelErrorStringConstant       = "error"
	logFormatStructuredStringConstant = "structured"
	logFormatConsoleStringConstant    = "console"
	logLevelSettingNameConstant       = "log level"
	logFormatSettingNameConstant      = "log format"
	timeFieldKeyConstant              = "time"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Supported log levels, most verbose first.
const (
	LogLevelDebug LogLevel = logLevelDebugStringConstant
	LogLevelInfo  LogLevel = logLevelInfoStringConstant
	LogLevelWarn  LogLevel = logLevelWarnStringConstant
	LogLevelError LogLevel = logLevelErrorStringConstant
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Supported log formats. Structured emits one JSON object per line.
const (
	LogFormatStructured LogFormat = logFormatStructuredStringConstant
	LogFormatConsole    LogFormat = logFormatConsoleStringConstant
)

var zapLevelsByLogLevel = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// SupportedLogLevels lists the accepted log level identifiers from most to least verbose.
func SupportedLogLevels() []string {
	return []string{string(LogLevelDebug), string(LogLevelInfo), string(LogLevelWarn), string(LogLevelError)}
}

// SupportedLogFormats lists the accepted log format identifiers in display order.
func SupportedLogFormats() []string {
	return []string{string(LogFormatStructured), string(LogFormatConsole)}
}

// LoggerFactory builds zap loggers that write diagnostics to a single sink.
// The sink is standard error unless replaced, so logs never interleave with a
// document written to standard output.
type LoggerFactory struct {
	sink zapcore.WriteSyncer
}

// NewLoggerFactory constructs a factory writing to standard error.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{sink: zapcore.Lock(os.Stderr)}
}

// NewLoggerFactoryWithSink constructs a factory writing to the provided writer.
func NewLoggerFactoryWithSink(writer io.Writer) *LoggerFactory {
	return &LoggerFactory{sink: zapcore.Lock(zapcore.AddSync(writer))}
}

// CreateLogger produces a logger for the requested level and format.
// Identifiers are matched case-insensitively; unknown values yield flags.UnsupportedChoiceError.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	matchedLevel, levelError := flags.MatchChoice(logLevelSettingNameConstant, string(requestedLogLevel), SupportedLogLevels())
	if levelError != nil {
		return nil, levelError
	}

	matchedFormat, formatError := flags.MatchChoice(logFormatSettingNameConstant, string(requestedLogFormat), SupportedLogFormats())
	if formatError != nil {
		return nil, formatError
	}

	sink := factory.sink
	if sink == nil {
		sink = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(newEncoder(LogFormat(matchedFormat)), sink, zap.NewAtomicLevelAt(zapLevelsByLogLevel[LogLevel(matchedLevel)]))
	options := []zap.Option{zap.ErrorOutput(sink)}
	if LogFormat(matchedFormat) == LogFormatStructured {
		options = append(options, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return zap.New(core, options...), nil
}

func newEncoder(format LogFormat) zapcore.Encoder {
	if format == LogFormatConsole {
		return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	encoderConfiguration := zap.NewProductionEncoderConfig()
	encoderConfiguration.TimeKey = timeFieldKeyConstant
	encoderConfiguration.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(encoderConfiguration)
}
