package utils

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel enumerates supported diagnostic log levels.
type LogLevel string

// LogFormat enumerates supported diagnostic log encodings.
type LogFormat string

const (
	// LogLevelDebug enables every diagnostic message.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo enables informational messages and above.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn enables warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError enables errors only.
	LogLevelError LogLevel = "error"

	// LogFormatStructured emits JSON log lines.
	LogFormatStructured LogFormat = "structured"
	// LogFormatConsole emits human-readable log lines.
	LogFormatConsole LogFormat = "console"
)

const (
	unsupportedLogLevelTemplateConstant  = "unsupported log level %q"
	unsupportedLogFormatTemplateConstant = "unsupported log format %q"
	timestampFieldNameConstant           = "timestamp"
	levelFieldNameConstant               = "level"
	messageFieldNameConstant             = "message"
	loggerFieldNameConstant              = "logger"
	callerFieldNameConstant              = "caller"
	stacktraceFieldNameConstant          = "stacktrace"
)

// LoggerOutputs groups the diagnostic logger with the optional human-readable console logger.
type LoggerOutputs struct {
	DiagnosticLogger *zap.Logger
	ConsoleLogger    *zap.Logger
}

// LoggerFactory builds zap loggers that write to standard error.
type LoggerFactory struct{}

// NewLoggerFactory constructs a LoggerFactory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLoggerOutputs builds the diagnostic logger for the requested level and format. The console logger
// only writes when the console format is selected; otherwise it is a no-op logger.
func (factory *LoggerFactory) CreateLoggerOutputs(logLevel LogLevel, logFormat LogFormat) (LoggerOutputs, error) {
	zapLevel, levelError := resolveZapLevel(logLevel)
	if levelError != nil {
		return LoggerOutputs{}, levelError
	}

	normalizedFormat := LogFormat(strings.ToLower(strings.TrimSpace(string(logFormat))))
	errorSink := zapcore.Lock(os.Stderr)

	switch normalizedFormat {
	case LogFormatStructured:
		diagnosticCore := zapcore.NewCore(zapcore.NewJSONEncoder(structuredEncoderConfig()), errorSink, zapLevel)
		return LoggerOutputs{
			DiagnosticLogger: zap.New(diagnosticCore),
			ConsoleLogger:    zap.NewNop(),
		}, nil
	case LogFormatConsole:
		diagnosticCore := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig()), errorSink, zapLevel)
		consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(messageOnlyEncoderConfig()), errorSink, zapLevel)
		return LoggerOutputs{
			DiagnosticLogger: zap.New(diagnosticCore),
			ConsoleLogger:    zap.New(consoleCore),
		}, nil
	default:
		return LoggerOutputs{}, fmt.Errorf(unsupportedLogFormatTemplateConstant, logFormat)
	}
}

func resolveZapLevel(logLevel LogLevel) (zapcore.Level, error) {
	switch LogLevel(strings.ToLower(strings.TrimSpace(string(logLevel)))) {
	case LogLevelDebug:
		return zapcore.DebugLevel, nil
	case LogLevelInfo:
		return zapcore.InfoLevel, nil
	case LogLevelWarn:
		return zapcore.WarnLevel, nil
	case LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf(unsupportedLogLevelTemplateConstant, logLevel)
	}
}

func structuredEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        timestampFieldNameConstant,
		LevelKey:       levelFieldNameConstant,
		NameKey:        loggerFieldNameConstant,
		CallerKey:      callerFieldNameConstant,
		MessageKey:     messageFieldNameConstant,
		StacktraceKey:  stacktraceFieldNameConstant,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	encoderConfig := structuredEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return encoderConfig
}

func messageOnlyEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey: messageFieldNameConstant,
		LineEnding: zapcore.DefaultLineEnding,
	}
}
