package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldMode is the structured log field key for the client mode (live or mock).
	FieldMode = "mode"
	// FieldOperation is the structured log field key for the workflow operation.
	FieldOperation = "operation"
	// FieldRequestID is the structured log field key correlating one operation call.
	FieldRequestID = "request_id"
	// FieldSession is the structured log field key for the workflow session.
	FieldSession = "session"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced with a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// OperationFields returns the fields describing a single workflow call.
// Empty values are ignored to keep log entries compact.
func OperationFields(mode, operation, requestID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldMode, Value: mode},
		StringField{Key: FieldOperation, Value: operation},
		StringField{Key: FieldRequestID, Value: requestID},
	)
}

// ForOperation attaches the operation fields to the provided logger.
func ForOperation(logger *zap.Logger, mode, operation, requestID string) *zap.Logger {
	return WithFields(logger, OperationFields(mode, operation, requestID)...)
}
