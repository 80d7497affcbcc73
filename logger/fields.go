package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across secondq.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components and operations
	FieldComponent = "component"
	FieldOperation = "operation"

	// Algebra
	FieldSpace     = "space"
	FieldPattern   = "pattern"
	FieldTensor    = "tensor"
	FieldTermCount = "term_count"
	FieldOrder     = "order"
	FieldWorkers   = "workers"

	// Persistence
	FieldDerivationID = "derivation_id"
	FieldMigration    = "migration"
	FieldPath         = "path"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type expansionPool struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func newExpansionPool() *expansionPool {
//	    return &expansionPool{
//	        logger: logger.ComponentLogger("algebra.parallel"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	runLogger := logger.ChildLogger(baseLogger, logger.FieldDerivationID, id)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
