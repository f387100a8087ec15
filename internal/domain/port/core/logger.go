package core

// LogLevel orders log severities from most to least verbose
type LogLevel int

// Log levels
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// Logger is the structured logger used across the engine. Fields are flat
// key/value pairs; ledger operations always carry "user_id" and "operation".
type Logger interface {
	SetLevel(level LogLevel)
	GetLevel() LogLevel

	Debug(message string, fields map[string]any)
	Info(message string, fields map[string]any)
	// Warn is used for refused or retried operations that leave state unchanged
	Warn(message string, fields map[string]any)
	Error(message string, fields map[string]any)

	// Flush writes any buffered entries
	Flush() error
}
