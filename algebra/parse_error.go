package algebra

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/manybody/secondq/errors"
)

// ErrorContext indicates the environment where parse errors will be displayed
type ErrorContext string

const (
	// ErrorContextTerminal indicates errors will be displayed in terminal with ANSI colors
	ErrorContextTerminal ErrorContext = "terminal"
	// ErrorContextPlain indicates errors will be displayed without ANSI codes (logs, files)
	ErrorContextPlain ErrorContext = "plain"
)

// ErrorSeverity indicates the severity level of a parse error
type ErrorSeverity string

const (
	SeverityError ErrorSeverity = "error" // Malformed input that prevents parsing
	SeverityHint  ErrorSeverity = "hint"  // Suggestions for improvement
)

// ErrorKind categorizes parse errors for programmatic handling
type ErrorKind string

const (
	ErrorKindSyntax ErrorKind = "syntax" // Malformed grammar (bad token, unclosed group)
	ErrorKindIndex  ErrorKind = "index"  // Index references an unknown space or bad ordinal
	ErrorKindOrder  ErrorKind = "order"  // Braced block that is not normal-ordered
)

// ParseError is a structured parse failure with position metadata. It wraps
// the ErrParse sentinel, so errors.IsParseError matches it through any
// amount of further wrapping.
type ParseError struct {
	Err         error         // Underlying error, always marked ErrParse
	Kind        ErrorKind     // Error category
	Severity    ErrorSeverity // Error severity
	Message     string        // Human-readable message
	Line        int           // 1-based line of the offending text
	Position    int           // 0-based rune offset within the line
	Token       string        // Offending token, if identified
	Suggestions []string      // Possible fixes
	Timestamp   time.Time     // When the error occurred
}

// Error implements the error interface with terminal formatting.
func (e *ParseError) Error() string {
	return e.FormatError(ErrorContextTerminal)
}

// FormatError generates a context-appropriate error message.
func (e *ParseError) FormatError(ctx ErrorContext) string {
	if ctx == ErrorContextPlain {
		return e.formatPlainError()
	}
	return e.formatTerminalError()
}

// formatPlainError creates a concise single-line message for logs.
func (e *ParseError) formatPlainError() string {
	msg := e.Message
	if e.Position >= 0 {
		msg += fmt.Sprintf(" (line %d, column %d)", e.Line, e.Position+1)
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(". Suggestions: %s", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// formatTerminalError creates a rich colored message for terminals.
func (e *ParseError) formatTerminalError() string {
	var baseMsg string
	switch e.Severity {
	case SeverityHint:
		baseMsg = pterm.LightCyan(e.Message)
	default:
		baseMsg = pterm.Red(e.Message)
	}

	context := fmt.Sprintf("\n\n%s", pterm.LightCyan("Context:"))
	if e.Position >= 0 {
		context += fmt.Sprintf("\n  %s line %d, column %d", pterm.Yellow("Position:"), e.Line, e.Position+1)
	}
	if e.Token != "" {
		context += fmt.Sprintf("\n  %s '%s'", pterm.Yellow("Token:"), e.Token)
	}

	if len(e.Suggestions) > 0 {
		context += fmt.Sprintf("\n\n%s", pterm.Green("Suggestions:"))
		for _, suggestion := range e.Suggestions {
			context += fmt.Sprintf("\n  • %s", suggestion)
		}
	}

	return fmt.Sprintf("%s%s", baseMsg, context)
}

// Unwrap for errors.Is/As compatibility.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Builder pattern for constructing ParseErrors

// NewParseError creates a new ParseError with the given kind and message.
func NewParseError(kind ErrorKind, message string) *ParseError {
	return &ParseError{
		Err:       errors.ErrParse,
		Kind:      kind,
		Severity:  SeverityError,
		Message:   message,
		Line:      1,
		Position:  -1,
		Timestamp: time.Now(),
	}
}

// WithPosition sets the line and column where the error occurred.
func (e *ParseError) WithPosition(line, column int) *ParseError {
	e.Line = line
	e.Position = column
	return e
}

// WithToken sets the token that caused the error.
func (e *ParseError) WithToken(token string) *ParseError {
	e.Token = token
	return e
}

// WithSeverity sets the error severity.
func (e *ParseError) WithSeverity(sev ErrorSeverity) *ParseError {
	e.Severity = sev
	return e
}

// WithSuggestion adds a suggestion for fixing the error.
func (e *ParseError) WithSuggestion(suggestion string) *ParseError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithUnderlying records the underlying error while keeping ErrParse in
// the unwrap chain.
func (e *ParseError) WithUnderlying(err error) *ParseError {
	e.Err = errors.Mark(err, errors.ErrParse)
	return e
}
