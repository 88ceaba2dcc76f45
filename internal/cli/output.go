package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/coregx/rxnorm/rxerr"
)

// Exit codes for CLI commands. They follow grep: 1 means the search ran
// and found nothing.
const (
	ExitSuccess      = 0
	ExitNoMatch      = 1
	ExitCommandError = 2 // bad flags, unreadable input, invalid pattern
	ExitSearchError  = 3 // the search itself failed or timed out
)

// ExitError carries the process exit code for a failed command. Commands
// have already reported the failure when they return one.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitCommandError if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter writes command results as text, JSON or YAML.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; defaults to Writer
}

// Response is the envelope for JSON and YAML output.
type Response struct {
	Status string    `json:"status" yaml:"status"`
	Data   any       `json:"data,omitempty" yaml:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty" yaml:"error,omitempty"`
}

// CLIError is the error structure for structured responses.
type CLIError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Offset  *int   `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// Success writes data. Text output is delegated to text.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	switch f.Format {
	case "json", "yaml":
		return f.encode(Response{Status: "ok", Data: data})
	default:
		text(f.Writer)
		return nil
	}
}

// Error reports err. Normalized errors are coded by kind; anything else
// gets code "Error".
func (f *OutputFormatter) Error(err error) error {
	ce := &CLIError{Code: "Error", Message: err.Error()}
	var rerr *rxerr.Error
	if errors.As(err, &rerr) {
		ce.Code = rerr.Kind.String()
		if rerr.Kind == rxerr.CompileFailed && rerr.Offset >= 0 {
			off := rerr.Offset
			ce.Offset = &off
		}
	}

	switch f.Format {
	case "json", "yaml":
		return f.encode(Response{Status: "error", Error: ce})
	default:
		fmt.Fprintf(f.errWriter(), "Error [%s]: %s\n", ce.Code, ce.Message)
		return nil
	}
}

func (f *OutputFormatter) encode(v any) error {
	if f.Format == "yaml" {
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
