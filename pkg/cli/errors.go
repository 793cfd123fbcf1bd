package cli

import (
	"errors"
	"fmt"
)

// Process exit codes used by the logq command.
const (
	ExitOK      = 0
	ExitFailure = 1 // An expression or catalog was rejected
	ExitUsage   = 2 // Bad flags or configuration
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Path    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error in %s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("config error in %s: %s", e.Path, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Code    int
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(path, message string, err error) *ConfigError {
	return &ConfigError{
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// NewCommandError creates a CommandError that exits with ExitFailure.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Code:    ExitFailure,
		Err:     err,
	}
}

// NewUsageError creates a CommandError that exits with ExitUsage.
func NewUsageError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Code:    ExitUsage,
		Err:     err,
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code != 0 {
		return cmdErr.Code
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitUsage
	}
	return ExitFailure
}
