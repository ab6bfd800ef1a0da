package slurmexec

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotScheduled indicates a job function was invoked outside of a
	// scheduled job (no SLURM_JOB_ID in the environment and debug mode off)
	ErrNotScheduled = errors.New("job function invoked outside of a slurm job")

	// ErrNotRegistered indicates Exec or Run was called on something that
	// was never registered as a job via NewJob
	ErrNotRegistered = errors.New("function is not registered as a slurm job")

	// ErrNoContext indicates Exec or Run was called with a nil execution context
	ErrNoContext = errors.New("nil execution context (use DetectContext or DebugContext)")

	// ErrSbatchNotFound indicates the sbatch binary was not found
	ErrSbatchNotFound = errors.New("sbatch binary not found in PATH")

	// ErrAckParseFailed indicates the sbatch acknowledgment did not contain a job ID
	ErrAckParseFailed = errors.New("failed to parse job ID from sbatch output")

	// ErrDuplicateParam indicates two parameters map to the same flag name
	ErrDuplicateParam = errors.New("duplicate parameter name")

	// ErrReservedParam indicates a parameter collides with a reserved flag
	ErrReservedParam = errors.New("parameter name is reserved")

	// ErrInvalidDefault indicates a parameter default does not match its declared type
	ErrInvalidDefault = errors.New("parameter default does not match declared type")

	// ErrMissingRequired indicates a required parameter was not supplied
	ErrMissingRequired = errors.New("missing required parameter")

	// ErrInvalidChoice indicates a value outside a parameter's choice set
	ErrInvalidChoice = errors.New("value not in allowed choices")

	// ErrUnsupportedField indicates a struct field kind that cannot become a parameter
	ErrUnsupportedField = errors.New("unsupported struct field type")
)

// InvocationError represents an invalid invocation of a job function:
// either the function was not registered as a job, or it was called
// while the process is not inside a scheduled job.
type InvocationError struct {
	Job string // Job name (may be empty if the job was never registered)
	Err error  // ErrNotScheduled or ErrNotRegistered
}

func (e *InvocationError) Error() string {
	if e.Job != "" {
		return fmt.Sprintf("invalid invocation of job %s: %v (use slurmexec.Exec to submit it)", e.Job, e.Err)
	}
	return fmt.Sprintf("invalid invocation: %v (use slurmexec.Exec to submit it)", e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// SubmissionError represents an error during sbatch submission
type SubmissionError struct {
	Job    string // Job name
	Script string // Script path
	Output string // Raw sbatch output
	Err    error  // Underlying error
}

func (e *SubmissionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("sbatch submission failed for job %s: %v\nOutput: %s",
			e.Job, e.Err, e.Output)
	}
	return fmt.Sprintf("sbatch submission failed for job %s: %v", e.Job, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// ScriptCreationError represents an error writing a submit script
type ScriptCreationError struct {
	Job  string // Job name
	Path string // Script path
	Err  error  // Underlying error
}

func (e *ScriptCreationError) Error() string {
	return fmt.Sprintf("failed to create script for job %s at %s: %v", e.Job, e.Path, e.Err)
}

func (e *ScriptCreationError) Unwrap() error {
	return e.Err
}

// NewSubmissionError creates a new SubmissionError
func NewSubmissionError(job string, script string, output string, err error) *SubmissionError {
	return &SubmissionError{
		Job:    job,
		Script: script,
		Output: output,
		Err:    err,
	}
}

// NewScriptCreationError creates a new ScriptCreationError
func NewScriptCreationError(job string, path string, err error) *ScriptCreationError {
	return &ScriptCreationError{
		Job:  job,
		Path: path,
		Err:  err,
	}
}

// IsInvocationError checks if an error is an InvocationError
func IsInvocationError(err error) bool {
	var ie *InvocationError
	return errors.As(err, &ie)
}

// IsSubmissionError checks if an error is a SubmissionError
func IsSubmissionError(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se)
}
