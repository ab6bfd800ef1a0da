package slurmexec

import (
	"github.com/chaseking/slurmexec/internal/console"
	"github.com/chaseking/slurmexec/internal/jobenv"
)

// DebugJobID is reported by ExecContext.JobID when running in debug
// mode outside of a real slurm job.
const DebugJobID = "SLURM_DEBUG"

// ExecContext captures whether this process runs inside a scheduled
// slurm job (SCHEDULED) or on a submission host (LOCAL). It is decided
// once at startup and passed explicitly to Exec and Job.Run; there is no
// process-wide toggle.
type ExecContext struct {
	debug bool
	env   jobenv.Env
}

// DetectContext builds an ExecContext from the process environment.
// The presence of SLURM_JOB_ID signals the SCHEDULED state.
func DetectContext() *ExecContext {
	env, err := jobenv.Read()
	if err != nil {
		console.PrintWarning("failed to read slurm environment: %v", err)
	}
	return &ExecContext{env: env}
}

// DebugContext builds an ExecContext that treats the process as
// SCHEDULED regardless of environment, so jobs execute immediately
// instead of being queued. A notice is printed because submissions are
// silently skipped in this mode.
func DebugContext() *ExecContext {
	console.PrintMessage("=======================================================")
	console.PrintMessage("|  NOTICE - slurmexec running in debug mode.")
	console.PrintMessage("|  All slurm jobs will be executed immediately")
	console.PrintMessage("|  rather than queued on slurm.")
	console.PrintMessage("=======================================================")
	env, _ := jobenv.Read()
	return &ExecContext{debug: true, env: env}
}

// Scheduled reports whether the wrapped job function may be invoked
// directly: either we are inside a slurm job, or debug mode is on.
func (c *ExecContext) Scheduled() bool {
	return c.env.InJob() || c.debug
}

// Debug reports whether the debug override is enabled.
func (c *ExecContext) Debug() bool {
	return c.debug
}

// JobID returns DebugJobID whenever debug mode is on, otherwise the
// slurm job identifier. Empty in the LOCAL state.
func (c *ExecContext) JobID() string {
	if c.debug {
		return DebugJobID
	}
	return c.env.JobID
}

// Env returns the SLURM environment snapshot taken when the context was
// created.
func (c *ExecContext) Env() jobenv.Env {
	return c.env
}
