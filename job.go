package slurmexec

// JobFunc is the worker half of a slurm job: it receives the parsed
// parameter values and runs inside the scheduled job.
type JobFunc func(args *Args) error

// Job wraps a function together with its declared parameters, marking
// it as submittable. Construct one with NewJob; a Job obtained any other
// way fails with ErrNotRegistered.
type Job struct {
	name   string
	params []Param
	fn     JobFunc
}

// NewJob registers fn as a runnable slurm job. name doubles as the
// default job name for submissions; params describe the CLI argument
// schema derived for the function.
func NewJob(name string, params []Param, fn JobFunc) *Job {
	return &Job{name: name, params: params, fn: fn}
}

// Name returns the registered job name.
func (j *Job) Name() string {
	if j == nil {
		return ""
	}
	return j.name
}

// Params returns the declared parameter descriptors.
func (j *Job) Params() []Param {
	return j.params
}

// Run invokes the wrapped function with parsed arguments. It fails with
// an InvocationError unless ctx is in the SCHEDULED state: a job
// function must not run on the submission host, use Exec to submit it.
func (j *Job) Run(ctx *ExecContext, args *Args) error {
	if j == nil || j.fn == nil {
		return &InvocationError{Job: j.Name(), Err: ErrNotRegistered}
	}
	if ctx == nil {
		return &InvocationError{Job: j.name, Err: ErrNoContext}
	}
	if !ctx.Scheduled() {
		return &InvocationError{Job: j.name, Err: ErrNotScheduled}
	}
	return j.fn(args)
}
