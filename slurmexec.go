// Package slurmexec lets a single Go program act both as the driver
// that submits a batch job to slurm and as the worker that runs inside
// that job once scheduled.
//
// A function is registered as a job with NewJob, together with a
// declarative parameter list that becomes its command-line argument
// schema. Exec then branches on the execution context: inside a slurm
// job (SLURM_JOB_ID set, or debug mode) the function is invoked
// directly with the parsed arguments; on a submission host a submit
// script is generated that re-invokes the same binary with the same
// arguments, and handed to sbatch.
package slurmexec

import (
	"fmt"
	"os"
	"strings"

	"github.com/chaseking/slurmexec/internal/config"
	"github.com/chaseking/slurmexec/internal/console"
)

// Options controls a submission built by Exec. The zero value is valid:
// the job name defaults to the registered name, the script directory to
// ~/slurm/<job>, and a single (non-array) job is submitted.
type Options struct {
	// JobName overrides the registered job name. Also overridable on the
	// command line with --job-name.
	JobName string

	// ScriptDir overrides where the submit script and logs are written.
	// Also overridable with --script-dir.
	ScriptDir string

	// ParallelJobs is the number of array tasks. A value above 1 is the
	// single trigger for array submission (--array=1-N). Also
	// overridable with --parallel-jobs.
	ParallelJobs int

	// SbatchArgs are extra sbatch directives, e.g. {"--time": "0-01:00:00"}.
	// Unrecognized command-line flags are merged on top of these.
	SbatchArgs map[string]string

	// PreRunCommands run in the job before the re-invocation line, e.g.
	// environment activation.
	PreRunCommands []string

	// LaunchPrefix is prepended to the re-invocation line, e.g. "srun".
	LaunchPrefix string

	// Argv is the argument list to parse; defaults to os.Args[1:].
	Argv []string

	// SbatchBin is an explicit sbatch path; defaults to the configured
	// binary or PATH lookup.
	SbatchBin string

	// submit replaces the sbatch invocation, for tests.
	submit func(jobName, scriptPath string) (SubmitResult, error)
}

// Exec is the dual-mode entry point, called from a program's main. In
// the SCHEDULED state it parses the command line into the job's typed
// arguments and runs the function (returning a nil result). In the
// LOCAL state it builds a submit script and hands it to sbatch,
// returning the structured submission result.
func Exec(ctx *ExecContext, job *Job, opts Options) (*SubmitResult, error) {
	config.EnsureLoaded()

	if job == nil || job.fn == nil {
		return nil, &InvocationError{Job: job.Name(), Err: ErrNotRegistered}
	}
	if ctx == nil {
		return nil, &InvocationError{Job: job.Name(), Err: ErrNoContext}
	}

	fs, err := buildFlagSet(job.name, job.params)
	if err != nil {
		return nil, err
	}

	defaultName := opts.JobName
	if defaultName == "" {
		defaultName = job.name
	}
	defaultParallel := opts.ParallelJobs
	if defaultParallel < 1 {
		defaultParallel = 1
	}

	fs.String("job-name", defaultName, "Name of the slurm job.")
	fs.String("script-dir", opts.ScriptDir, "Directory for the generated submit script and logs.")
	fs.Int("parallel-jobs", defaultParallel, "If >1 the job is submitted as an array task.")

	argv := opts.Argv
	if argv == nil {
		argv = os.Args[1:]
	}

	known, unknown := splitKnownArgs(fs, argv)
	args, err := parseArgs(fs, job.params, known)
	if err != nil {
		return nil, err
	}

	jobName, _ := fs.GetString("job-name")
	scriptDir, _ := fs.GetString("script-dir")
	nParallel, _ := fs.GetInt("parallel-jobs")

	if ctx.Scheduled() {
		// Worker half: invoke the function directly.
		return nil, job.Run(ctx, args)
	}

	// Driver half: build and submit.
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to determine executable path: %w", err)
	}
	fullName := fmt.Sprintf("%s() in %s", job.name, exe)

	isArray := nParallel > 1

	b := NewScriptBuilder(jobName, scriptDir).FullName(fullName)
	if isArray {
		b.Directive("--array", fmt.Sprintf("1-%d", nParallel))
		// %A is the array parent job id, %a the task id.
		b.Output("%A_%a.out")
	} else {
		b.Output("%j.out")
	}
	b.DirectiveMap(opts.SbatchArgs)

	if len(unknown) > 0 {
		console.PrintMessage("Passing %s as sbatch directives.", console.StyleCommand(strings.Join(unknown, " ")))
		for _, d := range pairOverrides(unknown) {
			b.Directive(d.Key, d.Value)
		}
	}

	b.Commands([]string{
		fmt.Sprintf(`echo "# Executing job %q in a task generated by slurmexec."`, jobName),
		`echo "# Slurm job name: $SLURM_JOB_NAME"`,
		`echo "# Slurm node: $SLURM_JOB_NODELIST"`,
		`echo "# Slurm cluster: $SLURM_CLUSTER_NAME"`,
		`echo "# Slurm job id: $SLURM_JOB_ID"`,
	})
	if isArray {
		b.Commands([]string{
			`echo "# Slurm array parent job id: $SLURM_ARRAY_JOB_ID"`,
			`echo "# Slurm array task id: $SLURM_ARRAY_TASK_ID"`,
		})
	}
	b.Commands([]string{
		`echo "# Job start time: $(date)"`,
		"echo",
	})
	b.Commands(opts.PreRunCommands)

	invocation := exe + " " + strings.Join(reinvokeArgs(job.params, args), " ")
	if opts.LaunchPrefix != "" {
		invocation = opts.LaunchPrefix + " " + invocation
	}
	b.Command(invocation)

	scriptPath, err := b.Write()
	if err != nil {
		return nil, err
	}
	console.PrintDebug("Wrote submit script: %s", scriptPath)

	submit := opts.submit
	if submit == nil {
		sbatchBin := opts.SbatchBin
		if sbatchBin == "" {
			sbatchBin = config.Global.SbatchBin
		}
		sub, err := NewSubmitterWithBinary(sbatchBin)
		if err != nil {
			return nil, err
		}
		submit = sub.Submit
	}

	res, err := submit(jobName, scriptPath)
	printSubmitBanner(jobName, fullName, res, b.OutputPath())
	return &res, err
}
