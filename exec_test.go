package slurmexec

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJobRunRequiresScheduledState(t *testing.T) {
	ran := false
	job := NewJob("work", nil, func(args *Args) error {
		ran = true
		return nil
	})

	err := job.Run(&ExecContext{}, nil)
	if !IsInvocationError(err) {
		t.Fatalf("expected InvocationError, got %v", err)
	}
	if !errors.Is(err, ErrNotScheduled) {
		t.Errorf("expected ErrNotScheduled, got %v", err)
	}
	if ran {
		t.Error("job function ran in LOCAL state")
	}
}

func TestJobRunScheduled(t *testing.T) {
	wantErr := errors.New("job result")
	job := NewJob("work", nil, func(args *Args) error {
		return wantErr
	})

	err := job.Run(&ExecContext{debug: true}, nil)
	if !errors.Is(err, wantErr) {
		t.Errorf("Run = %v, want the function's result", err)
	}
}

func TestJobRunUnregistered(t *testing.T) {
	job := NewJob("ghost", nil, nil)
	err := job.Run(&ExecContext{debug: true}, nil)
	if !errors.Is(err, ErrNotRegistered) {
		t.Errorf("expected ErrNotRegistered, got %v", err)
	}
}

func TestExecScheduledInvokesFunction(t *testing.T) {
	var gotStart int
	var gotVerbose bool
	job := NewJob("countdown", []Param{
		{Name: "start", Type: ParamInt, Default: 10},
		{Name: "verbose", Type: ParamBool, Default: false},
	}, func(args *Args) error {
		gotStart = args.Int("start")
		gotVerbose = args.Bool("verbose")
		return nil
	})

	res, err := Exec(&ExecContext{debug: true}, job, Options{
		Argv: []string{"--start", "3", "--verbose"},
	})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if res != nil {
		t.Errorf("scheduled Exec returned a submit result: %+v", res)
	}
	if gotStart != 3 || !gotVerbose {
		t.Errorf("parsed values start=%d verbose=%v, want 3 true", gotStart, gotVerbose)
	}
}

func TestExecUnregisteredJob(t *testing.T) {
	_, err := Exec(&ExecContext{debug: true}, nil, Options{Argv: nil})
	if !errors.Is(err, ErrNotRegistered) {
		t.Errorf("expected ErrNotRegistered, got %v", err)
	}
	_, err = Exec(&ExecContext{debug: true}, NewJob("x", nil, nil), Options{Argv: nil})
	if !errors.Is(err, ErrNotRegistered) {
		t.Errorf("expected ErrNotRegistered, got %v", err)
	}
}

func TestExecNilContext(t *testing.T) {
	job := NewJob("work", nil, func(args *Args) error { return nil })

	_, err := Exec(nil, job, Options{Argv: []string{}})
	if !errors.Is(err, ErrNoContext) {
		t.Errorf("Exec(nil ctx) = %v, want ErrNoContext", err)
	}
	if !IsInvocationError(err) {
		t.Errorf("expected InvocationError, got %T", err)
	}

	if err := job.Run(nil, nil); !errors.Is(err, ErrNoContext) {
		t.Errorf("Run(nil ctx) = %v, want ErrNoContext", err)
	}
}

func TestExecLocalSubmits(t *testing.T) {
	tmpDir := t.TempDir()

	job := NewJob("countdown", []Param{
		{Name: "start", Type: ParamInt, Default: 10},
	}, func(args *Args) error {
		t.Error("job function ran on the submission host")
		return nil
	})

	var submittedScript string
	res, err := Exec(&ExecContext{}, job, Options{
		ScriptDir:      tmpDir,
		ParallelJobs:   3,
		PreRunCommands: []string{"echo pre-run"},
		SbatchArgs:     map[string]string{"--time": "0-01:00:00"},
		Argv:           []string{"--start", "5", "--mem", "8G"},
		submit: func(jobName, scriptPath string) (SubmitResult, error) {
			submittedScript = scriptPath
			return SubmitResult{Ok: true, JobID: "4821", RawOutput: "Submitted batch job 4821", ScriptPath: scriptPath}, nil
		},
	})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if !res.Ok || res.JobID != "4821" {
		t.Errorf("result = %+v, want Ok with job id 4821", res)
	}
	if submittedScript != filepath.Join(tmpDir, ScriptName) {
		t.Errorf("submitted script path = %q", submittedScript)
	}

	content, err := os.ReadFile(submittedScript)
	if err != nil {
		t.Fatalf("failed to read script: %v", err)
	}
	script := string(content)

	for _, want := range []string{
		"#SBATCH --job-name=countdown",
		"#SBATCH --array=1-3", // parallel count 3 becomes an array range
		"#SBATCH --time=0-01:00:00",
		"#SBATCH --mem=8G", // unknown flag forwarded as a directive
		"%A_%a.out",
		"echo pre-run",
		"--start 5", // re-invocation replays the parsed value
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}

	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable failed: %v", err)
	}
	if !strings.Contains(script, exe) {
		t.Errorf("script does not re-invoke the current executable:\n%s", script)
	}
}

func TestExecForwardsShortFlags(t *testing.T) {
	tmpDir := t.TempDir()

	job := NewJob("short", nil, func(args *Args) error { return nil })

	_, err := Exec(&ExecContext{}, job, Options{
		ScriptDir: tmpDir,
		Argv:      []string{"-p", "gpu", "-t", "0-01:00:00"},
		submit: func(jobName, scriptPath string) (SubmitResult, error) {
			return SubmitResult{Ok: true, JobID: "3", RawOutput: "Submitted batch job 3"}, nil
		},
	})
	if err != nil {
		t.Fatalf("Exec rejected short unknown flags: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(tmpDir, ScriptName))
	if err != nil {
		t.Fatalf("failed to read script: %v", err)
	}
	script := string(content)
	for _, want := range []string{
		"#SBATCH -p gpu",
		"#SBATCH -t 0-01:00:00",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}
}

func TestExecSingleJobUsesPlainOutput(t *testing.T) {
	tmpDir := t.TempDir()

	job := NewJob("single", nil, func(args *Args) error { return nil })

	_, err := Exec(&ExecContext{}, job, Options{
		ScriptDir: tmpDir,
		Argv:      []string{},
		submit: func(jobName, scriptPath string) (SubmitResult, error) {
			return SubmitResult{Ok: true, JobID: "1", RawOutput: "Submitted batch job 1"}, nil
		},
	})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(tmpDir, ScriptName))
	if err != nil {
		t.Fatalf("failed to read script: %v", err)
	}
	script := string(content)
	if strings.Contains(script, "--array") {
		t.Errorf("single job gained an array directive:\n%s", script)
	}
	if !strings.Contains(script, "%j.out") {
		t.Errorf("single job missing %%j output pattern:\n%s", script)
	}
}

func TestExecJobNameOverrideFlag(t *testing.T) {
	tmpDir := t.TempDir()

	job := NewJob("orig", nil, func(args *Args) error { return nil })

	var submittedName string
	_, err := Exec(&ExecContext{}, job, Options{
		ScriptDir: tmpDir,
		Argv:      []string{"--job-name", "renamed"},
		submit: func(jobName, scriptPath string) (SubmitResult, error) {
			submittedName = jobName
			return SubmitResult{Ok: true, JobID: "2", RawOutput: "Submitted batch job 2"}, nil
		},
	})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if submittedName != "renamed" {
		t.Errorf("job name = %q, want %q", submittedName, "renamed")
	}

	content, err := os.ReadFile(filepath.Join(tmpDir, ScriptName))
	if err != nil {
		t.Fatalf("failed to read script: %v", err)
	}
	if !strings.Contains(string(content), "#SBATCH --job-name=renamed") {
		t.Errorf("script kept the original job name:\n%s", content)
	}
}

func TestExecMissingRequiredParam(t *testing.T) {
	job := NewJob("strict", []Param{
		{Name: "input", Type: ParamString},
	}, func(args *Args) error { return nil })

	_, err := Exec(&ExecContext{debug: true}, job, Options{Argv: []string{}})
	if !errors.Is(err, ErrMissingRequired) {
		t.Errorf("expected ErrMissingRequired, got %v", err)
	}
}
