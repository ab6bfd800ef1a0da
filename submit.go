package slurmexec

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/chaseking/slurmexec/internal/config"
	"github.com/chaseking/slurmexec/internal/console"
)

// ackRe matches the acknowledgment line sbatch prints on success.
var ackRe = regexp.MustCompile(`Submitted batch job (\d+)`)

// SubmitResult is the structured outcome of a submission attempt. A
// failed attempt keeps the raw scheduler output for diagnostics instead
// of discarding it.
type SubmitResult struct {
	Ok         bool   // Whether the scheduler acknowledged the job
	JobID      string // Assigned job ID (empty unless Ok)
	RawOutput  string // Raw sbatch output, success or not
	ScriptPath string // Path of the submitted script
}

// ParseAck extracts the assigned job ID from sbatch output. Any text
// that does not contain the acknowledgment line is treated as failure
// text and preserved verbatim.
func ParseAck(output string) SubmitResult {
	raw := strings.TrimSpace(output)
	if m := ackRe.FindStringSubmatch(raw); m != nil {
		return SubmitResult{Ok: true, JobID: m[1], RawOutput: raw}
	}
	return SubmitResult{Ok: false, RawOutput: raw}
}

// Submitter invokes the sbatch binary and parses its acknowledgment.
type Submitter struct {
	sbatchBin string
}

// NewSubmitter resolves sbatch from the configured binary path or PATH.
func NewSubmitter() (*Submitter, error) {
	config.EnsureLoaded()
	return NewSubmitterWithBinary(config.Global.SbatchBin)
}

// NewSubmitterWithBinary creates a Submitter using an explicit sbatch
// path. An empty path falls back to PATH lookup.
func NewSubmitterWithBinary(sbatchBin string) (*Submitter, error) {
	binPath := sbatchBin
	if binPath == "" {
		var err error
		binPath, err = exec.LookPath("sbatch")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSbatchNotFound, err)
		}
	} else {
		if absPath, err := filepath.Abs(binPath); err == nil {
			binPath = absPath
		}
		info, err := os.Stat(binPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSbatchNotFound, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", ErrSbatchNotFound, binPath)
		}
	}
	return &Submitter{sbatchBin: binPath}, nil
}

// Binary returns the resolved sbatch path.
func (s *Submitter) Binary() string {
	return s.sbatchBin
}

// Submit runs sbatch on the script and parses the acknowledgment. The
// returned result is always populated; the error is non-nil when the
// subprocess failed or the acknowledgment was unparseable. There are no
// retries, recovery is left to the operator.
func (s *Submitter) Submit(jobName, scriptPath string) (SubmitResult, error) {
	cmd := exec.Command(s.sbatchBin, scriptPath)
	output, err := cmd.CombinedOutput()

	res := ParseAck(string(output))
	res.ScriptPath = scriptPath

	if err != nil {
		res.Ok = false
		return res, NewSubmissionError(jobName, scriptPath, res.RawOutput, err)
	}
	if !res.Ok {
		return res, fmt.Errorf("%w: %s", ErrAckParseFailed, res.RawOutput)
	}
	return res, nil
}

// printSubmitBanner reports the submission outcome on the terminal,
// mirroring what the operator needs to find the job again: job ID,
// script path, and log path.
func printSubmitBanner(jobName, fullName string, res SubmitResult, logPath string) {
	console.PrintMessage("*===============================================================================*")
	console.PrintMessage("|  Submitting slurm job %q...", jobName)
	if fullName != "" {
		console.PrintMessage("|    (%s)", fullName)
	}
	console.PrintMessage("|")
	if res.Ok {
		console.PrintMessage("|  Status: %s", console.StyleSuccess("SUCCESS"))
		console.PrintMessage("|  Slurm job id: %s", console.StyleNumber(res.JobID))
		console.PrintMessage("|  Script file: %s", console.StylePath(res.ScriptPath))
		if logPath != "" {
			console.PrintMessage("|  Log file: %s", console.StylePath(expandLogPath(logPath, jobName, res.JobID)))
		}
	} else {
		console.PrintMessage("|  Status: %s", console.StyleError("FAIL"))
		console.PrintMessage("|  Script file: %s", console.StylePath(res.ScriptPath))
		console.PrintMessage("|  Error: bad sbatch output:")
		for _, line := range strings.Split(res.RawOutput, "\n") {
			console.PrintMessage("|    %s", line)
		}
	}
	console.PrintMessage("*===============================================================================*")
}

// expandLogPath substitutes the slurm filename patterns we know the
// values of, so the banner shows a concrete path.
func expandLogPath(pattern, jobName, jobID string) string {
	r := strings.NewReplacer("%x", jobName, "%j", jobID, "%A", jobID)
	return r.Replace(pattern)
}
