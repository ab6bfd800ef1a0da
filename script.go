package slurmexec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chaseking/slurmexec/internal/config"
)

// ScriptName is the filename of the generated submit script inside the
// job's script directory.
const ScriptName = "_slurm_script.sh"

// Directive is a single sbatch directive. Keys keep their leading
// dashes (e.g. "--array"); short keys without dashes are written with a
// space separator instead of "=".
type Directive struct {
	Key   string
	Value string
}

// ScriptBuilder assembles a slurm submit script: an ordered directive
// block, pre-run commands, and a final invocation line. Directives keep
// first-write order; setting an existing key updates it in place so
// generated scripts stay deterministic and diffable.
type ScriptBuilder struct {
	jobName    string
	fullName   string
	dir        string
	directives []Directive
	index      map[string]int
	commands   []string
}

// NewScriptBuilder creates a builder for the given job. scriptDir may be
// empty, in which case the configured default (~/slurm/<job>) applies.
// The job name directive and a default log path are set up front.
func NewScriptBuilder(jobName, scriptDir string) *ScriptBuilder {
	if scriptDir == "" {
		scriptDir = config.ScriptDir(jobName)
	}
	b := &ScriptBuilder{
		jobName: jobName,
		dir:     scriptDir,
		index:   make(map[string]int),
	}
	b.Directive("--job-name", jobName)
	b.Output("%x_%j.log")
	return b
}

// FullName sets a descriptive name printed in the script header, e.g.
// "countdown() in ./countdown".
func (b *ScriptBuilder) FullName(name string) *ScriptBuilder {
	b.fullName = name
	return b
}

// Directive sets a single sbatch directive, replacing any previous value
// for the same key without changing its position.
func (b *ScriptBuilder) Directive(key, value string) *ScriptBuilder {
	if i, ok := b.index[key]; ok {
		b.directives[i].Value = value
		return b
	}
	b.index[key] = len(b.directives)
	b.directives = append(b.directives, Directive{Key: key, Value: value})
	return b
}

// DirectiveMap sets directives from a map in sorted key order, so the
// rendered script does not depend on map iteration order.
func (b *ScriptBuilder) DirectiveMap(m map[string]string) *ScriptBuilder {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Directive(k, m[k])
	}
	return b
}

// Output points both --output and --error at the given filename inside
// the script directory. Slurm patterns (%j, %A, %a, %x) pass through.
func (b *ScriptBuilder) Output(filename string) *ScriptBuilder {
	out := filepath.Join(b.Dir(), filename)
	b.Directive("--output", out)
	b.Directive("--error", out)
	return b
}

// OutputPath returns the currently configured --output value.
func (b *ScriptBuilder) OutputPath() string {
	if i, ok := b.index["--output"]; ok {
		return b.directives[i].Value
	}
	return ""
}

// Command appends a shell command to run before the invocation line.
func (b *ScriptBuilder) Command(cmd string) *ScriptBuilder {
	b.commands = append(b.commands, cmd)
	return b
}

// Commands appends multiple shell commands.
func (b *ScriptBuilder) Commands(cmds []string) *ScriptBuilder {
	b.commands = append(b.commands, cmds...)
	return b
}

// Dir returns the script directory.
func (b *ScriptBuilder) Dir() string {
	return b.dir
}

// ScriptPath returns the path the submit script will be written to.
func (b *ScriptBuilder) ScriptPath() string {
	return filepath.Join(b.dir, ScriptName)
}

// Render produces the full script text.
func (b *ScriptBuilder) Render() string {
	var sb strings.Builder

	// The -l flag loads the login shell profile so user environments
	// (modules, conda) resolve on the compute node.
	sb.WriteString("#!/bin/bash -l\n")
	sb.WriteString("#\n")
	if b.fullName != "" {
		fmt.Fprintf(&sb, "# Submit script for job %q (%s), generated by slurmexec.\n", b.jobName, b.fullName)
	} else {
		fmt.Fprintf(&sb, "# Submit script for job %q, generated by slurmexec.\n", b.jobName)
	}
	sb.WriteString("# Do not edit; this file is rewritten on every submission.\n")
	sb.WriteString("#\n")

	for _, d := range b.directives {
		if strings.HasPrefix(d.Key, "--") {
			fmt.Fprintf(&sb, "#SBATCH %s=%s\n", d.Key, d.Value)
		} else if d.Value == "" {
			fmt.Fprintf(&sb, "#SBATCH %s\n", d.Key)
		} else {
			fmt.Fprintf(&sb, "#SBATCH %s %s\n", d.Key, d.Value)
		}
	}

	sb.WriteString("\n")
	for _, cmd := range b.commands {
		sb.WriteString(cmd)
		sb.WriteString("\n")
	}

	sb.WriteString("\n# End of script\n")
	return sb.String()
}

// Write renders the script and writes it to ScriptPath, creating the
// script directory if needed. Writing truncates any previous script for
// the same job name; one job name owns one file.
func (b *ScriptBuilder) Write() (string, error) {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", NewScriptCreationError(b.jobName, b.dir, err)
	}
	path := b.ScriptPath()
	if err := os.WriteFile(path, []byte(b.Render()), 0o755); err != nil {
		return "", NewScriptCreationError(b.jobName, path, err)
	}
	return path, nil
}
