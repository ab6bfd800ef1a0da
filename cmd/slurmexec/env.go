package main

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/chaseking/slurmexec"
	"github.com/chaseking/slurmexec/internal/config"
	"github.com/chaseking/slurmexec/internal/console"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// minSbatchVersion is the oldest slurm release the generated scripts
// are tested against (%x in filename patterns needs 17.11).
const minSbatchVersion = "v17.11.0"

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Display the slurm execution environment",
	Long: `Display whether this process would run in SCHEDULED or LOCAL state,
the slurm environment variables visible to it, and the sbatch binary slurmexec
would submit through.`,
	Example: `  slurmexec env`,
	Run:     runEnv,
}

func init() {
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) {
	ctx := slurmexec.DetectContext()

	fmt.Println(console.StyleTitle("Execution Context:"))
	if ctx.Scheduled() {
		fmt.Printf("  State:     %s\n", console.StyleSuccess("SCHEDULED"))
		fmt.Printf("  Job ID:    %s\n", console.StyleNumber(ctx.JobID()))
	} else {
		fmt.Printf("  State:     %s\n", console.StyleInfo("LOCAL"))
	}

	env := ctx.Env()
	if env.InJob() {
		fmt.Println()
		fmt.Println(console.StyleTitle("Slurm Environment:"))
		if env.JobName != "" {
			fmt.Printf("  Job Name:  %s\n", env.JobName)
		}
		if env.NodeList != "" {
			fmt.Printf("  Nodes:     %s\n", env.NodeList)
		}
		if env.Cluster != "" {
			fmt.Printf("  Cluster:   %s\n", env.Cluster)
		}
		if env.Ntasks > 0 {
			fmt.Printf("  Tasks:     %s\n", console.StyleNumber(env.Ntasks))
		}
		if env.IsArrayTask() {
			fmt.Printf("  Array:     job %s, task %s\n",
				console.StyleNumber(env.ArrayJobID), console.StyleNumber(env.ArrayTaskID))
		}
	}

	fmt.Println()
	fmt.Println(console.StyleTitle("Submission:"))
	sub, err := slurmexec.NewSubmitter()
	if err != nil {
		fmt.Printf("  sbatch:    %s\n", console.StyleError("not found"))
		fmt.Println()
		fmt.Println("No sbatch binary detected; job submission is unavailable on this host.")
		return
	}
	fmt.Printf("  sbatch:    %s\n", console.StylePath(sub.Binary()))

	version, err := sbatchVersion(sub.Binary())
	if err != nil {
		console.PrintDebug("Failed to query sbatch version: %v", err)
		return
	}
	fmt.Printf("  Version:   %s\n", console.StyleNumber(version))
	if canon := normalizeVersion(version); canon != "" && semver.Compare(canon, minSbatchVersion) < 0 {
		fmt.Printf("  Support:   %s\n",
			console.StyleWarning(fmt.Sprintf("older than minimum tested release (%s)", strings.TrimPrefix(minSbatchVersion, "v"))))
	}

	if config.Global.ScriptDir != "" {
		fmt.Printf("  Scripts:   %s\n", console.StylePath(config.Global.ScriptDir))
	}
}

// sbatchVersion parses the version from output like "slurm 23.02.6".
func sbatchVersion(sbatchBin string) (string, error) {
	out, err := exec.Command(sbatchBin, "--version").Output()
	if err != nil {
		return "", err
	}
	fields := strings.Fields(strings.TrimSpace(string(out)))
	if len(fields) >= 2 {
		return fields[1], nil
	}
	return strings.TrimSpace(string(out)), nil
}

// normalizeVersion converts a slurm version like "23.02.6" into a
// canonical semver string ("v23.2.6"). Slurm zero-pads the minor
// release, which semver rejects. Returns "" if unparseable.
func normalizeVersion(version string) string {
	parts := strings.Split(version, ".")
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return ""
		}
		parts[i] = strconv.Itoa(n)
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	v := "v" + strings.Join(parts[:3], ".")
	if !semver.IsValid(v) {
		return ""
	}
	return v
}
