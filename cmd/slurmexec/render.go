package main

import (
	"fmt"

	"github.com/chaseking/slurmexec"
	"github.com/spf13/cobra"
)

var (
	renderJobName   string
	renderParallel  int
	renderPreRun    []string
	renderSbatchArg []string
	renderCommand   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a submit script to stdout without submitting it",
	Long: `Render the submit script slurmexec would generate for the given job
name and options, and print it to stdout. Nothing is written to disk and
sbatch is not invoked.`,
	Example: `  slurmexec render --name countdown --command "./countdown --start 10"
  slurmexec render --name sweep --parallel-jobs 8 --sbatch-arg "--time=0-01:00:00"`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderJobName, "name", "job", "Job name")
	renderCmd.Flags().IntVar(&renderParallel, "parallel-jobs", 1, "Number of array tasks (>1 submits an array)")
	renderCmd.Flags().StringArrayVar(&renderPreRun, "pre-run", nil, "Command to run before the job command (repeatable)")
	renderCmd.Flags().StringArrayVar(&renderSbatchArg, "sbatch-arg", nil, "Extra sbatch directive as key=value (repeatable)")
	renderCmd.Flags().StringVar(&renderCommand, "command", "", "Job command line")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	b := slurmexec.NewScriptBuilder(renderJobName, "")

	if renderParallel > 1 {
		b.Directive("--array", fmt.Sprintf("1-%d", renderParallel))
		b.Output("%A_%a.out")
	}

	for _, arg := range renderSbatchArg {
		d, err := parseDirective(arg)
		if err != nil {
			return err
		}
		b.Directive(d.Key, d.Value)
	}

	b.Commands(renderPreRun)
	if renderCommand != "" {
		b.Command(renderCommand)
	}

	fmt.Print(b.Render())
	return nil
}

func parseDirective(arg string) (slurmexec.Directive, error) {
	for i := 0; i < len(arg); i++ {
		if arg[i] == '=' {
			return slurmexec.Directive{Key: arg[:i], Value: arg[i+1:]}, nil
		}
	}
	return slurmexec.Directive{}, fmt.Errorf("invalid sbatch-arg %q (expected key=value)", arg)
}
