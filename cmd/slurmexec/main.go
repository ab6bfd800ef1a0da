// slurmexec is a diagnostic CLI for the slurmexec library: it reports
// the scheduler environment and renders submit scripts without
// submitting them.
package main

func main() {
	Execute()
}
