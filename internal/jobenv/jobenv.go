// Package jobenv reads the SLURM environment variables of the current
// process into a typed snapshot.
package jobenv

import (
	"github.com/kelseyhightower/envconfig"
)

// Env is a snapshot of the SLURM-provided environment. All fields are
// empty when the process is not running inside a slurm job.
type Env struct {
	JobID       string `envconfig:"SLURM_JOB_ID"`
	JobName     string `envconfig:"SLURM_JOB_NAME"`
	NodeList    string `envconfig:"SLURM_JOB_NODELIST"`
	Cluster     string `envconfig:"SLURM_CLUSTER_NAME"`
	Ntasks      int    `envconfig:"SLURM_NTASKS"`
	ArrayJobID  string `envconfig:"SLURM_ARRAY_JOB_ID"`
	ArrayTaskID string `envconfig:"SLURM_ARRAY_TASK_ID"`
}

// Read captures the current SLURM environment. Unset variables leave
// their fields at the zero value.
func Read() (Env, error) {
	var e Env
	if err := envconfig.Process("", &e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// InJob reports whether the snapshot was taken inside a slurm job.
func (e Env) InJob() bool {
	return e.JobID != ""
}

// IsArrayTask reports whether the snapshot belongs to an array task.
func (e Env) IsArrayTask() bool {
	return e.ArrayTaskID != ""
}
