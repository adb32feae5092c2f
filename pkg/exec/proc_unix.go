//go:build unix

package exec

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup starts the child in its own process group and
// kills the whole group on context cancellation, so helpers the agent
// spawned do not outlive it.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
