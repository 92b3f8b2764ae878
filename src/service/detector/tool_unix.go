//go:build unix

package detector

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts the analyzer in its own process group and kills the
// whole group on cancellation, so wrapper scripts do not leave children holding stdout.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
