//go:build windows

package encoder

import (
	"os/exec"
	"syscall"
)

// createNoWindow keeps console windows from flashing for every encoder call
const createNoWindow = 0x08000000

func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNoWindow}
}
