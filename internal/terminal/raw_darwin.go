package terminal

import "golang.org/x/sys/unix"

// termios ioctl request values for Darwin.
const (
	ioctlReadTermios  = unix.TIOCGETA
	ioctlWriteTermios = unix.TIOCSETA
)
