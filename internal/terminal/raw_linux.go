package terminal

import "golang.org/x/sys/unix"

// termios ioctl request values for Linux.
const (
	ioctlReadTermios  = unix.TCGETS
	ioctlWriteTermios = unix.TCSETS
)
