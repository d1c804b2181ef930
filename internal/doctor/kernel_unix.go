//go:build linux || darwin || freebsd || netbsd || openbsd

package doctor

import "golang.org/x/sys/unix"

func kernelVersion() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return ""
	}
	return unix.ByteSliceToString(u.Release[:])
}
