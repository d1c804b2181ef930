//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package doctor

func kernelVersion() string {
	return ""
}
