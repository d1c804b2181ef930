package doctor

import (
	"os"
	"runtime"
)

// DescribeEnvironment reports the host platform without spawning processes.
func DescribeEnvironment(configPath string) Environment {
	return Environment{
		OS:         runtime.GOOS,
		Kernel:     kernelVersion(),
		Arch:       runtime.GOARCH,
		Runtime:    runtime.Version(),
		Shell:      os.Getenv("SHELL"),
		ConfigPath: configPath,
	}
}
