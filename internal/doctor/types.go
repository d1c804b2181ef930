package doctor

// Error classifications attached to failed checks.
const (
	ErrNotFound                = "Not found"
	ErrNotAccessible           = "Not accessible"
	ErrNotInstalled            = "Not installed"
	ErrMySQLClientNotInstalled = "MySQL client not installed"
)

// Issue is one human-readable finding with an optional remediation hint.
// Fix is empty when no hint is known and is then omitted from JSON output.
type Issue struct {
	Description string `json:"description" yaml:"description"`
	Fix         string `json:"fix,omitempty" yaml:"fix,omitempty"`
}

// HasFix reports whether a remediation hint is known.
func (i Issue) HasFix() bool {
	return i.Fix != ""
}

type issueLog []Issue

func (l *issueLog) add(description, fix string) {
	*l = append(*l, Issue{Description: description, Fix: fix})
}

// ToolResult reports whether a required executable exists and runs.
type ToolResult struct {
	OK      bool   `json:"ok" yaml:"ok"`
	Path    string `json:"path" yaml:"path"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RuntimeResult reports the PHP runtime version and extensions. An outdated
// version or missing extensions are warnings and leave OK set.
type RuntimeResult struct {
	OK                bool     `json:"ok" yaml:"ok"`
	Version           string   `json:"version,omitempty" yaml:"version,omitempty"`
	MinVersion        string   `json:"min_version" yaml:"min_version"`
	Outdated          bool     `json:"outdated" yaml:"outdated"`
	MissingExtensions []string `json:"missing_extensions,omitempty" yaml:"missing_extensions,omitempty"`
	Error             string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// ConnectivityResult reports whether the database server could be reached.
type ConnectivityResult struct {
	OK            bool   `json:"ok" yaml:"ok"`
	User          string `json:"user" yaml:"user"`
	Connection    string `json:"connection,omitempty" yaml:"connection,omitempty"`
	ClientVersion string `json:"client_version,omitempty" yaml:"client_version,omitempty"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
	Detail        string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// OptionalResult reports an optional integration. Absence is not a failure.
type OptionalResult struct {
	Installed bool   `json:"installed" yaml:"installed"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
}

// PermissionResult reports directories that could not be written.
type PermissionResult struct {
	OK          bool     `json:"ok" yaml:"ok"`
	CheckedDirs []string `json:"checked_dirs" yaml:"checked_dirs"`
	FailedDirs  []string `json:"failed_dirs,omitempty" yaml:"failed_dirs,omitempty"`
}

// ConfigResult reports whether persisted settings load and are non-empty.
type ConfigResult struct {
	OK         bool   `json:"ok" yaml:"ok"`
	Configured bool   `json:"configured" yaml:"configured"`
	Path       string `json:"path,omitempty" yaml:"path,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Environment describes the host the checks ran on.
type Environment struct {
	OS         string `json:"os" yaml:"os"`
	Kernel     string `json:"kernel,omitempty" yaml:"kernel,omitempty"`
	Arch       string `json:"arch" yaml:"arch"`
	Runtime    string `json:"runtime" yaml:"runtime"`
	Shell      string `json:"shell,omitempty" yaml:"shell,omitempty"`
	ConfigPath string `json:"config_path,omitempty" yaml:"config_path,omitempty"`
}

// Report is the outcome of a full diagnostic run. Issues are in check order.
type Report struct {
	WPCLI       ToolResult         `json:"wpcli" yaml:"wpcli"`
	PHP         RuntimeResult      `json:"php" yaml:"php"`
	MySQL       ConnectivityResult `json:"mysql" yaml:"mysql"`
	Herd        OptionalResult     `json:"herd" yaml:"herd"`
	Permissions PermissionResult   `json:"permissions" yaml:"permissions"`
	Config      ConfigResult       `json:"config" yaml:"config"`
	Environment Environment        `json:"environment" yaml:"environment"`
	Issues      []Issue            `json:"issues" yaml:"issues"`
}

// Failed reports whether any required check failed. Herd is optional and
// never counts.
func (r Report) Failed() bool {
	return !r.WPCLI.OK || !r.PHP.OK || !r.MySQL.OK || !r.Permissions.OK || !r.Config.OK
}
