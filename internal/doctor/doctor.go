// Package doctor runs independent environment checks for wpstack and
// collects their results and issues into a single report. No check returns
// an error; failures are recorded as data so a run always completes.
package doctor

import (
	"context"
	"os"

	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"

	"github.com/wpstack/wpstack/internal/mysql"
	"github.com/wpstack/wpstack/internal/shell"
)

// ConnectionProber resolves a working database connection for a user.
type ConnectionProber interface {
	Cached(ctx context.Context, identity string) (string, error)
}

// SettingsLoader loads persisted user settings.
type SettingsLoader interface {
	Load() (map[string]any, error)
}

// Options configures an Engine. Zero values fall back to the defaults below.
type Options struct {
	Runner   shell.Runner
	Fs       afero.Fs
	Prober   ConnectionProber
	Settings SettingsLoader

	SettingsPath  string
	WPCLIPath     string
	PHPBinary     string
	PHPMinVersion string
	PHPExtensions []string
	MySQLBinary   string
	MySQLUser     string
	HerdBinary    string

	// WorkDir is always checked for write access; SitesDir only when it exists.
	WorkDir  string
	SitesDir string
}

// Defaults used when Options leaves a field empty.
const (
	DefaultWPCLIPath     = "/usr/local/bin/wp"
	DefaultPHPBinary     = "php"
	DefaultPHPMinVersion = "7.4"
	DefaultMySQLUser     = "root"
	DefaultHerdBinary    = "herd"
)

// DefaultPHPExtensions are the extensions WordPress needs from PHP.
var DefaultPHPExtensions = []string{"mysqli", "curl", "gd", "mbstring"}

// Engine runs diagnostic checks. Each Check method appends its issues to the
// engine's list; RunAll starts that list afresh.
type Engine struct {
	opts   Options
	issues []Issue
}

// New returns an Engine with defaults applied to opts.
func New(opts Options) *Engine {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Runner == nil {
		opts.Runner = shell.NewExecRunner()
	}
	if opts.Prober == nil {
		prober := mysql.NewProber(opts.Runner, opts.Fs)
		if opts.MySQLBinary != "" {
			prober.Binary = opts.MySQLBinary
		}
		opts.Prober = prober
	}
	if opts.WPCLIPath == "" {
		opts.WPCLIPath = DefaultWPCLIPath
	}
	if opts.PHPBinary == "" {
		opts.PHPBinary = DefaultPHPBinary
	}
	if opts.PHPMinVersion == "" {
		opts.PHPMinVersion = DefaultPHPMinVersion
	}
	if opts.PHPExtensions == nil {
		opts.PHPExtensions = DefaultPHPExtensions
	}
	if opts.MySQLBinary == "" {
		opts.MySQLBinary = mysql.DefaultBinary
	}
	if opts.MySQLUser == "" {
		opts.MySQLUser = DefaultMySQLUser
	}
	if opts.HerdBinary == "" {
		opts.HerdBinary = DefaultHerdBinary
	}
	if opts.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.WorkDir = wd
		}
	}
	return &Engine{opts: opts}
}

// Issues returns the issues recorded so far, in the order checks ran.
func (e *Engine) Issues() []Issue {
	return append([]Issue(nil), e.issues...)
}

func (e *Engine) record(log issueLog) {
	e.issues = append(e.issues, log...)
}

// CheckWPCLI checks that WP-CLI exists at its configured path and runs.
func (e *Engine) CheckWPCLI(ctx context.Context) ToolResult {
	res, log := e.checkWPCLI(ctx)
	e.record(log)
	return res
}

// CheckPHP checks the PHP version against the minimum and looks for the
// required extensions.
func (e *Engine) CheckPHP(ctx context.Context) RuntimeResult {
	res, log := e.checkPHP(ctx)
	e.record(log)
	return res
}

// CheckMySQL checks the mysql client and then negotiates a connection.
func (e *Engine) CheckMySQL(ctx context.Context) ConnectivityResult {
	res, log := e.checkMySQL(ctx)
	e.record(log)
	return res
}

// CheckHerd reports whether Herd is installed. It never records an issue.
func (e *Engine) CheckHerd(ctx context.Context) OptionalResult {
	return e.checkHerd(ctx)
}

// CheckPermissions round-trips a marker file in each checked directory.
func (e *Engine) CheckPermissions(ctx context.Context) PermissionResult {
	res, log := e.checkPermissions(ctx)
	e.record(log)
	return res
}

// CheckConfig loads the persisted settings.
func (e *Engine) CheckConfig(ctx context.Context) ConfigResult {
	res, log := e.checkConfig(ctx)
	e.record(log)
	return res
}

// RunAll runs every check and returns the combined report. Checks are issued
// concurrently, each collecting its own issues; results are merged in the
// fixed order WP-CLI, PHP, MySQL, Herd, permissions, config.
func (e *Engine) RunAll(ctx context.Context) Report {
	var (
		wpcli       ToolResult
		php         RuntimeResult
		db          ConnectivityResult
		herd        OptionalResult
		perms       PermissionResult
		settings    ConfigResult
		wpcliIssues issueLog
		phpIssues   issueLog
		dbIssues    issueLog
		permIssues  issueLog
		cfgIssues   issueLog
	)

	var wg conc.WaitGroup
	wg.Go(func() { wpcli, wpcliIssues = e.checkWPCLI(ctx) })
	wg.Go(func() { php, phpIssues = e.checkPHP(ctx) })
	wg.Go(func() { db, dbIssues = e.checkMySQL(ctx) })
	wg.Go(func() { herd = e.checkHerd(ctx) })
	wg.Go(func() { perms, permIssues = e.checkPermissions(ctx) })
	wg.Go(func() { settings, cfgIssues = e.checkConfig(ctx) })
	wg.Wait()

	e.issues = nil
	for _, log := range []issueLog{wpcliIssues, phpIssues, dbIssues, permIssues, cfgIssues} {
		e.record(log)
	}

	issues := e.Issues()
	if issues == nil {
		issues = []Issue{}
	}

	return Report{
		WPCLI:       wpcli,
		PHP:         php,
		MySQL:       db,
		Herd:        herd,
		Permissions: perms,
		Config:      settings,
		Environment: DescribeEnvironment(e.opts.SettingsPath),
		Issues:      issues,
	}
}
