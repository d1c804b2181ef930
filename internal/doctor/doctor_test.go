package doctor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpstack/wpstack/internal/mysql"
	"github.com/wpstack/wpstack/internal/shell/shelltest"
)

const (
	wpPath    = "/usr/local/bin/wp"
	workDir   = "/work"
	sitesDir  = "/home/dev/Sites"
	cfgPath   = "/home/dev/.config/wpstack/config.yaml"
	phpModule = "[PHP Modules]\nCore\ncurl\ngd\nmbstring\nmysqli\n\n[Zend Modules]\n"
)

type stubSettings struct {
	settings map[string]any
	err      error
}

func (s stubSettings) Load() (map[string]any, error) {
	return s.settings, s.err
}

func healthyRunner() *shelltest.Runner {
	return shelltest.New().
		Succeed("WP-CLI 2.10.0\n", wpPath, "--version").
		Succeed("PHP 8.3.4 (cli) (built: Mar 12 2024)\n", "php", "-v").
		Succeed(phpModule, "php", "-m").
		Succeed("mysql  Ver 8.0.36 for Linux on x86_64\n", "mysql", "--version").
		Succeed("1\n", "mysql", "-h", "127.0.0.1")
}

func newMemFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, wpPath, []byte("#!/usr/bin/env php"), 0o755))
	require.NoError(t, fs.MkdirAll(workDir, 0o755))
	return fs
}

func newEngine(runner *shelltest.Runner, fs afero.Fs, settings SettingsLoader) *Engine {
	return New(Options{
		Runner:       runner,
		Fs:           fs,
		Prober:       mysql.NewProber(runner, fs),
		Settings:     settings,
		SettingsPath: cfgPath,
		WorkDir:      workDir,
		SitesDir:     sitesDir,
	})
}

func descriptions(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Description)
	}
	return out
}

func TestRunAllHealthy(t *testing.T) {
	runner := healthyRunner()
	engine := newEngine(runner, newMemFs(t), stubSettings{settings: map[string]any{"mysql": map[string]any{"user": "root"}}})

	report := engine.RunAll(context.Background())

	assert.True(t, report.WPCLI.OK)
	assert.Equal(t, "2.10.0", report.WPCLI.Version)
	assert.True(t, report.PHP.OK)
	assert.Equal(t, "8.3.4", report.PHP.Version)
	assert.False(t, report.PHP.Outdated)
	assert.Empty(t, report.PHP.MissingExtensions)
	assert.True(t, report.MySQL.OK)
	assert.Equal(t, "127.0.0.1", report.MySQL.Connection)
	assert.Equal(t, "8.0.36", report.MySQL.ClientVersion)
	assert.False(t, report.Herd.Installed)
	assert.True(t, report.Permissions.OK)
	assert.Equal(t, []string{workDir}, report.Permissions.CheckedDirs)
	assert.True(t, report.Config.OK)
	assert.True(t, report.Config.Configured)

	assert.Empty(t, report.Issues)
	assert.NotNil(t, report.Issues)
	assert.False(t, report.Failed())
	assert.Equal(t, cfgPath, report.Environment.ConfigPath)
	assert.NotEmpty(t, report.Environment.OS)
	assert.NotEmpty(t, report.Environment.Arch)
}

func TestRunAllNeverFailsUnderTotalFailure(t *testing.T) {
	runner := shelltest.New()
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	engine := newEngine(runner, fs, stubSettings{err: fmt.Errorf("yaml: line 1: did not find expected node content")})

	var report Report
	require.NotPanics(t, func() {
		report = engine.RunAll(context.Background())
	})

	assert.True(t, report.Failed())
	assert.NotEmpty(t, report.Issues)
	assert.Equal(t, ErrNotFound, report.WPCLI.Error)
	assert.Equal(t, ErrNotInstalled, report.PHP.Error)
	assert.Equal(t, ErrMySQLClientNotInstalled, report.MySQL.Error)
	assert.False(t, report.Herd.Installed)
	assert.False(t, report.Permissions.OK)
	assert.False(t, report.Config.OK)
}

func TestRunAllIssueOrderFollowsCheckOrder(t *testing.T) {
	runner := shelltest.New().
		Succeed("PHP 7.3.0 (cli)\n", "php", "-v").
		Succeed(phpModule, "php", "-m").
		Succeed("mysql  Ver 8.0.36\n", "mysql", "--version")
	engine := newEngine(runner, newMemFs(t), stubSettings{err: fmt.Errorf("bad config")})
	engine.opts.WPCLIPath = "/opt/missing/wp"

	report := engine.RunAll(context.Background())

	got := descriptions(report.Issues)
	require.Len(t, got, 4)
	assert.Contains(t, got[0], "WP-CLI not found")
	assert.Contains(t, got[1], "outdated")
	assert.Contains(t, got[2], "Cannot connect to MySQL")
	assert.Contains(t, got[3], "Config file error")
}

func TestRunAllIsRepeatable(t *testing.T) {
	runner := shelltest.New().
		Succeed("PHP 7.2.34\n", "php", "-v").
		Succeed("curl\n", "php", "-m")
	engine := newEngine(runner, newMemFs(t), stubSettings{settings: map[string]any{}})

	first := engine.RunAll(context.Background())
	second := engine.RunAll(context.Background())

	assert.Equal(t, first.Issues, second.Issues)
	assert.Equal(t, first.Issues, engine.Issues())
}

func TestCheckWPCLIDistinguishesMissingFromBroken(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		engine := newEngine(shelltest.New(), fs, nil)

		res := engine.CheckWPCLI(context.Background())
		assert.False(t, res.OK)
		assert.Equal(t, ErrNotFound, res.Error)
		require.Len(t, engine.Issues(), 1)
		assert.Contains(t, engine.Issues()[0].Description, "not found")
		assert.True(t, engine.Issues()[0].HasFix())
	})

	t.Run("present but failing", func(t *testing.T) {
		runner := shelltest.New().Fail("permission denied", wpPath, "--version")
		engine := newEngine(runner, newMemFs(t), nil)

		res := engine.CheckWPCLI(context.Background())
		assert.False(t, res.OK)
		assert.Equal(t, ErrNotAccessible, res.Error)
		require.Len(t, engine.Issues(), 1)
		assert.Contains(t, engine.Issues()[0].Description, "not accessible")
	})

	t.Run("unparsable version", func(t *testing.T) {
		runner := shelltest.New().Succeed("WP-CLI nightly\n", wpPath, "--version")
		engine := newEngine(runner, newMemFs(t), nil)

		res := engine.CheckWPCLI(context.Background())
		assert.True(t, res.OK)
		assert.Empty(t, res.Version)
		assert.Empty(t, engine.Issues())
	})
}

func TestCheckPHPOutdatedIsWarning(t *testing.T) {
	runner := shelltest.New().
		Succeed("PHP 7.3.0 (cli) (built: Dec  6 2018)\n", "php", "-v").
		Succeed(phpModule, "php", "-m")
	engine := newEngine(runner, newMemFs(t), nil)

	res := engine.CheckPHP(context.Background())

	assert.True(t, res.OK)
	assert.True(t, res.Outdated)
	assert.Equal(t, "7.3.0", res.Version)

	issues := engine.Issues()
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Description, "7.3.0")
	assert.Contains(t, issues[0].Description, "outdated")
}

func TestCheckPHPSuffixedVersion(t *testing.T) {
	runner := shelltest.New().
		Succeed("PHP 8.4.0-dev (cli)\n", "php", "-v").
		Succeed(phpModule, "php", "-m")
	engine := newEngine(runner, newMemFs(t), nil)

	res := engine.CheckPHP(context.Background())
	assert.True(t, res.OK)
	assert.Equal(t, "8.4.0", res.Version)
	assert.Empty(t, engine.Issues())
}

func TestCheckPHPMissingExtensionsAggregate(t *testing.T) {
	runner := shelltest.New().
		Succeed("PHP 8.2.15 (cli)\n", "php", "-v").
		Succeed("[PHP Modules]\nCore\nCURL\nmbstring\n", "php", "-m")
	engine := newEngine(runner, newMemFs(t), nil)

	res := engine.CheckPHP(context.Background())

	assert.True(t, res.OK)
	assert.Equal(t, []string{"mysqli", "gd"}, res.MissingExtensions)

	issues := engine.Issues()
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Description, "mysqli")
	assert.Contains(t, issues[0].Description, "gd")
}

func TestCheckPHPNotInstalled(t *testing.T) {
	engine := newEngine(shelltest.New(), newMemFs(t), nil)

	res := engine.CheckPHP(context.Background())
	assert.False(t, res.OK)
	assert.Equal(t, ErrNotInstalled, res.Error)
	require.Len(t, engine.Issues(), 1)
}

func TestCheckMySQLDistinguishesClientFromServer(t *testing.T) {
	t.Run("client missing", func(t *testing.T) {
		runner := shelltest.New()
		engine := newEngine(runner, newMemFs(t), nil)

		res := engine.CheckMySQL(context.Background())
		assert.False(t, res.OK)
		assert.Equal(t, ErrMySQLClientNotInstalled, res.Error)
		assert.Equal(t, 0, runner.CallCount("mysql", "SELECT 1"))
	})

	t.Run("server unreachable", func(t *testing.T) {
		runner := shelltest.New().Succeed("mysql  Ver 8.0.36\n", "mysql", "--version")
		engine := newEngine(runner, newMemFs(t), nil)

		res := engine.CheckMySQL(context.Background())
		assert.False(t, res.OK)
		assert.Equal(t, ErrNotAccessible, res.Error)
		assert.Contains(t, res.Detail, "127.0.0.1")

		issues := engine.Issues()
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Description, "Cannot connect")
	})

	t.Run("socket connection", func(t *testing.T) {
		runner := shelltest.New().
			Succeed("mysql  Ver 8.0.36\n", "mysql", "--version").
			Succeed("1\n", "mysql", "--socket=/tmp/mysql.sock")
		fs := newMemFs(t)
		require.NoError(t, afero.WriteFile(fs, "/tmp/mysql.sock", nil, 0o600))
		engine := newEngine(runner, fs, nil)

		res := engine.CheckMySQL(context.Background())
		assert.True(t, res.OK)
		assert.Equal(t, "localhost:/tmp/mysql.sock", res.Connection)
		assert.Empty(t, engine.Issues())
	})
}

func TestCheckHerdIsSilentWhenAbsent(t *testing.T) {
	engine := newEngine(shelltest.New(), newMemFs(t), nil)

	res := engine.CheckHerd(context.Background())
	assert.False(t, res.Installed)
	assert.Empty(t, engine.Issues())

	report := Report{
		WPCLI:       ToolResult{OK: true},
		PHP:         RuntimeResult{OK: true},
		MySQL:       ConnectivityResult{OK: true},
		Herd:        res,
		Permissions: PermissionResult{OK: true},
		Config:      ConfigResult{OK: true},
	}
	assert.False(t, report.Failed())
}

func TestCheckHerdInstalled(t *testing.T) {
	runner := shelltest.New().Succeed("Laravel Herd 1.11.2\n", "herd", "--version")
	engine := newEngine(runner, newMemFs(t), nil)

	res := engine.CheckHerd(context.Background())
	assert.True(t, res.Installed)
	assert.Equal(t, "1.11.2", res.Version)
}

func TestCheckPermissions(t *testing.T) {
	t.Run("unwritable work dir, missing sites dir", func(t *testing.T) {
		fs := afero.NewReadOnlyFs(newMemFs(t))
		engine := newEngine(shelltest.New(), fs, nil)

		res := engine.CheckPermissions(context.Background())
		assert.False(t, res.OK)
		assert.Equal(t, []string{workDir}, res.FailedDirs)
		require.Len(t, engine.Issues(), 1)
		assert.Contains(t, engine.Issues()[0].Description, workDir)
	})

	t.Run("both writable", func(t *testing.T) {
		fs := newMemFs(t)
		require.NoError(t, fs.MkdirAll(sitesDir, 0o755))
		engine := newEngine(shelltest.New(), fs, nil)

		res := engine.CheckPermissions(context.Background())
		assert.True(t, res.OK)
		assert.Equal(t, []string{workDir, sitesDir}, res.CheckedDirs)
		assert.Empty(t, res.FailedDirs)
		assert.Empty(t, engine.Issues())

		for _, dir := range res.CheckedDirs {
			exists, err := afero.Exists(fs, dir+"/"+markerName)
			require.NoError(t, err)
			assert.False(t, exists, "marker left behind in %s", dir)
		}
	})

	t.Run("one issue per failed dir", func(t *testing.T) {
		base := newMemFs(t)
		require.NoError(t, base.MkdirAll(sitesDir, 0o755))
		engine := newEngine(shelltest.New(), afero.NewReadOnlyFs(base), nil)

		res := engine.CheckPermissions(context.Background())
		assert.False(t, res.OK)
		assert.Len(t, res.FailedDirs, 2)
		assert.Len(t, engine.Issues(), 2)
	})
}

func TestCheckConfig(t *testing.T) {
	t.Run("empty settings", func(t *testing.T) {
		engine := newEngine(shelltest.New(), newMemFs(t), stubSettings{settings: map[string]any{}})

		res := engine.CheckConfig(context.Background())
		assert.True(t, res.OK)
		assert.False(t, res.Configured)
		assert.Empty(t, engine.Issues())
	})

	t.Run("load error passes message through", func(t *testing.T) {
		loadErr := fmt.Errorf("parse %s: yaml: line 3: mapping values are not allowed", cfgPath)
		engine := newEngine(shelltest.New(), newMemFs(t), stubSettings{err: loadErr})

		res := engine.CheckConfig(context.Background())
		assert.False(t, res.OK)
		assert.Equal(t, loadErr.Error(), res.Error)

		issues := engine.Issues()
		require.Len(t, issues, 1)
		assert.True(t, strings.HasPrefix(issues[0].Description, "Config file error"))
		assert.Contains(t, issues[0].Description, loadErr.Error())
	})
}

func TestIssuesAccumulateAcrossChecks(t *testing.T) {
	engine := newEngine(shelltest.New(), afero.NewMemMapFs(), nil)

	engine.CheckWPCLI(context.Background())
	engine.CheckPHP(context.Background())
	engine.CheckHerd(context.Background())

	got := descriptions(engine.Issues())
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "WP-CLI")
	assert.Contains(t, got[1], "PHP")
}
