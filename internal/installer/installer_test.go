package installer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errwrap "github.com/wpstack/wpstack/internal/errors"
	"github.com/wpstack/wpstack/internal/mysql"
	"github.com/wpstack/wpstack/internal/registry"
	"github.com/wpstack/wpstack/internal/shell/shelltest"
)

const (
	wp       = "/usr/local/bin/wp"
	sitesDir = "/home/dev/Sites"
	sitePath = "/home/dev/Sites/my-blog"
	database = "wp_my_blog"
)

func newInstaller(t *testing.T, runner *shelltest.Runner, herd bool) (*Installer, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(sitesDir, 0o755))
	return &Installer{
		Runner:    runner,
		Fs:        fs,
		Prober:    mysql.NewProber(runner, fs),
		Registry:  registry.New(fs, "/home/dev/.local/share/wpstack/sites.json"),
		WPCLI:     wp,
		MySQLUser: "root",
		Herd:      herd,
		TLD:       "test",
		SitesDir:  sitesDir,
	}, fs
}

func reachableMySQL(r *shelltest.Runner) *shelltest.Runner {
	return r.
		Succeed("mysql  Ver 8.0.36\n", "mysql", "--version").
		Succeed("1\n", "mysql", "SELECT 1", "127.0.0.1").
		Succeed("", "mysql", "CREATE DATABASE IF NOT EXISTS `"+database+"`").
		Succeed("", "mysql", "DROP DATABASE IF EXISTS `"+database+"`")
}

func createOptions() CreateOptions {
	return CreateOptions{
		Name:          "my-blog",
		AdminUser:     "admin",
		AdminPassword: "secret",
		AdminEmail:    "admin@example.test",
	}
}

func lineIndex(lines []string, fragment string) int {
	for i, l := range lines {
		if strings.Contains(l, fragment) {
			return i
		}
	}
	return -1
}

func TestValidSiteName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"blog", true},
		{"my-blog-2", true},
		{"", false},
		{"-blog", false},
		{"My Blog", false},
		{"blog.test", false},
		{strings.Repeat("a", 61), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidSiteName(tt.name))
		})
	}
}

func TestDatabaseName(t *testing.T) {
	assert.Equal(t, "wp_my_blog", DatabaseName("my-blog"))
	assert.True(t, mysql.ValidDatabaseName(DatabaseName(strings.Repeat("a", 60))))
}

func TestCreateWithHerd(t *testing.T) {
	runner := reachableMySQL(shelltest.New()).
		Succeed("", "herd", "link").
		Succeed("", "herd", "secure").
		Succeed("", wp)
	inst, fs := newInstaller(t, runner, true)

	res, err := inst.Create(context.Background(), createOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	assert.Equal(t, "my-blog", res.Site.Name)
	assert.Equal(t, sitePath, res.Site.Path)
	assert.Equal(t, "https://my-blog.test", res.Site.URL)
	assert.Equal(t, database, res.Site.Database)
	assert.Equal(t, "127.0.0.1", res.Site.DBHost)
	assert.True(t, res.Site.Secure)

	exists, err := afero.DirExists(fs, sitePath)
	require.NoError(t, err)
	assert.True(t, exists)

	registered, err := inst.Registry.Get("my-blog")
	require.NoError(t, err)
	assert.Equal(t, res.Site.URL, registered.URL)

	lines := runner.Lines()
	steps := []string{
		"CREATE DATABASE",
		"core download",
		"config create",
		"core install",
		"herd link my-blog",
		"herd secure my-blog",
	}
	last := -1
	for _, step := range steps {
		idx := lineIndex(lines, step)
		require.GreaterOrEqual(t, idx, 0, "missing step %q", step)
		assert.Greater(t, idx, last, "step %q out of order", step)
		last = idx
	}

	assert.Equal(t, 1, runner.CallCount(wp, "config", "create", "--dbname="+database, "--dbhost=127.0.0.1", "--path="+sitePath))
	assert.Equal(t, 1, runner.CallCount(wp, "core", "install", "--url=https://my-blog.test", "--title=my-blog"))
}

func TestCreateHerdSecureFailureIsWarning(t *testing.T) {
	runner := reachableMySQL(shelltest.New()).
		Succeed("", "herd", "link").
		Fail("certificate error", "herd", "secure").
		Succeed("", wp)
	inst, _ := newInstaller(t, runner, true)

	res, err := inst.Create(context.Background(), createOptions())
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "herd secure")
	assert.False(t, res.Site.Secure)
	assert.Equal(t, "http://my-blog.test", res.Site.URL)
	assert.Equal(t, 1, runner.CallCount(wp, "option", "update", "home", "http://my-blog.test"))
	assert.Equal(t, 1, runner.CallCount(wp, "option", "update", "siteurl", "http://my-blog.test"))
}

func TestCreateWithoutHerd(t *testing.T) {
	runner := reachableMySQL(shelltest.New()).Succeed("", wp)
	inst, _ := newInstaller(t, runner, false)

	res, err := inst.Create(context.Background(), createOptions())
	require.NoError(t, err)
	assert.Equal(t, "http://my-blog.test", res.Site.URL)
	assert.False(t, res.Site.Secure)
	assert.Equal(t, 0, runner.CallCount("herd"))
}

func TestCreateRejectsInvalidName(t *testing.T) {
	runner := shelltest.New()
	inst, _ := newInstaller(t, runner, false)

	opts := createOptions()
	opts.Name = "My Blog"
	_, err := inst.Create(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, errwrap.HasCode(err, errwrap.CodeInvalidInput))
	assert.Empty(t, runner.Calls())
}

func TestCreateRefusesExistingDirectory(t *testing.T) {
	runner := reachableMySQL(shelltest.New())
	inst, fs := newInstaller(t, runner, false)
	require.NoError(t, fs.MkdirAll(sitePath, 0o755))

	_, err := inst.Create(context.Background(), createOptions())
	require.Error(t, err)
	assert.True(t, errwrap.HasCode(err, errwrap.CodeSiteExists))
	assert.Empty(t, runner.Calls())
}

func TestCreateWithoutServer(t *testing.T) {
	runner := shelltest.New().Succeed("mysql  Ver 8.0.36\n", "mysql", "--version")
	inst, fs := newInstaller(t, runner, false)

	_, err := inst.Create(context.Background(), createOptions())
	require.Error(t, err)
	assert.True(t, errwrap.HasCode(err, errwrap.CodeNoConnectionFound))
	assert.Equal(t, 0, runner.CallCount("mysql", "CREATE DATABASE IF NOT EXISTS `"+database+"`"))

	exists, _ := afero.Exists(fs, sitePath)
	assert.False(t, exists)
}

func TestCreateRollsBackAfterInstallFailure(t *testing.T) {
	runner := reachableMySQL(shelltest.New()).
		Fail("Error: The site you have requested is not installed.", wp, "core", "install").
		Succeed("", wp)
	inst, fs := newInstaller(t, runner, false)

	_, err := inst.Create(context.Background(), createOptions())
	require.Error(t, err)
	assert.True(t, errwrap.HasCode(err, errwrap.CodeExternalCommand))

	assert.Equal(t, 1, runner.CallCount("mysql", "DROP DATABASE IF EXISTS `"+database+"`"))
	exists, _ := afero.Exists(fs, sitePath)
	assert.False(t, exists)

	sites, err := inst.Registry.List()
	require.NoError(t, err)
	assert.Empty(t, sites)
}

func registerSite(t *testing.T, inst *Installer, fs afero.Fs, dbHost string) registry.Site {
	t.Helper()
	site := registry.Site{
		Name:      "my-blog",
		Path:      sitePath,
		URL:       "https://my-blog.test",
		Database:  database,
		DBHost:    dbHost,
		Secure:    true,
		CreatedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, fs.MkdirAll(sitePath, 0o755))
	require.NoError(t, inst.Registry.Add(site))
	return site
}

func TestDelete(t *testing.T) {
	runner := shelltest.New().
		Succeed("", "herd", "unlink", "my-blog").
		Succeed("", "mysql", "DROP DATABASE IF EXISTS `"+database+"`")
	inst, fs := newInstaller(t, runner, true)
	registerSite(t, inst, fs, "127.0.0.1")

	res, err := inst.Delete(context.Background(), "my-blog")
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "my-blog", res.Site.Name)

	exists, _ := afero.Exists(fs, sitePath)
	assert.False(t, exists)
	_, err = inst.Registry.Get("my-blog")
	assert.True(t, errwrap.HasCode(err, errwrap.CodeSiteNotFound))
	assert.Equal(t, 1, runner.CallCount("mysql", "-h", "127.0.0.1", "DROP DATABASE IF EXISTS `"+database+"`"))
	assert.Equal(t, 0, runner.CallCount("mysql", "--version"))
}

func TestDeleteOptionalFailuresAreWarnings(t *testing.T) {
	runner := shelltest.New().
		Fail("site not linked", "herd", "unlink").
		Fail("ERROR 2002 (HY000): Can't connect", "mysql")
	inst, fs := newInstaller(t, runner, true)
	registerSite(t, inst, fs, "127.0.0.1")

	res, err := inst.Delete(context.Background(), "my-blog")
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 2)

	exists, _ := afero.Exists(fs, sitePath)
	assert.False(t, exists)
	sites, err := inst.Registry.List()
	require.NoError(t, err)
	assert.Empty(t, sites)
}

func TestDeleteUnknownSite(t *testing.T) {
	inst, _ := newInstaller(t, shelltest.New(), true)

	_, err := inst.Delete(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errwrap.HasCode(err, errwrap.CodeSiteNotFound))
}

func TestInfo(t *testing.T) {
	runner := shelltest.New().
		Succeed("6.6.2\n", wp, "core", "version").
		Succeed("wp_posts\nwp_options\nwp_users\n", "mysql", "--socket=/tmp/mysql.sock", "SHOW TABLES", database)
	inst, fs := newInstaller(t, runner, false)
	site := registerSite(t, inst, fs, "localhost:/tmp/mysql.sock")

	info, err := inst.Info(context.Background(), "my-blog")
	require.NoError(t, err)
	assert.Equal(t, site, info.Site)
	assert.True(t, info.DirExists)
	assert.Equal(t, "6.6.2", info.WordPressVersion)
	assert.Equal(t, 3, info.Tables)
}

func TestInfoIsBestEffort(t *testing.T) {
	inst, fs := newInstaller(t, shelltest.New(), false)
	registerSite(t, inst, fs, "127.0.0.1")
	require.NoError(t, fs.RemoveAll(sitePath))

	info, err := inst.Info(context.Background(), "my-blog")
	require.NoError(t, err)
	assert.False(t, info.DirExists)
	assert.Empty(t, info.WordPressVersion)
	assert.Zero(t, info.Tables)
}
