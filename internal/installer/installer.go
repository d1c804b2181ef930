// Package installer creates, inspects and removes local WordPress sites by
// driving WP-CLI, the mysql client and, when enabled, Herd.
package installer

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/afero"

	errwrap "github.com/wpstack/wpstack/internal/errors"
	"github.com/wpstack/wpstack/internal/mysql"
	"github.com/wpstack/wpstack/internal/registry"
	"github.com/wpstack/wpstack/internal/shell"
)

// ConnectionResolver returns a working database connection for a user.
type ConnectionResolver interface {
	Cached(ctx context.Context, identity string) (string, error)
}

// Defaults applied when Installer fields are empty.
const (
	DefaultWPCLI      = "/usr/local/bin/wp"
	DefaultHerdBinary = "herd"
	DefaultTLD        = "test"
	DefaultMySQLUser  = "root"
)

// Site names become hostnames and database names, so they stay short and
// lowercase.
var siteNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,59}$`)

// ValidSiteName reports whether name can be used for a new site.
func ValidSiteName(name string) bool {
	return siteNamePattern.MatchString(name)
}

// DatabaseName returns the database used for the site called name.
func DatabaseName(name string) string {
	return "wp_" + strings.ReplaceAll(name, "-", "_")
}

// Installer holds the collaborators shared by Create, Delete and Info.
type Installer struct {
	Runner   shell.Runner
	Fs       afero.Fs
	Prober   ConnectionResolver
	Registry *registry.Registry

	WPCLI         string
	MySQLBinary   string
	MySQLUser     string
	MySQLPassword string
	HerdBinary    string
	Herd          bool
	TLD           string
	SitesDir      string
}

// CreateOptions describes a new site. Empty admin fields are rejected by
// WP-CLI, so callers fill them from configuration.
type CreateOptions struct {
	Name          string
	Title         string
	AdminUser     string
	AdminPassword string
	AdminEmail    string
}

// Result is the outcome of Create or Delete. Warnings list optional steps
// that failed without aborting the operation.
type Result struct {
	Site     registry.Site
	Warnings []string
}

func (r *Result) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (i *Installer) wpcli() string {
	if strings.TrimSpace(i.WPCLI) == "" {
		return DefaultWPCLI
	}
	return i.WPCLI
}

func (i *Installer) herd() string {
	if strings.TrimSpace(i.HerdBinary) == "" {
		return DefaultHerdBinary
	}
	return i.HerdBinary
}

func (i *Installer) tld() string {
	if strings.TrimSpace(i.TLD) == "" {
		return DefaultTLD
	}
	return strings.TrimPrefix(i.TLD, ".")
}

func (i *Installer) user() string {
	if strings.TrimSpace(i.MySQLUser) == "" {
		return DefaultMySQLUser
	}
	return i.MySQLUser
}

func (i *Installer) client(connection string) *mysql.Client {
	return &mysql.Client{
		Runner:     i.Runner,
		Binary:     i.MySQLBinary,
		User:       i.user(),
		Password:   i.MySQLPassword,
		Connection: connection,
	}
}

func (i *Installer) sitePath(name string) string {
	return filepath.Join(i.SitesDir, name)
}

func (i *Installer) wp(ctx context.Context, path string, args ...string) (shell.Result, error) {
	args = append(args, "--path="+path)
	return i.Runner.Run(ctx, i.wpcli(), args, shell.Options{Dir: path})
}

// Create installs a new site. Any failure after the database exists drops
// the database and removes the site directory again.
func (i *Installer) Create(ctx context.Context, opts CreateOptions) (*Result, error) {
	name := strings.TrimSpace(opts.Name)
	if !ValidSiteName(name) {
		return nil, errwrap.NewInvalidInputError(fmt.Sprintf(
			"invalid site name %q: use lowercase letters, digits and dashes", opts.Name))
	}

	path := i.sitePath(name)
	exists, err := afero.Exists(i.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}
	if exists {
		return nil, errwrap.NewSiteExistsError(fmt.Sprintf("directory %s already exists", path))
	}
	if _, err := i.Registry.Get(name); err == nil {
		return nil, errwrap.NewSiteExistsError(fmt.Sprintf("site %q is already registered", name))
	} else if !errwrap.HasCode(err, errwrap.CodeSiteNotFound) {
		return nil, err
	}

	dbHost, err := i.Prober.Cached(ctx, i.user())
	if err != nil {
		return nil, err
	}

	database := DatabaseName(name)
	db := i.client(dbHost)
	if err := db.CreateDatabase(ctx, database); err != nil {
		return nil, errwrap.WrapExternalCommand(err, fmt.Sprintf("failed to create database %s", database))
	}

	result := &Result{}
	rollback := func() {
		if dropErr := db.DropDatabase(ctx, database); dropErr != nil {
			result.warn("could not drop database %s: %v", database, dropErr)
		}
		if rmErr := i.Fs.RemoveAll(path); rmErr != nil {
			result.warn("could not remove %s: %v", path, rmErr)
		}
	}

	if err := i.Fs.MkdirAll(path, 0o755); err != nil {
		rollback()
		return result, fmt.Errorf("creating %s: %w", path, err)
	}

	if _, err := i.wp(ctx, path, "core", "download"); err != nil {
		rollback()
		return result, errwrap.WrapExternalCommand(err, "wp core download failed")
	}

	if _, err := i.wp(ctx, path, "config", "create",
		"--dbname="+database,
		"--dbuser="+i.user(),
		"--dbpass="+i.MySQLPassword,
		"--dbhost="+dbHost,
	); err != nil {
		rollback()
		return result, errwrap.WrapExternalCommand(err, "wp config create failed")
	}

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = name
	}
	host := name + "." + i.tld()
	url := "http://" + host
	if i.Herd {
		url = "https://" + host
	}

	if _, err := i.wp(ctx, path, "core", "install",
		"--url="+url,
		"--title="+title,
		"--admin_user="+opts.AdminUser,
		"--admin_password="+opts.AdminPassword,
		"--admin_email="+opts.AdminEmail,
		"--skip-email",
	); err != nil {
		rollback()
		return result, errwrap.WrapExternalCommand(err, "wp core install failed")
	}

	secure := false
	if i.Herd {
		secure = i.linkHerd(ctx, name, path, result)
		if !secure {
			url = "http://" + host
			i.setSiteURL(ctx, path, url, result)
		}
	}

	result.Site = registry.Site{
		Name:      name,
		Path:      path,
		URL:       url,
		Database:  database,
		DBHost:    dbHost,
		Secure:    secure,
		CreatedAt: time.Now().UTC(),
	}
	if err := i.Registry.Add(result.Site); err != nil {
		result.warn("site installed but not registered: %v", err)
	}
	return result, nil
}

// linkHerd links and secures the site. Failures are recorded as warnings.
func (i *Installer) linkHerd(ctx context.Context, name, path string, result *Result) bool {
	if _, err := i.Runner.Run(ctx, i.herd(), []string{"link", name}, shell.Options{Dir: path}); err != nil {
		result.warn("herd link failed: %v", err)
		return false
	}
	if _, err := i.Runner.Run(ctx, i.herd(), []string{"secure", name}, shell.Options{Dir: path}); err != nil {
		result.warn("herd secure failed: %v", err)
		return false
	}
	return true
}

func (i *Installer) setSiteURL(ctx context.Context, path, url string, result *Result) {
	for _, option := range []string{"home", "siteurl"} {
		if _, err := i.wp(ctx, path, "option", "update", option, url); err != nil {
			result.warn("could not set %s to %s: %v", option, url, err)
		}
	}
}

// Delete removes a registered site: Herd link, database, files, registry
// entry. Herd and database failures are warnings; the files and the
// registry entry are always removed.
func (i *Installer) Delete(ctx context.Context, name string) (*Result, error) {
	site, err := i.Registry.Get(name)
	if err != nil {
		return nil, err
	}
	result := &Result{Site: site}

	if i.Herd {
		if _, err := i.Runner.Run(ctx, i.herd(), []string{"unlink", site.Name}, shell.Options{Dir: site.Path}); err != nil {
			result.warn("herd unlink failed: %v", err)
		}
	}

	if site.Database != "" {
		if err := i.client(site.DBHost).DropDatabase(ctx, site.Database); err != nil {
			result.warn("could not drop database %s: %v", site.Database, err)
		}
	}

	if err := i.Fs.RemoveAll(site.Path); err != nil {
		return result, fmt.Errorf("removing %s: %w", site.Path, err)
	}

	if err := i.Registry.Remove(site.Name); err != nil {
		return result, err
	}
	return result, nil
}

// SiteInfo is a registered site plus what could be read from it.
type SiteInfo struct {
	registry.Site    `yaml:",inline"`
	DirExists        bool   `json:"dir_exists" yaml:"dir_exists"`
	WordPressVersion string `json:"wordpress_version,omitempty" yaml:"wordpress_version,omitempty"`
	Tables           int    `json:"tables" yaml:"tables"`
}

// Info returns the registered site with its WordPress version and table
// count. Values that cannot be read are left empty.
func (i *Installer) Info(ctx context.Context, name string) (*SiteInfo, error) {
	site, err := i.Registry.Get(name)
	if err != nil {
		return nil, err
	}
	info := &SiteInfo{Site: site}

	if ok, err := afero.DirExists(i.Fs, site.Path); err == nil && ok {
		info.DirExists = true
		if out, err := i.wp(ctx, site.Path, "core", "version"); err == nil {
			info.WordPressVersion = strings.TrimSpace(out.Stdout)
		}
	}

	if site.Database != "" {
		if n, err := i.client(site.DBHost).TableCount(ctx, site.Database); err == nil {
			info.Tables = n
		}
	}
	return info, nil
}
