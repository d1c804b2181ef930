package cmd

import (
	"github.com/spf13/afero"

	"github.com/wpstack/wpstack/internal/config"
	"github.com/wpstack/wpstack/internal/doctor"
	"github.com/wpstack/wpstack/internal/installer"
	"github.com/wpstack/wpstack/internal/mysql"
	"github.com/wpstack/wpstack/internal/registry"
	"github.com/wpstack/wpstack/internal/shell"
)

// services wires the collaborators every command shares. One prober (and so
// one connection cache) serves the whole process.
type services struct {
	cfg      *config.Config
	fs       afero.Fs
	runner   shell.Runner
	prober   *mysql.Prober
	settings *config.SettingsStore
	registry *registry.Registry
}

func newServices(cfg *config.Config, cfgPath string, fs afero.Fs, runner shell.Runner) *services {
	prober := mysql.NewProber(runner, fs)
	prober.Binary = cfg.MySQL.Binary
	prober.Password = cfg.MySQL.Password
	if len(cfg.MySQL.Hosts) > 0 {
		prober.Hosts = cfg.MySQL.Hosts
	}
	if len(cfg.MySQL.Sockets) > 0 {
		prober.Sockets = cfg.MySQL.Sockets
	}

	svc := &services{
		cfg:      cfg,
		fs:       fs,
		runner:   runner,
		prober:   prober,
		registry: registry.New(fs, config.DefaultRegistryPath()),
	}
	if cfgPath != "" {
		svc.settings = &config.SettingsStore{Fs: fs, Path: cfgPath}
	}
	return svc
}

func defaultServices() *services {
	return newServices(appConfig, appConfigPath, afero.NewOsFs(), shell.NewExecRunner())
}

func (s *services) doctor() *doctor.Engine {
	opts := doctor.Options{
		Runner:        s.runner,
		Fs:            s.fs,
		Prober:        s.prober,
		WPCLIPath:     s.cfg.WPCLI.Path,
		PHPBinary:     s.cfg.PHP.Binary,
		PHPMinVersion: s.cfg.PHP.MinVersion,
		PHPExtensions: s.cfg.PHP.Extensions,
		MySQLBinary:   s.cfg.MySQL.Binary,
		MySQLUser:     s.cfg.MySQL.User,
		HerdBinary:    s.cfg.Herd.Binary,
		SitesDir:      s.cfg.Sites.Dir,
	}
	if s.settings != nil {
		opts.Settings = s.settings
		opts.SettingsPath = s.settings.Path
	}
	return doctor.New(opts)
}

func (s *services) installer() *installer.Installer {
	return &installer.Installer{
		Runner:        s.runner,
		Fs:            s.fs,
		Prober:        s.prober,
		Registry:      s.registry,
		WPCLI:         s.cfg.WPCLI.Path,
		MySQLBinary:   s.cfg.MySQL.Binary,
		MySQLUser:     s.cfg.MySQL.User,
		MySQLPassword: s.cfg.MySQL.Password,
		HerdBinary:    s.cfg.Herd.Binary,
		Herd:          s.cfg.Herd.Enabled,
		TLD:           s.cfg.Herd.TLD,
		SitesDir:      s.cfg.Sites.Dir,
	}
}
