// Package registry persists the list of sites wpstack has created as a flat
// JSON array. Every mutation rewrites the whole file.
package registry

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	errwrap "github.com/wpstack/wpstack/internal/errors"
)

// FileName is the registry file inside the data directory.
const FileName = "sites.json"

// Site is one registered WordPress installation.
type Site struct {
	Name      string    `json:"name" yaml:"name"`
	Path      string    `json:"path" yaml:"path"`
	URL       string    `json:"url" yaml:"url"`
	Database  string    `json:"database" yaml:"database"`
	DBHost    string    `json:"db_host" yaml:"db_host"`
	Secure    bool      `json:"secure" yaml:"secure"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Registry reads and writes the sites file on Fs.
type Registry struct {
	Fs   afero.Fs
	Path string

	mu sync.Mutex
}

// New returns a Registry backed by path on fs.
func New(fs afero.Fs, path string) *Registry {
	return &Registry{Fs: fs, Path: path}
}

// List returns every site sorted by name. A missing file is an empty registry.
func (r *Registry) List() ([]Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sites, err := r.read()
	if err != nil {
		return nil, err
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].Name < sites[j].Name })
	return sites, nil
}

// Get returns the site called name.
func (r *Registry) Get(name string) (Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sites, err := r.read()
	if err != nil {
		return Site{}, err
	}
	if i := indexOf(sites, name); i >= 0 {
		return sites[i], nil
	}
	return Site{}, errwrap.NewSiteNotFoundError(fmt.Sprintf("site %q is not registered", name))
}

// Add registers site. Names are unique.
func (r *Registry) Add(site Site) error {
	if strings.TrimSpace(site.Name) == "" {
		return errwrap.NewInvalidInputError("site name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sites, err := r.read()
	if err != nil {
		return err
	}
	if indexOf(sites, site.Name) >= 0 {
		return errwrap.NewSiteExistsError(fmt.Sprintf("site %q is already registered", site.Name))
	}
	if site.CreatedAt.IsZero() {
		site.CreatedAt = time.Now().UTC()
	}
	return r.write(append(sites, site))
}

// Remove unregisters the site called name.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sites, err := r.read()
	if err != nil {
		return err
	}
	i := indexOf(sites, name)
	if i < 0 {
		return errwrap.NewSiteNotFoundError(fmt.Sprintf("site %q is not registered", name))
	}
	return r.write(append(sites[:i], sites[i+1:]...))
}

func indexOf(sites []Site, name string) int {
	for i, s := range sites {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func (r *Registry) read() ([]Site, error) {
	data, err := afero.ReadFile(r.Fs, r.Path)
	if err != nil {
		exists, existsErr := afero.Exists(r.Fs, r.Path)
		if existsErr == nil && !exists {
			return []Site{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", r.Path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []Site{}, nil
	}

	var sites []Site
	if err := json.Unmarshal(data, &sites); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", r.Path, err)
	}
	return sites, nil
}

// write replaces the file through a temp file and rename so a crash never
// leaves a half-written registry behind.
func (r *Registry) write(sites []Site) error {
	if sites == nil {
		sites = []Site{}
	}
	data, err := json.MarshalIndent(sites, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sites: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(r.Path)
	if err := r.Fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(r.Fs, dir, ".sites-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = r.Fs.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := r.Fs.Rename(tmpPath, r.Path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}
