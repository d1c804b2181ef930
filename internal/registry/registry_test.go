package registry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errwrap "github.com/wpstack/wpstack/internal/errors"
)

const testPath = "/home/dev/.local/share/wpstack/sites.json"

func newTestRegistry(t *testing.T) (*Registry, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return New(fs, testPath), fs
}

func site(name string) Site {
	return Site{
		Name:      name,
		Path:      "/home/dev/Sites/" + name,
		URL:       "https://" + name + ".test",
		Database:  "wp_" + name,
		DBHost:    "127.0.0.1",
		Secure:    true,
		CreatedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestListMissingFileIsEmpty(t *testing.T) {
	reg, _ := newTestRegistry(t)

	sites, err := reg.List()
	require.NoError(t, err)
	assert.Empty(t, sites)
}

func TestAddGetList(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.Add(site("zeta")))
	require.NoError(t, reg.Add(site("alpha")))

	got, err := reg.Get("zeta")
	require.NoError(t, err)
	assert.Equal(t, site("zeta"), got)

	sites, err := reg.List()
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "alpha", sites[0].Name)
	assert.Equal(t, "zeta", sites[1].Name)
}

func TestAddRejectsDuplicateAndEmptyName(t *testing.T) {
	reg, _ := newTestRegistry(t)
	require.NoError(t, reg.Add(site("blog")))

	err := reg.Add(site("blog"))
	require.Error(t, err)
	assert.True(t, errwrap.HasCode(err, errwrap.CodeSiteExists))

	err = reg.Add(Site{Name: "  "})
	require.Error(t, err)
	assert.True(t, errwrap.HasCode(err, errwrap.CodeInvalidInput))
}

func TestAddStampsCreatedAt(t *testing.T) {
	reg, _ := newTestRegistry(t)
	require.NoError(t, reg.Add(Site{Name: "fresh"}))

	got, err := reg.Get("fresh")
	require.NoError(t, err)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRemove(t *testing.T) {
	reg, _ := newTestRegistry(t)
	require.NoError(t, reg.Add(site("one")))
	require.NoError(t, reg.Add(site("two")))

	require.NoError(t, reg.Remove("one"))

	_, err := reg.Get("one")
	assert.True(t, errwrap.HasCode(err, errwrap.CodeSiteNotFound))

	err = reg.Remove("one")
	assert.True(t, errwrap.HasCode(err, errwrap.CodeSiteNotFound))

	sites, err := reg.List()
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "two", sites[0].Name)
}

func TestFileIsFlatJSONArray(t *testing.T) {
	reg, fs := newTestRegistry(t)
	require.NoError(t, reg.Add(site("shop")))

	data, err := afero.ReadFile(fs, testPath)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "shop", raw[0]["name"])
	assert.Equal(t, "wp_shop", raw[0]["database"])
	assert.Equal(t, "127.0.0.1", raw[0]["db_host"])

	require.NoError(t, reg.Remove("shop"))
	data, err = afero.ReadFile(fs, testPath)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestCorruptFileIsAnError(t *testing.T) {
	reg, fs := newTestRegistry(t)
	require.NoError(t, afero.WriteFile(fs, testPath, []byte("{not json"), 0o644))

	_, err := reg.List()
	require.Error(t, err)
	assert.Contains(t, err.Error(), testPath)

	err = reg.Add(site("x"))
	require.Error(t, err)
}

func TestWriteFailureLeavesNoTempFiles(t *testing.T) {
	base := afero.NewMemMapFs()
	reg := New(afero.NewReadOnlyFs(base), testPath)

	err := reg.Add(site("ro"))
	require.Error(t, err)

	entries, _ := afero.Glob(base, "/home/dev/.local/share/wpstack/.sites-*")
	assert.Empty(t, entries)
}
