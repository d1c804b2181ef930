package doctor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

const markerName = ".wpstack-write-test"

func (e *Engine) checkPermissions(_ context.Context) (PermissionResult, issueLog) {
	var log issueLog
	res := PermissionResult{}

	dirs := []string{e.opts.WorkDir}
	if e.opts.SitesDir != "" && filepath.Clean(e.opts.SitesDir) != filepath.Clean(e.opts.WorkDir) {
		if ok, err := afero.DirExists(e.opts.Fs, e.opts.SitesDir); err == nil && ok {
			dirs = append(dirs, e.opts.SitesDir)
		}
	}

	for _, dir := range dirs {
		res.CheckedDirs = append(res.CheckedDirs, dir)
		if err := e.writeMarker(dir); err != nil {
			res.FailedDirs = append(res.FailedDirs, dir)
			log.add(fmt.Sprintf("Cannot write to %s", dir),
				fmt.Sprintf("Check the directory permissions: ls -ld %s", dir))
		}
	}

	res.OK = len(res.FailedDirs) == 0
	return res, log
}

func (e *Engine) writeMarker(dir string) error {
	marker := filepath.Join(dir, markerName)
	if err := afero.WriteFile(e.opts.Fs, marker, []byte("ok"), 0o644); err != nil {
		return err
	}
	return e.opts.Fs.Remove(marker)
}
