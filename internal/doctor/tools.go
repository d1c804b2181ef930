package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/wpstack/wpstack/internal/parse"
	"github.com/wpstack/wpstack/internal/shell"
)

func (e *Engine) checkWPCLI(ctx context.Context) (ToolResult, issueLog) {
	var log issueLog
	path := e.opts.WPCLIPath
	res := ToolResult{Path: path}

	exists, err := afero.Exists(e.opts.Fs, path)
	if err != nil || !exists {
		res.Error = ErrNotFound
		log.add(fmt.Sprintf("WP-CLI not found at %s", path),
			"Install WP-CLI (https://wp-cli.org/#installing) or set wpcli.path")
		return res, log
	}

	out, err := e.opts.Runner.Run(ctx, path, []string{"--version"}, shell.Options{})
	if err != nil {
		res.Error = ErrNotAccessible
		log.add(fmt.Sprintf("WP-CLI at %s is not accessible", path),
			fmt.Sprintf("Make sure it is executable: chmod +x %s", path))
		return res, log
	}

	res.OK = true
	if v, ok := parse.ParseVersion(out.Stdout); ok {
		res.Version = v.String()
	}
	return res, log
}

func (e *Engine) checkPHP(ctx context.Context) (RuntimeResult, issueLog) {
	var log issueLog
	res := RuntimeResult{MinVersion: e.opts.PHPMinVersion}

	out, err := e.opts.Runner.Run(ctx, e.opts.PHPBinary, []string{"-v"}, shell.Options{})
	if err != nil {
		res.Error = ErrNotInstalled
		log.add("PHP not installed",
			fmt.Sprintf("Install PHP %s or newer and make sure %q is on PATH", e.opts.PHPMinVersion, e.opts.PHPBinary))
		return res, log
	}
	res.OK = true

	if v, ok := parse.ParseVersion(out.Stdout); ok {
		res.Version = v.String()
		if minimum, err := parse.ParseMinimum(e.opts.PHPMinVersion); err == nil && !v.AtLeast(minimum) {
			res.Outdated = true
			log.add(fmt.Sprintf("PHP %s is outdated (minimum %s)", res.Version, e.opts.PHPMinVersion),
				fmt.Sprintf("Upgrade PHP to %s or newer", e.opts.PHPMinVersion))
		}
	}

	if len(e.opts.PHPExtensions) == 0 {
		return res, log
	}

	modules, err := e.opts.Runner.Run(ctx, e.opts.PHPBinary, []string{"-m"}, shell.Options{})
	if err != nil {
		log.add("Could not list PHP extensions", fmt.Sprintf("Run %s -m to inspect the installation", e.opts.PHPBinary))
		return res, log
	}

	if missing := parse.MissingExtensions(modules.Stdout, e.opts.PHPExtensions); len(missing) > 0 {
		res.MissingExtensions = missing
		log.add(fmt.Sprintf("Missing PHP extensions: %s", strings.Join(missing, ", ")),
			"Install or enable the missing extensions in php.ini")
	}
	return res, log
}

func (e *Engine) checkHerd(ctx context.Context) OptionalResult {
	out, err := e.opts.Runner.Run(ctx, e.opts.HerdBinary, []string{"--version"}, shell.Options{})
	if err != nil {
		return OptionalResult{}
	}

	res := OptionalResult{Installed: true}
	if v, ok := parse.ParseVersion(out.Stdout); ok {
		res.Version = v.String()
	}
	return res
}
