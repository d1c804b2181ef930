package doctor

import (
	"context"
	"fmt"
)

func (e *Engine) checkConfig(_ context.Context) (ConfigResult, issueLog) {
	var log issueLog
	res := ConfigResult{Path: e.opts.SettingsPath}

	if e.opts.Settings == nil {
		res.OK = true
		return res, log
	}

	settings, err := e.opts.Settings.Load()
	if err != nil {
		res.Error = err.Error()
		fix := "Fix the syntax or remove the config file"
		if e.opts.SettingsPath != "" {
			fix = fmt.Sprintf("Fix the syntax or remove %s", e.opts.SettingsPath)
		}
		log.add("Config file error: "+err.Error(), fix)
		return res, log
	}

	res.OK = true
	res.Configured = len(settings) > 0
	return res, log
}
