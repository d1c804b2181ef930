package output

import (
	"fmt"
	"strings"

	"github.com/wpstack/wpstack/internal/doctor"
)

// Status labels shown in report tables.
const (
	statusOK      = "ok"
	statusWarn    = "warn"
	statusFail    = "fail"
	statusMissing = "not installed"
)

type checkRow struct {
	Check  string
	Status string
	Notes  string
}

func reportRows(report *doctor.Report) []checkRow {
	return []checkRow{
		wpcliRow(report.WPCLI),
		phpRow(report.PHP),
		mysqlRow(report.MySQL),
		herdRow(report.Herd),
		permissionsRow(report.Permissions),
		configRow(report.Config),
	}
}

func wpcliRow(r doctor.ToolResult) checkRow {
	row := checkRow{Check: "WP-CLI", Status: statusOK}
	if !r.OK {
		row.Status = statusFail
		row.Notes = fmt.Sprintf("%s (%s)", r.Error, r.Path)
		return row
	}
	row.Notes = joinNotes(versionNote(r.Version), r.Path)
	return row
}

func phpRow(r doctor.RuntimeResult) checkRow {
	row := checkRow{Check: "PHP", Status: statusOK}
	if !r.OK {
		row.Status = statusFail
		row.Notes = r.Error
		return row
	}

	notes := []string{versionNote(r.Version)}
	if r.Outdated {
		row.Status = statusWarn
		notes = append(notes, "outdated, minimum "+r.MinVersion)
	}
	if len(r.MissingExtensions) > 0 {
		row.Status = statusWarn
		notes = append(notes, "missing: "+strings.Join(r.MissingExtensions, ", "))
	}
	row.Notes = joinNotes(notes...)
	return row
}

func mysqlRow(r doctor.ConnectivityResult) checkRow {
	row := checkRow{Check: "MySQL", Status: statusOK}
	if !r.OK {
		row.Status = statusFail
		row.Notes = joinNotes(r.Error, userNote(r.User))
		return row
	}
	row.Notes = joinNotes(r.Connection, userNote(r.User), clientNote(r.ClientVersion))
	return row
}

func herdRow(r doctor.OptionalResult) checkRow {
	if !r.Installed {
		return checkRow{Check: "Herd", Status: statusMissing, Notes: "optional"}
	}
	return checkRow{Check: "Herd", Status: statusOK, Notes: versionNote(r.Version)}
}

func permissionsRow(r doctor.PermissionResult) checkRow {
	if !r.OK {
		return checkRow{Check: "Permissions", Status: statusFail, Notes: "not writable: " + strings.Join(r.FailedDirs, ", ")}
	}
	return checkRow{Check: "Permissions", Status: statusOK, Notes: strings.Join(r.CheckedDirs, ", ")}
}

func configRow(r doctor.ConfigResult) checkRow {
	switch {
	case !r.OK:
		return checkRow{Check: "Config", Status: statusFail, Notes: r.Error}
	case r.Configured:
		return checkRow{Check: "Config", Status: statusOK, Notes: r.Path}
	default:
		return checkRow{Check: "Config", Status: statusOK, Notes: "defaults (no settings saved)"}
	}
}

func environmentLine(env doctor.Environment) string {
	parts := []string{env.OS + "/" + env.Arch}
	if env.Kernel != "" {
		parts = append(parts, "kernel "+env.Kernel)
	}
	if env.Shell != "" {
		parts = append(parts, "shell "+env.Shell)
	}
	if env.Runtime != "" {
		parts = append(parts, env.Runtime)
	}
	return strings.Join(parts, ", ")
}

func summaryLine(report *doctor.Report) string {
	switch {
	case report.Failed():
		return fmt.Sprintf("%d issue(s) found; some required checks failed", len(report.Issues))
	case len(report.Issues) > 0:
		return fmt.Sprintf("%d warning(s); environment is usable", len(report.Issues))
	default:
		return "All checks passed"
	}
}

func versionNote(version string) string {
	if version == "" {
		return "version unknown"
	}
	return "v" + version
}

func userNote(user string) string {
	if user == "" {
		return ""
	}
	return "user " + user
}

func clientNote(version string) string {
	if version == "" {
		return ""
	}
	return "client " + version
}

func joinNotes(notes ...string) string {
	kept := make([]string, 0, len(notes))
	for _, n := range notes {
		if strings.TrimSpace(n) != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, "; ")
}

func secureLabel(secure bool) string {
	if secure {
		return "yes"
	}
	return "no"
}
