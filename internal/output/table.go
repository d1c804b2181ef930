package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/wpstack/wpstack/internal/doctor"
	"github.com/wpstack/wpstack/internal/installer"
	"github.com/wpstack/wpstack/internal/registry"
)

// TableFormatter renders results as ASCII tables.
type TableFormatter struct{}

// FormatReport renders the check results, then the issues with their fixes.
func (f *TableFormatter) FormatReport(report *doctor.Report) (string, error) {
	if report == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Check", "Status", "Notes"})
	for _, row := range reportRows(report) {
		t.AppendRow(table.Row{row.Check, row.Status, row.Notes})
	}

	var sb strings.Builder
	sb.WriteString(t.Render())
	sb.WriteString("\n")
	sb.WriteString(summaryLine(report))
	sb.WriteString("\n")

	if len(report.Issues) > 0 {
		issues := table.NewWriter()
		issues.SetStyle(table.StyleRounded)
		issues.AppendHeader(table.Row{"#", "Issue", "Fix"})
		for i, issue := range report.Issues {
			issues.AppendRow(table.Row{i + 1, issue.Description, issue.Fix})
		}
		sb.WriteString("\n")
		sb.WriteString(issues.Render())
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\nEnvironment: %s\n", environmentLine(report.Environment)))
	return sb.String(), nil
}

// FormatSites renders one row per site.
func (f *TableFormatter) FormatSites(sites []registry.Site) (string, error) {
	if len(sites) == 0 {
		return "No sites registered.", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Name", "URL", "Database", "DB Host", "Path"})
	for _, s := range sites {
		t.AppendRow(table.Row{s.Name, s.URL, s.Database, s.DBHost, s.Path})
	}
	return fmt.Sprintf("%s\n%d site(s)", t.Render(), len(sites)), nil
}

// FormatSiteInfo renders a two-column property table.
func (f *TableFormatter) FormatSiteInfo(info *installer.SiteInfo) (string, error) {
	if info == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle(info.Name)
	for _, row := range siteInfoRows(info) {
		t.AppendRow(table.Row{row[0], row[1]})
	}
	return t.Render(), nil
}

func siteInfoRows(info *installer.SiteInfo) [][2]string {
	wpVersion := info.WordPressVersion
	if wpVersion == "" {
		wpVersion = "unknown"
	}
	path := info.Path
	if !info.DirExists {
		path += " (missing)"
	}
	return [][2]string{
		{"URL", info.URL},
		{"Path", path},
		{"WordPress", wpVersion},
		{"Database", info.Database},
		{"DB Host", info.DBHost},
		{"Tables", fmt.Sprintf("%d", info.Tables)},
		{"HTTPS", secureLabel(info.Secure)},
		{"Created", info.CreatedAt.Format("2006-01-02 15:04")},
	}
}
