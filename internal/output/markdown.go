package output

import (
	"fmt"
	"strings"

	"github.com/wpstack/wpstack/internal/doctor"
	"github.com/wpstack/wpstack/internal/installer"
	"github.com/wpstack/wpstack/internal/registry"
)

// MarkdownFormatter renders results as markdown tables.
type MarkdownFormatter struct{}

// FormatReport renders a doctor report as Markdown.
func (f *MarkdownFormatter) FormatReport(report *doctor.Report) (string, error) {
	if report == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("## wpstack doctor\n\n")
	sb.WriteString("| Check | Status | Notes |\n")
	sb.WriteString("|-------|--------|-------|\n")
	for _, row := range reportRows(report) {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			escapeMarkdownCell(row.Check),
			escapeMarkdownCell(row.Status),
			escapeMarkdownCell(row.Notes),
		))
	}

	if len(report.Issues) > 0 {
		sb.WriteString("\n### Issues\n\n")
		for _, issue := range report.Issues {
			sb.WriteString("- " + issue.Description)
			if issue.HasFix() {
				sb.WriteString(" (fix: " + issue.Fix + ")")
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\n**Summary**: %s\n", summaryLine(report)))
	return sb.String(), nil
}

// FormatSites renders the site list as a Markdown table.
func (f *MarkdownFormatter) FormatSites(sites []registry.Site) (string, error) {
	var sb strings.Builder
	sb.WriteString("| Name | URL | Database | DB Host |\n")
	sb.WriteString("|------|-----|----------|---------|\n")
	for _, s := range sites {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escapeMarkdownCell(s.Name),
			escapeMarkdownCell(s.URL),
			escapeMarkdownCell(s.Database),
			escapeMarkdownCell(s.DBHost),
		))
	}
	return sb.String(), nil
}

// FormatSiteInfo renders one site as a Markdown property list.
func (f *MarkdownFormatter) FormatSiteInfo(info *installer.SiteInfo) (string, error) {
	if info == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdownCell(info.Name)))
	for _, row := range siteInfoRows(info) {
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", row[0], row[1]))
	}
	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
