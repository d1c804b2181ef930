package output

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wpstack/wpstack/internal/doctor"
	"github.com/wpstack/wpstack/internal/installer"
	"github.com/wpstack/wpstack/internal/registry"
)

// YAMLFormatter renders results as YAML.
type YAMLFormatter struct{}

// FormatReport renders a doctor report as YAML.
func (f *YAMLFormatter) FormatReport(report *doctor.Report) (string, error) {
	if report == nil {
		return "", nil
	}
	return marshalYAML(report)
}

// FormatSites renders the site list as a YAML sequence.
func (f *YAMLFormatter) FormatSites(sites []registry.Site) (string, error) {
	if sites == nil {
		sites = []registry.Site{}
	}
	return marshalYAML(sites)
}

// FormatSiteInfo renders one site as YAML.
func (f *YAMLFormatter) FormatSiteInfo(info *installer.SiteInfo) (string, error) {
	if info == nil {
		return "", nil
	}
	return marshalYAML(info)
}

func marshalYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}
