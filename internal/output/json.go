package output

import (
	"encoding/json"

	"github.com/wpstack/wpstack/internal/doctor"
	"github.com/wpstack/wpstack/internal/installer"
	"github.com/wpstack/wpstack/internal/registry"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatReport renders a doctor report as JSON.
func (f *JSONFormatter) FormatReport(report *doctor.Report) (string, error) {
	if report == nil {
		return "", nil
	}
	return f.marshal(report)
}

// FormatSites renders the site list as a JSON array.
func (f *JSONFormatter) FormatSites(sites []registry.Site) (string, error) {
	if sites == nil {
		sites = []registry.Site{}
	}
	return f.marshal(sites)
}

// FormatSiteInfo renders one site as JSON.
func (f *JSONFormatter) FormatSiteInfo(info *installer.SiteInfo) (string, error) {
	if info == nil {
		return "", nil
	}
	return f.marshal(info)
}

func (f *JSONFormatter) marshal(v any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
