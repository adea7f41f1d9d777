package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cbroglie/mustache"
	"gopkg.in/yaml.v3"
)

// DefaultNameTemplate names export files. {{stamp}} is the export instant
// as 2006-01-02-15-04-05 in UTC.
const DefaultNameTemplate = "scanland-export-{{stamp}}.json"

const stampLayout = "2006-01-02-15-04-05"

// Encode serializes doc with two-space indentation.
func Encode(doc *Document, f Format) ([]byte, error) {
	if f == FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return append(data, '\n'), nil
}

// FileName renders the export file name template for an export taken at.
// The extension is adjusted to match f.
func FileName(tmpl string, at time.Time, f Format) (string, error) {
	if tmpl == "" {
		tmpl = DefaultNameTemplate
	}
	utc := at.UTC()
	name, err := mustache.Render(tmpl, map[string]any{
		"stamp":  utc.Format(stampLayout),
		"date":   utc.Format("2006-01-02"),
		"format": f.String(),
	})
	if err != nil {
		return "", fmt.Errorf("rendering export file name: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("export file name template %q rendered empty", tmpl)
	}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		if strings.HasSuffix(name, ext) {
			name = strings.TrimSuffix(name, ext)
			break
		}
	}
	return name + f.Ext(), nil
}
