// ABOUTME: Export and import functionality for stored samples.
// ABOUTME: Supports JSON (round-trippable) and YAML (grouped by metric type) formats.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/vitals/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for stored samples.
type ExportData struct {
	Version    string           `json:"version" yaml:"version"`
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	Tool       string           `json:"tool" yaml:"tool"`
	Samples    []*models.Sample `json:"samples" yaml:"samples"`
}

// Export retrieves every sample in s.
func Export(ctx context.Context, s Store) (*ExportData, error) {
	samples, err := s.ListSamples(ctx, SampleFilter{})
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
		Tool:       "vitals",
		Samples:    samples,
	}, nil
}

// Import writes data's samples into s, authorizing their types first.
func Import(ctx context.Context, s Store, data *ExportData) error {
	if len(data.Samples) == 0 {
		return nil
	}
	if err := s.RequestAuthorization(ctx, sampleTypes(data.Samples)); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if err := s.SaveSamples(ctx, data.Samples); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}

// JSON renders the export as indented JSON.
func (e *ExportData) JSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// ParseJSON decodes a JSON export.
func ParseJSON(data []byte) (*ExportData, error) {
	var e ExportData
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	return &e, nil
}

// yamlSample is the compact per-sample shape used in YAML exports.
type yamlSample struct {
	ID         string  `yaml:"id"`
	Value      float64 `yaml:"value"`
	Unit       string  `yaml:"unit"`
	RecordedAt string  `yaml:"recorded_at"`
	Source     string  `yaml:"source,omitempty"`
	Batch      string  `yaml:"batch,omitempty"`
}

// YAML renders the export with samples grouped by metric type.
func (e *ExportData) YAML() ([]byte, error) {
	out := struct {
		Version    string                  `yaml:"version"`
		ExportedAt string                  `yaml:"exported_at"`
		Tool       string                  `yaml:"tool"`
		Samples    map[string][]yamlSample `yaml:"samples"`
	}{
		Version:    e.Version,
		ExportedAt: e.ExportedAt.Format(time.RFC3339),
		Tool:       e.Tool,
		Samples:    make(map[string][]yamlSample),
	}

	for _, s := range e.Samples {
		mt := string(s.MetricType)
		out.Samples[mt] = append(out.Samples[mt], yamlSample{
			ID:         s.ID.String()[:8],
			Value:      s.Value,
			Unit:       s.Unit,
			RecordedAt: s.RecordedAt.Format(time.RFC3339),
			Source:     s.Source,
			Batch:      s.Batch,
		})
	}

	return yaml.Marshal(out)
}

// sampleTypes returns the distinct metric types in samples, sorted.
func sampleTypes(samples []*models.Sample) []models.MetricType {
	seen := make(map[models.MetricType]bool)
	var types []models.MetricType
	for _, s := range samples {
		if !seen[s.MetricType] {
			seen[s.MetricType] = true
			types = append(types, s.MetricType)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
