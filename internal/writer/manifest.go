package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the manifest's file name inside the output directory.
const ManifestFile = "manifest.yaml"

// ManifestVersion is bumped when the manifest layout changes.
const ManifestVersion = 1

// Manifest describes a generated output directory.
type Manifest struct {
	Version   int                `yaml:"version"`
	Dialect   string             `yaml:"dialect"`
	Strategy  string             `yaml:"strategy"`
	Batch     map[string]string  `yaml:"batch"`
	Order     []string           `yaml:"order"`
	Batches   [][]string         `yaml:"batches"`
	Artifacts []ManifestArtifact `yaml:"artifacts"`
}

// ManifestArtifact is one generated file.
type ManifestArtifact struct {
	Name      string   `yaml:"name"`
	File      string   `yaml:"file"`
	Kind      string   `yaml:"kind"`
	Unit      string   `yaml:"unit,omitempty"`
	DependsOn []string `yaml:"depends_on,omitempty"`
	Hash      string   `yaml:"hash"`
	Args      []string `yaml:"args,omitempty"`
}

// Hashes returns artifact name to content hash.
func (m *Manifest) Hashes() map[string]string {
	out := make(map[string]string, len(m.Artifacts))
	for _, a := range m.Artifacts {
		out[a.Name] = a.Hash
	}
	return out
}

// ReadManifest loads the manifest of an output directory.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile)) //nolint:gosec // dir is the configured output directory
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ManifestFile, err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	return &m, nil
}

func encodeManifest(m *Manifest) ([]byte, error) {
	out, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return out, nil
}

// FormatArg renders a bind argument for the manifest.
func FormatArg(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
