package glint

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// manifest is the document an editor reads to build property panels and
// signal lists without running the script.
type manifest struct {
	File        string             `yaml:"file,omitempty"`
	Properties  []PropertyMetadata `yaml:"properties"`
	Signals     []SignalInfo       `yaml:"signals"`
	EntryPoints []EntryPoint       `yaml:"entry_points"`
}

// Manifest renders the program's exported properties, signals and entry
// points as YAML.
func (p *Program) Manifest() ([]byte, error) {
	m := manifest{
		File:        p.file,
		Properties:  p.Properties(),
		Signals:     p.Signals(),
		EntryPoints: p.EntryPoints(),
	}
	for i := range m.Signals {
		if m.Signals[i].Params == nil {
			m.Signals[i].Params = []SignalParam{}
		}
	}
	out, err := yaml.Marshal(&m)
	if err != nil {
		return nil, fmt.Errorf("glint: manifest: %w", err)
	}
	return out, nil
}

// ParseManifest reads a document produced by Manifest.
func ParseManifest(data []byte) (properties []PropertyMetadata, signals []SignalInfo, err error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, nil, fmt.Errorf("glint: manifest: %w", err)
	}
	return m.Properties, m.Signals, nil
}
