package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dirs holds absolute directories for every data role.
type Dirs struct {
	Acts     string
	ActsHTML string
	ActsXML  string
	SI       string
	SIHTML   string
	SIXML    string
}

// Resolve joins roles to data directory and creates directories which do not
// exist yet.
func (conf *PathsConfig) Resolve() (*Dirs, error) {
	root, err := filepath.Abs(conf.DataDir)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve data directory: %w", err)
	}
	join := func(role string) string {
		if filepath.IsAbs(role) {
			return filepath.Clean(role)
		}
		return filepath.Join(root, role)
	}
	d := &Dirs{
		Acts:     join(conf.Acts),
		ActsHTML: join(conf.ActsHTML),
		ActsXML:  join(conf.ActsXML),
		SI:       join(conf.SI),
		SIHTML:   join(conf.SIHTML),
		SIXML:    join(conf.SIXML),
	}
	for _, dir := range d.all() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("unable to create directory %s: %w", dir, err)
		}
	}
	return d, nil
}

func (d *Dirs) all() []string {
	return []string{d.Acts, d.ActsHTML, d.ActsXML, d.SI, d.SIHTML, d.SIXML}
}

// Input returns directory holding source HTML for documents of kind.
func (d *Dirs) Input(k Kind) string {
	if k == KindSI {
		return d.SIHTML
	}
	return d.ActsHTML
}

// Output returns directory receiving XML for documents of kind.
func (d *Dirs) Output(k Kind) string {
	if k == KindSI {
		return d.SIXML
	}
	return d.ActsXML
}
