package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// PathsConfig describes directory layout of legislation data. Roles are
	// relative to DataDir unless absolute.
	PathsConfig struct {
		DataDir  string `yaml:"data_dir" sanitize:"path_clean" validate:"required"`
		Acts     string `yaml:"acts" sanitize:"path_clean" validate:"required"`
		ActsHTML string `yaml:"acts_html" sanitize:"path_clean" validate:"required"`
		ActsXML  string `yaml:"acts_xml" sanitize:"path_clean" validate:"required"`
		SI       string `yaml:"si" sanitize:"path_clean" validate:"required"`
		SIHTML   string `yaml:"si_html" sanitize:"path_clean" validate:"required"`
		SIXML    string `yaml:"si_xml" sanitize:"path_clean" validate:"required"`
	}

	DocumentConfig struct {
		// Skip lists documents known to defeat parsing, by identifier.
		Skip          []string `yaml:"skip" validate:"dive,required"`
		PatchesPath   string   `yaml:"patches_path" sanitize:"assure_file_access"`
		InputCharset  string   `yaml:"input_charset"`
		PreviewLength int      `yaml:"preview_length" validate:"min=80"`
		Indent        int      `yaml:"indent" validate:"gte=0,lte=8"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Paths     PathsConfig    `yaml:"paths"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
