// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the rule file that tells todolint which directories to
// scan and which language each of them holds.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// EnvEditorURL overrides parameters.editor_url when set.
const EnvEditorURL = "TODOLINT_EDITOR_URL"

var (
	// ErrUnknownFormat is returned for config files that are neither TOML nor YAML.
	ErrUnknownFormat = errors.New("unknown config format")
	// ErrInvalid is returned when a config file does not match the schema.
	ErrInvalid = errors.New("invalid config")
)

// Config is a loaded rule file.
type Config struct {
	Rules      []Rule     `toml:"rules" yaml:"rules"`
	Parameters Parameters `toml:"parameters" yaml:"parameters"`

	// Dir is the directory holding the config file. Rule paths and report
	// paths are relative to it.
	Dir string `toml:"-" yaml:"-"`
}

// Rule binds a set of directories to one language.
type Rule struct {
	Paths    []string `toml:"paths" yaml:"paths"`
	Language string   `toml:"language" yaml:"language"`
	// FileExtensions overrides the language's default extensions (no leading dot).
	FileExtensions []string `toml:"file_extensions" yaml:"file_extensions"`
	// ExcludeDirs overrides scanner.DefaultExcludeDirs when set.
	ExcludeDirs []string `toml:"exclude_dirs" yaml:"exclude_dirs"`
}

// Parameters holds settings that apply to the whole run.
type Parameters struct {
	// EditorURL is a link template with %%file%% and %%line%% placeholders.
	EditorURL string `toml:"editor_url" yaml:"editor_url"`
}

type format int

const (
	formatTOML format = iota
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s (want .toml, .yaml or .yml)", ErrUnknownFormat, path)
	}
}

// Load reads, validates and decodes the config file at path.
func Load(path string) (*Config, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := parse(f, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	cfg.Dir = filepath.Dir(abs)

	if v, ok := os.LookupEnv(EnvEditorURL); ok {
		cfg.Parameters.EditorURL = v
	}
	return cfg, nil
}

func parse(f format, data []byte) (*Config, error) {
	var doc map[string]any
	if err := unmarshal(f, data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	var cfg Config
	if err := unmarshal(f, data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func unmarshal(f format, data []byte, v any) error {
	if f == formatYAML {
		return yaml.Unmarshal(data, v)
	}
	return toml.Unmarshal(data, v)
}

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/bartekus/todolint/config.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// validate checks a decoded document against the embedded schema. The
// document is round-tripped through JSON so TOML and YAML values reach the
// validator as plain JSON types.
func validate(doc map[string]any) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := schema.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%w: %s", ErrInvalid, describe(ve))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// describe flattens a validation error tree into "location: message" pairs.
func describe(ve *jsonschema.ValidationError) string {
	var msgs []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, fmt.Sprintf("%s: %s", loc, e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return strings.Join(msgs, "; ")
}
