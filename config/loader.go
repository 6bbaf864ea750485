package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/tabby/heuristic"
)

// EnvPrefix marks environment overrides: TABBY_DETECTOR_MIN_LINES=3 sets
// detector.min_lines
const EnvPrefix = "TABBY_"

// Load builds settings from the defaults, then the YAML file at path if
// path is not empty, then TABBY_ environment variables. The result is
// validated.
func Load(_ context.Context, path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		var m map[string]any
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if err := k.Load(rawMap(m), nil); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return transformEnvKey(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var s Settings
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &s,
			TagName:          "koanf",
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&s); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &s, nil
}

var validate = validator.New()

// Validate checks field ranges and that every chunk order name is a
// registered heuristic
func Validate(s *Settings) error {
	if s == nil {
		return errors.New("configuration cannot be nil")
	}
	if err := validate.Struct(s); err != nil {
		return err
	}
	known := heuristic.List()
	for _, name := range s.Chunk.Order {
		if !slices.Contains(known, name) {
			return fmt.Errorf("chunk.order %q: %w", name, heuristic.ErrUnknownHeuristic)
		}
	}
	return nil
}

// transformEnvKey converts DETECTOR_MIN_LINES to detector.min_lines
func transformEnvKey(s string) string {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '_'
	})
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return parts[0] + "." + strings.Join(parts[1:], "_")
}

// rawMap adapts parsed YAML to a koanf provider
type rawMap map[string]any

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, errors.New("ReadBytes not implemented")
}
