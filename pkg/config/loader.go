package config

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"auggie-mcp/pkg/logx"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads the file named by AUGGIE_MCP_CONFIG when set, otherwise the
// defaults, then applies environment overrides and validates.
func Load() (*Config, error) {
	if path := os.Getenv(ConfigEnvVar); path != "" {
		return LoadFile(path)
	}

	cfg := Default()
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFile loads configuration from a YAML (or JSON) file with ${VAR}
// substitution. Keys absent from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dataStr := envVarRegex.ReplaceAllStringFunc(string(data), func(match string) string {
		envVar := match[2 : len(match)-1]
		if value := os.Getenv(envVar); value != "" {
			return value
		}
		return match
	})

	cfg := Default()
	if err := yaml.Unmarshal([]byte(dataStr), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	logx.NewLogger("config").Info("Loaded configuration from %s", path)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	applyEnvOverridesRecursive(reflect.ValueOf(cfg).Elem(), EnvPrefix)
}

func applyEnvOverridesRecursive(v reflect.Value, prefix string) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		tag := fieldType.Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		envKey := prefix + strings.ToUpper(strings.Split(tag, ",")[0])

		if field.Kind() == reflect.Struct {
			applyEnvOverridesRecursive(field, envKey+"_")
			continue
		}

		if envValue := os.Getenv(envKey); envValue != "" {
			setFieldFromEnv(field, envKey, envValue)
		}
	}
}

func setFieldFromEnv(field reflect.Value, key, envValue string) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(envValue)
	case reflect.Int:
		val, err := strconv.Atoi(envValue)
		if err != nil {
			logx.Warnf("ignoring %s=%q: not an integer", key, envValue)
			return
		}
		field.SetInt(int64(val))
	case reflect.Bool:
		val, err := strconv.ParseBool(envValue)
		if err != nil {
			logx.Warnf("ignoring %s=%q: not a boolean", key, envValue)
			return
		}
		field.SetBool(val)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
