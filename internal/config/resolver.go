// Package config resolves memovault configuration from its three
// sources — YAML config file, environment, CLI flags — with later
// sources winning. Every resolved value records where it came from so
// `memovault config` can explain itself.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

type ResolveOptions struct {
	ConfigPath string
	CLILLM     string
	CLIDBPath  string
}

type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	DBPath         ResolvedValue `json:"db_path"`
	LLMModel       ResolvedValue `json:"llm_model"`
	TitleCacheSize ResolvedValue `json:"title_cache_size"`

	LLMKeys map[string]ResolvedValue `json:"llm_keys,omitempty"`
}

type fileConfig struct {
	DBPath string `yaml:"db_path"`
	LLM    struct {
		Model  string `yaml:"model"`
		APIKey string `yaml:"api_key"`
	} `yaml:"llm"`
	Title struct {
		CacheSize int `yaml:"cache_size"`
	} `yaml:"title"`
}

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".memovault", "config.yaml")
}

func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{
		ConfigPath: path,
		LLMKeys:    map[string]ResolvedValue{},
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}

	if cfg != nil {
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
		apply(&out.LLMModel, cfg.LLM.Model, SourceConfig, path)
		if cfg.Title.CacheSize > 0 {
			out.TitleCacheSize = ResolvedValue{Value: strconv.Itoa(cfg.Title.CacheSize), Source: SourceConfig, From: path}
		}
		if key := strings.TrimSpace(cfg.LLM.APIKey); key != "" {
			provider := providerOf(cfg.LLM.Model)
			if provider == "" {
				provider = "default"
			}
			out.LLMKeys[provider] = ResolvedValue{Value: key, Source: SourceConfig, From: path}
		}
	}

	applyEnv(&out.DBPath, "MEMOVAULT_DB")
	applyEnv(&out.LLMModel, "MEMOVAULT_LLM")
	applyEnv(&out.TitleCacheSize, "MEMOVAULT_TITLE_CACHE")

	for env, provider := range map[string]string{
		"OPENROUTER_API_KEY": "openrouter",
		"GEMINI_API_KEY":     "google",
		"GOOGLE_API_KEY":     "google",
	} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			out.LLMKeys[provider] = ResolvedValue{Value: v, Source: SourceEnv, From: env}
		}
	}

	apply(&out.LLMModel, opts.CLILLM, SourceCLI, "--llm")
	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")

	if out.DBPath.Value != "" {
		out.DBPath.Value = expandUserPath(out.DBPath.Value)
	}

	return out, nil
}

// APIKeyForProvider returns the key resolved for a provider or model
// string ("google" or "google/gemini-2.5-flash").
func (r ResolvedConfig) APIKeyForProvider(providerOrModel string) ResolvedValue {
	provider := providerOf(providerOrModel)
	if provider == "" {
		return ResolvedValue{}
	}
	if v, ok := r.LLMKeys[provider]; ok && strings.TrimSpace(v.Value) != "" {
		return v
	}
	if v, ok := r.LLMKeys["default"]; ok && strings.TrimSpace(v.Value) != "" {
		return v
	}
	return ResolvedValue{}
}

// CacheSize returns the resolved title cache size, or fallback when
// unset or unparsable.
func (r ResolvedConfig) CacheSize(fallback int) int {
	v := strings.TrimSpace(r.TitleCacheSize.Value)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func providerOf(providerOrModel string) string {
	v := strings.ToLower(strings.TrimSpace(providerOrModel))
	if v == "" {
		return ""
	}
	if idx := strings.Index(v, "/"); idx > 0 {
		return v[:idx]
	}
	return v
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
