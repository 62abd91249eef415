package shell

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pyritelang/pyrite/pkg/mods"
)

// Config is the host configuration, normally read from a YAML file.
//
//	scripts:            # script search path, in order
//	  - ./scripts
//	modules: [math, time, json, base64, re, store]
//	store: ~/.local/state/pyrite/store.db
//	limits:
//	  depth: 200
//	  steps: 10000000
//	repl:
//	  prompt: ">>> "
type Config struct {
	Scripts []string `yaml:"scripts"`
	// Modules enabled for install_. Nil means all bundled modules.
	Modules []string `yaml:"modules"`
	Store   string   `yaml:"store"`
	Limits  struct {
		Depth int   `yaml:"depth"`
		Steps int64 `yaml:"steps"`
	} `yaml:"limits"`
	REPL struct {
		Prompt string `yaml:"prompt"`
	} `yaml:"repl"`
}

// DefaultConfigPath returns the path consulted when no --config flag is
// given, conventionally $XDG_CONFIG_HOME/pyrite/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pyrite", "config.yaml"), nil
}

// LoadConfig reads and validates a YAML configuration file. Unknown fields
// are rejected. Paths starting with ~/ are expanded against the user's home
// directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for i, dir := range cfg.Scripts {
		cfg.Scripts[i] = expandTilde(dir)
	}
	cfg.Store = expandTilde(cfg.Store)
	return &cfg, nil
}

func (cfg *Config) prompt() string {
	if cfg.REPL.Prompt != "" {
		return cfg.REPL.Prompt
	}
	return ">>> "
}

func (cfg *Config) moduleNames() []string {
	if cfg.Modules != nil {
		return cfg.Modules
	}
	var names []string
	for name := range mods.Default() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func expandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
