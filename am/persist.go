package am

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/depminer/errors"
)

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete oldest backup")
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// WriteDefault writes the built-in configuration to path as TOML. An existing
// file is rotated into .back1 first.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(Defaults())
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	header := []byte("# depminer configuration\n# Precedence: /etc/depminer/am.toml < ~/.depminer/am.toml < ./am.toml < DEPMINER_* env vars\n\n")
	if err := os.WriteFile(path, append(header, data...), DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// Encode renders cfg as toml, json or yaml.
func Encode(cfg *Config, format string) ([]byte, error) {
	switch format {
	case "toml":
		return toml.Marshal(cfg)
	case FormatJSON:
		return json.MarshalIndent(cfg, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, errors.Wrap(err, "failed to encode yaml")
		}
		return buf.Bytes(), nil
	}
	return nil, errors.NewConfigurationError("unknown config format %q", format)
}

// Summary returns a one-line description of where the configuration came from.
func Summary() string {
	counts := map[ConfigSource]int{}
	for _, s := range Introspect() {
		counts[s.Source]++
	}
	return fmt.Sprintf("%d default, %d system, %d user, %d project, %d environment",
		counts[SourceDefault], counts[SourceSystem], counts[SourceUser], counts[SourceProject], counts[SourceEnvironment])
}
