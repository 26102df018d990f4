package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/depminer/errors"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, Defaults(), cfg, "SetDefaults and Defaults must agree")
	assert.Equal(t, "depminer.db", cfg.Database.Path)
	assert.Equal(t, 1, cfg.Discovery.Threads)
	assert.True(t, cfg.Discovery.NullEqualNull)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero threads", func(c *Config) { c.Discovery.Threads = 0 }, true},
		{"zero max lhs is unlimited", func(c *Config) { c.Discovery.MaxLHS = 0 }, false},
		{"negative max lhs", func(c *Config) { c.Discovery.MaxLHS = -1 }, true},
		{"zero threshold", func(c *Config) { c.Discovery.EfficiencyThreshold = 0 }, true},
		{"threshold above one", func(c *Config) { c.Discovery.EfficiencyThreshold = 1.5 }, true},
		{"tab delimiter", func(c *Config) { c.Input.Delimiter = "\t" }, false},
		{"long delimiter", func(c *Config) { c.Input.Delimiter = ";;" }, true},
		{"yaml output", func(c *Config) { c.Output.Format = FormatYAML }, false},
		{"xml output", func(c *Config) { c.Output.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsConfigurationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFindProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "am.toml"), []byte("[discovery]\nthreads = 3\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	found := findProjectConfig()
	require.NotEmpty(t, found)
	assert.Equal(t, "am.toml", filepath.Base(found))
}

func TestLoadMergesFilesAndEnv(t *testing.T) {
	Reset()
	defer Reset()

	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(project))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".depminer"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".depminer", "am.toml"), []byte(`
[discovery]
threads = 4
max_lhs = 3

[database]
path = "user.db"
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(project, "am.toml"), []byte(`
[database]
path = "project.db"
`), 0644))
	t.Setenv("DEPMINER_OUTPUT_FORMAT", "json")
	t.Setenv("DEPMINER_DISCOVERY_MAX_LHS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Discovery.Threads)
	assert.Equal(t, 5, cfg.Discovery.MaxLHS, "environment overrides a file value")
	assert.Equal(t, "project.db", cfg.Database.Path, "project config overrides user config")
	assert.Equal(t, "json", cfg.Output.Format, "environment overrides files")

	assert.Equal(t, SourceUser, ConfigSources["discovery.threads"].Source)
	assert.Equal(t, SourceProject, ConfigSources["database.path"].Source)

	sources := map[string]ConfigSource{}
	for _, s := range Introspect() {
		sources[s.Key] = s.Source
	}
	assert.Equal(t, SourceEnvironment, sources["output.format"])
	assert.Equal(t, SourceDefault, sources["input.delimiter"])
	assert.Contains(t, Summary(), "2 environment")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[input]\ndelimiter = \";\"\nnull_tokens = [\"NA\", \"\"]\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ";", cfg.Input.Delimiter)
	assert.Equal(t, []string{"NA", ""}, cfg.Input.NullTokens)
	assert.Equal(t, 1, cfg.Discovery.Threads, "unset keys keep their defaults")

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "am.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	// a second write keeps the first as a backup
	require.NoError(t, WriteDefault(path))
	_, err = os.Stat(path + ".back1")
	assert.NoError(t, err)
}

func TestEncode(t *testing.T) {
	cfg := Defaults()
	for _, format := range []string{"toml", FormatJSON, FormatYAML} {
		data, err := Encode(cfg, format)
		require.NoError(t, err, format)
		assert.Contains(t, string(data), "null_equal_null", format)
	}

	_, err := Encode(cfg, "ini")
	assert.True(t, errors.IsConfigurationError(err))
}
