package version

import (
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.True(t, strings.Contains(info.Platform, "/"))
	assert.True(t, strings.HasPrefix(info.String(), "depminer "))
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abcdef1", Info{CommitHash: "abcdef123456"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}

func TestSemverOfDevBuild(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "dev"
	assert.Equal(t, "0.0.0-dev", Semver().String())

	Version = "v1.4.2"
	assert.Equal(t, "1.4.2", Semver().String())
}

func TestCheck(t *testing.T) {
	running := semver.MustParse("2.1.0")
	tests := []struct {
		recorded string
		want     Compatibility
	}{
		{"2.0.5", Compatible},
		{"2.9.0", Compatible},
		{"1.7.0", Older},
		{"3.0.0", Newer},
		{"dev", Compatible},
		{"0.0.0-dev", Compatible},
		{"", Compatible},
	}
	for _, tt := range tests {
		t.Run(tt.recorded, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.recorded, running))
		})
	}
	assert.Equal(t, Compatible, Check("9.0.0", semver.MustParse("0.0.0-dev")))
}
