package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuildInfo(t *testing.T, bi *debug.BuildInfo, ok bool) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, ok }
	t.Cleanup(func() { readBuildInfo = orig })
}

func withVersion(t *testing.T, v string) {
	t.Helper()
	orig := Version
	Version = v
	t.Cleanup(func() { Version = orig })
}

func TestGet(t *testing.T) {
	t.Run("no build info", func(t *testing.T) {
		withVersion(t, "dev")
		withBuildInfo(t, nil, false)
		assert.Equal(t, Info{Version: "dev"}, Get())
		assert.Equal(t, "dev", GetVersion())
	})

	t.Run("ldflags win over module version", func(t *testing.T) {
		withVersion(t, "v1.2.3")
		withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v0.0.1"}}, true)
		assert.Equal(t, "v1.2.3", GetVersion())
	})

	t.Run("module version", func(t *testing.T) {
		withVersion(t, "dev")
		withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}}, true)
		assert.Equal(t, "v0.4.0", GetVersion())
	})

	t.Run("devel build keeps dev", func(t *testing.T) {
		withVersion(t, "dev")
		withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true)
		assert.Equal(t, "dev", GetVersion())
	})

	t.Run("vcs settings", func(t *testing.T) {
		withVersion(t, "dev")
		withBuildInfo(t, &debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
		}}, true)
		info := Get()
		assert.Equal(t, "0123456789abcdef", info.Revision)
		assert.True(t, info.Modified)
		assert.Equal(t, "dev (commit: 0123456-dirty)", info.String())
	})
}

func TestInfoString(t *testing.T) {
	assert.Equal(t, "v1.0.0", Info{Version: "v1.0.0"}.String())
	assert.Equal(t, "v1.0.0 (commit: abc)", Info{Version: "v1.0.0", Revision: "abc"}.String())
}
