package types

import (
	"slices"
	"time"

	"bennypowers.dev/cssvls/internal/indexer"
)

// SettingsKey is the section holding this server's settings, both in client
// settings and in package.json
const SettingsKey = "cssVariables"

// ServerConfig represents the server configuration
type ServerConfig struct {
	// LookupFiles are globs of stylesheets to index, relative to each workspace folder
	LookupFiles []string `json:"lookupFiles" yaml:"lookupFiles"`

	// BlacklistFolders are globs of directories never walked
	BlacklistFolders []string `json:"blacklistFolders" yaml:"blacklistFolders"`

	// EnableCustomMedia turns on @custom-media indexing and completion
	EnableCustomMedia bool `json:"enableCustomMedia" yaml:"enableCustomMedia"`

	// NetworkTimeout bounds each remote @import fetch, in seconds. 0 means no bound.
	NetworkTimeout float64 `json:"networkTimeout" yaml:"networkTimeout"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() ServerConfig {
	return ServerConfig{
		LookupFiles:      slices.Clone(indexer.DefaultLookupFiles),
		BlacklistFolders: slices.Clone(indexer.DefaultBlacklistFolders),
	}
}

// Timeout returns NetworkTimeout as a duration
func (c ServerConfig) Timeout() time.Duration {
	if c.NetworkTimeout <= 0 {
		return 0
	}
	return time.Duration(c.NetworkTimeout * float64(time.Second))
}

// IndexSettings returns the part of the configuration the indexer reads
func (c ServerConfig) IndexSettings() indexer.Settings {
	return indexer.Settings{
		LookupFiles:       slices.Clone(c.LookupFiles),
		BlacklistFolders:  slices.Clone(c.BlacklistFolders),
		EnableCustomMedia: c.EnableCustomMedia,
		FetchTimeout:      c.Timeout(),
	}
}

// ConfigPatch is a partial configuration read from one source. Nil fields
// leave the underlying value alone, so sources can be layered.
type ConfigPatch struct {
	LookupFiles       *[]string `json:"lookupFiles" yaml:"lookupFiles"`
	BlacklistFolders  *[]string `json:"blacklistFolders" yaml:"blacklistFolders"`
	EnableCustomMedia *bool     `json:"enableCustomMedia" yaml:"enableCustomMedia"`
	NetworkTimeout    *float64  `json:"networkTimeout" yaml:"networkTimeout"`
}

// IsEmpty reports whether the patch sets nothing
func (p ConfigPatch) IsEmpty() bool {
	return p == ConfigPatch{}
}

// Apply returns c with every field set in p overridden
func (c ServerConfig) Apply(p ConfigPatch) ServerConfig {
	if p.LookupFiles != nil {
		c.LookupFiles = slices.Clone(*p.LookupFiles)
	}
	if p.BlacklistFolders != nil {
		c.BlacklistFolders = slices.Clone(*p.BlacklistFolders)
	}
	if p.EnableCustomMedia != nil {
		c.EnableCustomMedia = *p.EnableCustomMedia
	}
	if p.NetworkTimeout != nil {
		c.NetworkTimeout = *p.NetworkTimeout
	}
	return c
}
