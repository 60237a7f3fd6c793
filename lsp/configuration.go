package lsp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/lsp/types"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// configFileNames are the workspace config files, in lookup order
var configFileNames = []string{".cssvariables.yaml", ".cssvariables.yml"}

// GetConfig returns the effective configuration
func (s *Server) GetConfig() types.ServerConfig {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.config
}

// SetConfig replaces the effective configuration
func (s *Server) SetConfig(config types.ServerConfig) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config = config
}

// SetClientSettings records settings sent by the client. They take effect
// on the next LoadConfig.
func (s *Server) SetClientSettings(settings any) error {
	patch, err := parseClientSettings(settings)
	if err != nil {
		return err
	}
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.clientSettings = patch
	return nil
}

// LoadConfig rebuilds the effective configuration. Later sources override
// earlier ones: defaults, package.json, .cssvariables.yaml, client settings.
// Sources that fail to load are skipped and reported together.
func (s *Server) LoadConfig() error {
	config := types.DefaultConfig()
	var errs []error

	if root := s.RootPath(); root != "" {
		fsys := s.engine.Fs()

		pkg, err := readPackageJSONConfig(fsys, root)
		errs = append(errs, err)
		config = config.Apply(pkg)

		file, err := readYAMLConfig(fsys, root)
		errs = append(errs, err)
		config = config.Apply(file)
	}

	s.configMu.RLock()
	config = config.Apply(s.clientSettings)
	s.configMu.RUnlock()

	if err := config.IndexSettings().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ignoring configured globs: %w", err))
		config.LookupFiles = types.DefaultConfig().LookupFiles
		config.BlacklistFolders = types.DefaultConfig().BlacklistFolders
	}

	s.SetConfig(config)
	log.Debug("Configuration: %+v", config)
	return errors.Join(errs...)
}

// readYAMLConfig reads the first workspace config file that exists
func readYAMLConfig(fsys afero.Fs, rootPath string) (types.ConfigPatch, error) {
	var patch types.ConfigPatch
	for _, name := range configFileNames {
		path := filepath.Join(rootPath, name)
		data, err := afero.ReadFile(fsys, path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return patch, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := yaml.Unmarshal(data, &patch); err != nil {
			return types.ConfigPatch{}, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		log.Info("Loaded configuration from %s", path)
		return patch, nil
	}
	return patch, nil
}

// parseClientSettings reads the cssVariables section from client settings.
// Settings without that section are read as the section itself, which is
// how some clients send initializationOptions.
func parseClientSettings(settings any) (types.ConfigPatch, error) {
	var patch types.ConfigPatch
	if settings == nil {
		return patch, nil
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return patch, fmt.Errorf("failed to marshal settings: %w", err)
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return patch, fmt.Errorf("settings is not an object: %w", err)
	}

	section, ok := sections[types.SettingsKey]
	if !ok {
		section = data
	}
	if err := json.Unmarshal(section, &patch); err != nil {
		return types.ConfigPatch{}, fmt.Errorf("failed to parse %s settings: %w", types.SettingsKey, err)
	}
	return patch, nil
}
