package lsp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"bennypowers.dev/cssvls/lsp/types"
	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
)

// readPackageJSONConfig reads the cssVariables section of the package.json
// in rootPath. A missing file or section yields an empty patch.
func readPackageJSONConfig(fsys afero.Fs, rootPath string) (types.ConfigPatch, error) {
	var patch types.ConfigPatch

	data, err := afero.ReadFile(fsys, filepath.Join(rootPath, "package.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return patch, nil
	}
	if err != nil {
		return patch, fmt.Errorf("failed to read package.json: %w", err)
	}

	// Parse as JSONC (allows comments)
	var pkg map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return patch, fmt.Errorf("failed to parse package.json: %w", err)
	}

	section, ok := pkg[types.SettingsKey]
	if !ok {
		return patch, nil
	}
	if err := json.Unmarshal(section, &patch); err != nil {
		return types.ConfigPatch{}, fmt.Errorf("%s in package.json must be an object: %w", types.SettingsKey, err)
	}
	return patch, nil
}
