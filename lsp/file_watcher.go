package lsp

import (
	"path/filepath"
	"strings"

	"bennypowers.dev/cssvls/internal/log"
	"github.com/google/uuid"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const watchedFilesMethod = "workspace/didChangeWatchedFiles"

// IsLookupFile reports whether path lies in a workspace folder and is
// selected by the lookup and blacklist globs
func (s *Server) IsLookupFile(path string) bool {
	settings := s.GetConfig().IndexSettings()
	for _, root := range s.WorkspaceFolders() {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if settings.Matches(filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

// RegisterFileWatchers asks the client to report changes to files matching
// the lookup globs. A previous registration is withdrawn first, so calling
// this again after a configuration change replaces the watched globs.
func (s *Server) RegisterFileWatchers(context *glsp.Context) error {
	// Guard against nil or empty context (can happen in tests without real LSP connection)
	if context == nil || context.Call == nil {
		log.Info("Skipping file watcher registration (no client context)")
		return nil
	}

	cfg := s.GetConfig()

	watchers := make([]protocol.FileSystemWatcher, 0, len(cfg.LookupFiles))
	for _, pattern := range cfg.LookupFiles {
		watchers = append(watchers, protocol.FileSystemWatcher{GlobPattern: pattern})
	}

	s.configMu.Lock()
	previous := s.watcherID
	s.watcherID = ""
	if len(watchers) > 0 {
		s.watcherID = uuid.NewString()
	}
	id := s.watcherID
	s.configMu.Unlock()

	if previous == "" && id == "" {
		log.Info("No file watchers to register")
		return nil
	}

	// client/registerCapability is a request, so the call blocks until the
	// client answers. Calling it from the handler goroutine would deadlock
	// the message loop.
	go func(ctx *glsp.Context) {
		if previous != "" {
			var result any
			// The field name is misspelled in the protocol itself
			ctx.Call("client/unregisterCapability", map[string]any{
				"unregisterations": []map[string]string{{"id": previous, "method": watchedFilesMethod}},
			}, &result)
		}
		if id != "" {
			var result any
			ctx.Call("client/registerCapability", protocol.RegistrationParams{
				Registrations: []protocol.Registration{{
					ID:              id,
					Method:          watchedFilesMethod,
					RegisterOptions: protocol.DidChangeWatchedFilesRegistrationOptions{Watchers: watchers},
				}},
			}, &result)
			log.Info("File watcher registration completed")
		}
	}(context)

	log.Info("Sent file watcher registration request (%d watchers)", len(watchers))
	return nil
}
