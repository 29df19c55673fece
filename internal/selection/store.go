package selection

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/mstavrou/epresent-backend/pkg/logger"
)

// Store persists selection lines to local files, one JSON array per session
// key. It is a best-effort cache, not a source of truth: every failure is
// swallowed after a debug log, and malformed content hydrates as an empty
// selection. The in-memory state stays authoritative for the session.
type Store struct {
	dir string
}

var sessionKeyPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

func NewStore(dir string) *Store {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("Failed to create selection data directory", map[string]interface{}{
			"dir":   dir,
			"error": err.Error(),
		})
	}
	return &Store{dir: dir}
}

func (s *Store) path(key string) (string, bool) {
	// Session keys are UUIDs; reject anything else so a crafted cookie
	// cannot escape the data directory.
	if !sessionKeyPattern.MatchString(key) {
		return "", false
	}
	return filepath.Join(s.dir, key+".json"), true
}

// Load reads the persisted lines for a session key. Missing files and
// malformed content both return an empty slice.
func (s *Store) Load(key string) []Line {
	path, ok := s.path(key)
	if !ok {
		return []Line{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return []Line{}
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		logger.Debug("Ignoring malformed persisted selection", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return []Line{}
	}
	return lines
}

// Save overwrites the persisted lines for a session key. Write failures are
// logged and ignored; the caller's in-memory state is never affected.
func (s *Store) Save(key string, lines []Line) {
	path, ok := s.path(key)
	if !ok {
		return
	}

	data, err := json.Marshal(lines)
	if err != nil {
		logger.Debug("Failed to serialize selection", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Debug("Failed to persist selection", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Remove deletes the persisted file for a session key, best-effort
func (s *Store) Remove(key string) {
	if path, ok := s.path(key); ok {
		_ = os.Remove(path)
	}
}
