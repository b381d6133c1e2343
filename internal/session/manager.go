package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
)

// ErrSessionNotFound is returned when no session file exists for an id.
var ErrSessionNotFound = errors.New("session not found")

const (
	filePrefix = "session-"
	indexFile  = "sessions_index.json"
)

// Manager stores sessions as one JSON file each under a directory, with a
// metadata index file so listing does not decode every session. The clock
// is injectable for tests.
type Manager struct {
	dir    string
	clock  quartz.Clock
	logger *log.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock sets the clock used for session ids and timestamps.
func WithClock(clock quartz.Clock) ManagerOption {
	return func(m *Manager) { m.clock = clock }
}

// WithLogger sets the manager logger.
func WithLogger(logger *log.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates a manager rooted at dir, creating it if needed.
func NewManager(dir string, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		dir:    dir,
		clock:  quartz.NewReal(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	return m, nil
}

// NewSession creates a session document stamped with the current time. The
// id is derived from the clock, so two sessions started within the same
// second share an id and the later Save wins.
func (m *Manager) NewSession(rules game.GameRules, countingSystem string) *SessionData {
	now := m.clock.Now()
	return &SessionData{
		Metadata: SessionMetadata{
			ID:             now.Format("20060102-150405"),
			StartedAt:      now,
			Rules:          rules,
			CountingSystem: countingSystem,
		},
	}
}

// Save writes the session atomically, stamping EndedAt, and updates the
// metadata index.
func (m *Manager) Save(data *SessionData) error {
	data.Metadata.EndedAt = m.clock.Now()

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	path := m.path(data.Metadata.ID)
	if err := fileutil.WriteFileAtomic(path, encoded, 0o644); err != nil {
		return fmt.Errorf("writing session %s: %w", data.Metadata.ID, err)
	}

	index, err := m.readIndex()
	if err != nil {
		return err
	}
	replaced := false
	for i := range index {
		if index[i].ID == data.Metadata.ID {
			index[i] = data.Metadata
			replaced = true
			break
		}
	}
	if !replaced {
		index = append(index, data.Metadata)
	}
	if err := m.writeIndex(index); err != nil {
		return err
	}

	m.logger.Debug("saved session", "id", data.Metadata.ID, "hands", data.Metadata.Hands)
	return nil
}

// Load reads one session by id.
func (m *Manager) Load(id string) (*SessionData, error) {
	raw, err := os.ReadFile(m.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("reading session %s: %w", id, err)
	}
	var data SessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return &data, nil
}

// List returns metadata for every stored session, newest first. The index
// file serves the listing; a missing or corrupt index is rebuilt from the
// session files.
func (m *Manager) List() ([]SessionMetadata, error) {
	index, err := m.readIndex()
	if err != nil {
		return nil, err
	}
	sort.Slice(index, func(i, j int) bool {
		return index[i].StartedAt.After(index[j].StartedAt)
	})
	return index, nil
}

// Delete removes one session by id and drops it from the index.
func (m *Manager) Delete(id string) error {
	if err := os.Remove(m.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return fmt.Errorf("deleting session %s: %w", id, err)
	}

	index, err := m.readIndex()
	if err != nil {
		return err
	}
	kept := index[:0]
	for _, meta := range index {
		if meta.ID != id {
			kept = append(kept, meta)
		}
	}
	return m.writeIndex(kept)
}

// Cleanup deletes sessions that started more than maxAge ago and returns
// how many were removed.
func (m *Manager) Cleanup(maxAge time.Duration) (int, error) {
	sessions, err := m.List()
	if err != nil {
		return 0, err
	}

	cutoff := m.clock.Now().Add(-maxAge)
	removed := 0
	for _, meta := range sessions {
		if meta.StartedAt.Before(cutoff) {
			if err := m.Delete(meta.ID); err != nil {
				return removed, err
			}
			removed++
		}
	}
	if removed > 0 {
		m.logger.Debug("cleaned up sessions", "removed", removed)
	}
	return removed, nil
}

// readIndex loads the metadata index, rebuilding it from the session files
// when it is missing or fails to decode.
func (m *Manager) readIndex() ([]SessionMetadata, error) {
	raw, err := os.ReadFile(m.indexPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m.rebuildIndex()
		}
		return nil, fmt.Errorf("reading session index: %w", err)
	}

	var index []SessionMetadata
	if err := json.Unmarshal(raw, &index); err != nil {
		m.logger.Warn("rebuilding corrupt session index", "error", err)
		return m.rebuildIndex()
	}
	return index, nil
}

// rebuildIndex scans the session files, writes a fresh index and returns
// it. Files that fail to decode are skipped with a warning.
func (m *Manager) rebuildIndex() ([]SessionMetadata, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("scanning sessions: %w", err)
	}

	index := []SessionMetadata{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), ".json")
		data, err := m.Load(id)
		if err != nil {
			m.logger.Warn("skipping unreadable session file", "file", name, "error", err)
			continue
		}
		index = append(index, data.Metadata)
	}

	if err := m.writeIndex(index); err != nil {
		return nil, err
	}
	return index, nil
}

func (m *Manager) writeIndex(index []SessionMetadata) error {
	encoded, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session index: %w", err)
	}
	if err := fileutil.WriteFileAtomic(m.indexPath(), encoded, 0o644); err != nil {
		return fmt.Errorf("writing session index: %w", err)
	}
	return nil
}

func (m *Manager) indexPath() string {
	return filepath.Join(m.dir, indexFile)
}

func (m *Manager) path(id string) string {
	return filepath.Join(m.dir, filePrefix+id+".json")
}
