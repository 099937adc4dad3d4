package sim

import (
	"context"
	"fmt"
	"sync"
)

// entryNotFound is returned by GetData when path hasn't been written yet.
type entryNotFound struct {
	path string
}

func (e *entryNotFound) Error() string {
	return fmt.Sprintf("sim: no data at path: %s", e.path)
}

// versionConflict is returned by SetData when expectedVersion doesn't match
// the path's current version.
type versionConflict struct {
	path            string
	expectedVersion int32
	actualVersion   int32
}

func (e *versionConflict) Error() string {
	return fmt.Sprintf(
		"sim: version conflict at path %s: expected %d, actual %d",
		e.path, e.expectedVersion, e.actualVersion,
	)
}

type entry struct {
	data    []byte
	version int32
}

// StateManager is an in-memory cluster.DistribStateManager implementing
// version-gated compare-and-set writes over a path-keyed store, standing in
// for a real coordination service such as etcd or ZooKeeper.
type StateManager struct {
	mu      sync.Mutex
	entries map[string]entry
}

// NewStateManager creates an empty StateManager.
func NewStateManager() *StateManager {
	return &StateManager{
		entries: make(map[string]entry),
	}
}

// GetData returns the bytes stored at path and their version.
func (m *StateManager) GetData(_ context.Context, path string) ([]byte, int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[path]
	if !ok {
		return nil, -1, &entryNotFound{path: path}
	}
	return e.data, e.version, nil
}

// SetData writes data at path if expectedVersion matches the path's current
// version (-1 meaning "does not exist"), returning the new version.
func (m *StateManager) SetData(_ context.Context, path string, data []byte, expectedVersion int32) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.entries[path]
	actual := int32(-1)
	if exists {
		actual = e.version
	}
	if actual != expectedVersion {
		return 0, &versionConflict{path: path, expectedVersion: expectedVersion, actualVersion: actual}
	}

	newVersion := actual + 1
	m.entries[path] = entry{data: data, version: newVersion}
	return newVersion, nil
}
