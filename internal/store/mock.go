package store

import "fjacquet/credit-summary/internal/robots"

// MockWatchListStore is a mock implementation of WatchListStore for testing.
type MockWatchListStore struct {
	IDs       []string
	LoadError error
	SaveError error

	Saved robots.Set
}

// LoadRobotIDs returns the mock ids.
func (m *MockWatchListStore) LoadRobotIDs() (robots.Set, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	if m.IDs == nil {
		return robots.DefaultSet(), nil
	}
	return robots.NewSet(m.IDs...), nil
}

// SaveRobotIDs records set instead of writing it.
func (m *MockWatchListStore) SaveRobotIDs(set robots.Set) (string, error) {
	if m.SaveError != nil {
		return "", m.SaveError
	}
	m.Saved = set
	return "mock://robots.yaml", nil
}
