package repository

import (
	"errors"
	"sync"

	"gorm.io/gorm"
)

// ErrNotInitialized is returned by GetGlobalRepositories before
// InitializeRepositories has run.
var ErrNotInitialized = errors.New("repositories not initialized")

var (
	globalMu    sync.RWMutex
	globalRepos *Repositories
)

// InitializeRepositories builds the process-wide repositories on db. Later
// calls are ignored.
func InitializeRepositories(db *gorm.DB) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalRepos == nil && db != nil {
		globalRepos = NewRepositories(db)
	}
}

// GetGlobalRepositories returns the repositories built by InitializeRepositories.
func GetGlobalRepositories() (*Repositories, error) {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalRepos == nil {
		return nil, ErrNotInitialized
	}
	return globalRepos, nil
}

func resetGlobalRepositories() {
	globalMu.Lock()
	globalRepos = nil
	globalMu.Unlock()
}
