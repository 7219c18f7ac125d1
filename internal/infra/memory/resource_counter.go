package memory

import (
	"context"
	"sync"
)

// StaticResourceCounter serves document/folder counts from a map; stands in
// for the external library service in tests and demo mode.
type StaticResourceCounter struct {
	mu      sync.RWMutex
	docs    map[string]int
	folders map[string]int
}

func NewStaticResourceCounter() *StaticResourceCounter {
	return &StaticResourceCounter{
		docs:    make(map[string]int),
		folders: make(map[string]int),
	}
}

func (c *StaticResourceCounter) SetCounts(userID string, documents, folders int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[userID] = documents
	c.folders[userID] = folders
}

func (c *StaticResourceCounter) DocumentCount(_ context.Context, userID string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.docs[userID], nil
}

func (c *StaticResourceCounter) FolderCount(_ context.Context, userID string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.folders[userID], nil
}
