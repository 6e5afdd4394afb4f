package sdk

import "sync"

// NotificationCache is the single reconciliation point for the local
// notification list. Every producer (stream events, mutations, refetches)
// goes through its id-keyed operations, so there is exactly one merge
// policy. Safe for concurrent use.
type NotificationCache struct {
	mu    sync.RWMutex
	items []Notification
}

// NewNotificationCache returns an empty cache.
func NewNotificationCache() *NotificationCache {
	return &NotificationCache{}
}

// Prepend inserts n at the front unless its id is already present.
// Reports whether the cache changed.
func (c *NotificationCache) Prepend(n Notification) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexLocked(n.ID) >= 0 {
		return false
	}
	c.items = append([]Notification{n}, c.items...)
	return true
}

// Merge overwrites the entry with n's id, preserving list order. Unknown ids
// are prepended so an update event arriving before its create event is not
// lost.
func (c *NotificationCache) Merge(n Notification) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(n.ID); i >= 0 {
		c.items[i] = n
		return true
	}
	c.items = append([]Notification{n}, c.items...)
	return true
}

// Remove deletes the entry with the given id, leaving all others untouched.
// Reports whether an entry was removed.
func (c *NotificationCache) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// Replace swaps the entire list, used after an authoritative refetch.
func (c *NotificationCache) Replace(items []Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]Notification(nil), items...)
}

// Snapshot returns a copy of the current list, newest first.
func (c *NotificationCache) Snapshot() []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Notification(nil), c.items...)
}

// Len returns the number of cached notifications.
func (c *NotificationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *NotificationCache) indexLocked(id string) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
