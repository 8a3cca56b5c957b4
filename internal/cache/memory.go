package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/ferro-labs/news-gateway/providers"
)

type memoryEntry struct {
	key       string
	articles  []providers.Article
	expiresAt time.Time
}

// Memory is a thread-safe in-memory cache namespace. With zero capacity it
// never evicts and with zero TTL entries never expire; both limits are
// optional and enable LRU eviction and expiry respectively.
type Memory struct {
	mu        sync.Mutex
	name      string
	capacity  int
	ttl       time.Duration
	items     map[string]*list.Element
	evictList *list.List
	now       func() time.Time
}

// NewMemory creates an in-memory cache namespace.
func NewMemory(name string, capacity int, ttl time.Duration) *Memory {
	return &Memory{
		name:      name,
		capacity:  capacity,
		ttl:       ttl,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		now:       time.Now,
	}
}

// Name returns the namespace.
func (m *Memory) Name() string { return m.name }

// Get returns the stored articles for key. ok is false if the key is
// missing or expired.
func (m *Memory) Get(_ context.Context, key string) ([]providers.Article, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*memoryEntry)
	if m.ttl > 0 && m.now().After(entry.expiresAt) {
		m.removeElement(elem)
		return nil, false
	}

	m.evictList.MoveToFront(elem)
	return entry.articles, true
}

// Set stores articles under key, replacing any previous value.
func (m *Memory) Set(_ context.Context, key string, articles []providers.Article) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if m.ttl > 0 {
		expiresAt = m.now().Add(m.ttl)
	}

	if elem, ok := m.items[key]; ok {
		m.evictList.MoveToFront(elem)
		entry := elem.Value.(*memoryEntry)
		entry.articles = articles
		entry.expiresAt = expiresAt
		return
	}

	if m.capacity > 0 && m.evictList.Len() >= m.capacity {
		m.removeOldest()
	}

	elem := m.evictList.PushFront(&memoryEntry{
		key:       key,
		articles:  articles,
		expiresAt: expiresAt,
	})
	m.items[key] = elem
}

// Len returns the number of entries currently held, expired ones included
// until they are next touched.
func (m *Memory) Len(_ context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evictList.Len()
}

func (m *Memory) removeOldest() {
	elem := m.evictList.Back()
	if elem != nil {
		m.removeElement(elem)
	}
}

func (m *Memory) removeElement(elem *list.Element) {
	m.evictList.Remove(elem)
	entry := elem.Value.(*memoryEntry)
	delete(m.items, entry.key)
}
