package documents

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"verigate/pkg/platform/sentinel"
)

type memoryObject struct {
	key     string
	content []byte
	meta    Metadata
}

// MemoryStore keeps documents in process. Used in tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject), now: time.Now}
}

func (m *MemoryStore) Upload(_ context.Context, content []byte, meta Metadata) (Stored, error) {
	if err := Validate(content, meta); err != nil {
		return Stored{}, err
	}
	documentID := NewDocumentID()
	key := ObjectKey(meta, documentID, m.now().UTC())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[documentID] = memoryObject{key: key, content: append([]byte(nil), content...), meta: meta}
	return Stored{DocumentID: documentID, Location: "memory://" + key}, nil
}

func (m *MemoryStore) GetDownloadURL(_ context.Context, documentID string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	obj, ok := m.objects[documentID]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("document %s: %w", documentID, sentinel.ErrNotFound)
	}
	if ttl <= 0 {
		ttl = DefaultURLTTL
	}
	q := url.Values{"expires": {m.now().Add(ttl).UTC().Format(time.RFC3339)}}
	return "memory://" + obj.key + "?" + q.Encode(), nil
}

func (m *MemoryStore) Delete(_ context.Context, documentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[documentID]; !ok {
		return false, nil
	}
	delete(m.objects, documentID)
	return true, nil
}

// Content returns the stored bytes.
func (m *MemoryStore) Content(documentID string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[documentID]
	return obj.content, ok
}
