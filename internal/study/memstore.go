package study

import (
	"context"
	"sync"

	"github.com/mind-engage/studyquiz/internal/quiz"
)

type bankKey struct {
	docID string
	kind  quiz.Kind
}

type memoryStore struct {
	mu    sync.RWMutex
	docs  map[string]struct{}
	pools map[bankKey][]PoolItem
	banks map[bankKey]Bank
}

func NewInMemoryStore() Store {
	return &memoryStore{
		docs:  map[string]struct{}{},
		pools: map[bankKey][]PoolItem{},
		banks: map[bankKey]Bank{},
	}
}

func (m *memoryStore) PutPool(_ context.Context, docID string, kind quiz.Kind, items []PoolItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[docID] = struct{}{}
	m.pools[bankKey{docID, kind}] = append([]PoolItem(nil), items...)
	return nil
}

func (m *memoryStore) Pool(_ context.Context, docID string, kind quiz.Kind, tier quiz.Tier) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.docs[docID]; !ok {
		return nil, ErrNotFound
	}
	var out []Record
	for _, it := range m.pools[bankKey{docID, kind}] {
		if it.Tier == tier {
			out = append(out, cloneRecord(it.Record))
		}
	}
	return out, nil
}

func (m *memoryStore) ReplaceTier(_ context.Context, docID string, kind quiz.Kind, tier quiz.Tier, _ string, recs []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[docID]; !ok {
		return ErrNotFound
	}
	k := bankKey{docID, kind}
	b := m.banks[k]
	if b == nil {
		b = Bank{}
		m.banks[k] = b
	}
	b[tier] = cloneRecords(recs)
	return nil
}

func (m *memoryStore) Bank(_ context.Context, docID string, kind quiz.Kind) (Bank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.docs[docID]; !ok {
		return nil, ErrNotFound
	}
	out := Bank{}
	for t, recs := range m.banks[bankKey{docID, kind}] {
		out[t] = cloneRecords(recs)
	}
	return out, nil
}

func (m *memoryStore) UpdateTier(_ context.Context, docID string, kind quiz.Kind, tier quiz.Tier, fn TierUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[docID]; !ok {
		return ErrNotFound
	}
	b := m.banks[bankKey{docID, kind}]
	if len(b[tier]) == 0 {
		return ErrNoQuestion
	}
	recs, err := fn(cloneRecords(b[tier]))
	if err != nil {
		return err
	}
	b[tier] = recs
	return nil
}

func (m *memoryStore) HasDocument(_ context.Context, docID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.docs[docID]
	return ok, nil
}

func cloneRecord(r Record) Record {
	r.Options = append([]string(nil), r.Options...)
	return r
}

func cloneRecords(recs []Record) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = cloneRecord(r)
	}
	return out
}
