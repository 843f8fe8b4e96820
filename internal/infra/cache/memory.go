package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory зеркало в памяти процесса поверх LRU с истечением записей.
// Просроченные снимки вытесняются фоновой очисткой библиотеки,
// при переполнении вытесняется самый давно использованный снимок.
type Memory struct {
	entries *expirable.LRU[Key, *Snapshot]
}

// NewMemory создает зеркало в памяти; size <= 0 снимает ограничение размера, ttl <= 0 отключает истечение
func NewMemory(size int, ttl time.Duration) *Memory {
	if size < 0 {
		size = 0
	}
	return &Memory{
		entries: expirable.NewLRU[Key, *Snapshot](size, nil, ttl),
	}
}

// Get возвращает копию снимка
func (m *Memory) Get(_ context.Context, key Key) (*Snapshot, bool, error) {
	snapshot, ok := m.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	return snapshot.clone(), true, nil
}

// Put заменяет снимок целиком
func (m *Memory) Put(_ context.Context, snapshot *Snapshot) error {
	m.entries.Add(snapshot.Key, snapshot.clone())
	return nil
}

// Invalidate удаляет снимок
func (m *Memory) Invalidate(_ context.Context, key Key) error {
	m.entries.Remove(key)
	return nil
}

// Len количество хранимых снимков
func (m *Memory) Len() int {
	return m.entries.Len()
}

// Close освобождает хранимые снимки
func (m *Memory) Close() error {
	m.entries.Purge()
	return nil
}
