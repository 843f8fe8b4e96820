package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/service/selection"
)

type session struct {
	mu        sync.Mutex
	machine   *selection.Machine
	touchedAt time.Time
}

// Store сессии выбора слота в памяти процесса.
// Операции над одной сессией сериализуются ее мьютексом.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore создает хранилище с временем жизни неактивной сессии ttl
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create новая сессия с каталогом длительностей
func (s *Store) Create(catalogue []domain.DurationOption) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = &session{
		machine:   selection.NewMachine(catalogue),
		touchedAt: s.now(),
	}
	s.mu.Unlock()

	return id
}

// Do выполняет fn над машиной сессии под ее блокировкой
func (s *Store) Do(id string, fn func(m *selection.Machine) error) error {
	sess, err := s.get(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.touchedAt = s.now()
	return fn(sess.machine)
}

// Delete удаляет сессию
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len количество живых сессий
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep удаляет истекшие сессии, кроме ожидающих ответа на отправку
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		expired := now.Sub(sess.touchedAt) >= s.ttl && sess.machine.State() != selection.StateSubmitting
		sess.mu.Unlock()

		if expired {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run периодически удаляет истекшие сессии до отмены ctx
func (s *Store) Run(ctx context.Context, interval time.Duration, log Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				log.Info("Sessions: swept %d expired sessions", removed)
			}
		}
	}
}

func (s *Store) get(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", ErrSessionNotFound, id)
	}
	return sess, nil
}
