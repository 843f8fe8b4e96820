package sessions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/service/selection"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// Service операции над сессиями выбора. Сетевые вызовы выполняются вне блокировки сессии.
type Service struct {
	store  *Store
	mirror Mirror
	logger Logger
}

// NewService создает сервис сессий
func NewService(store *Store, mirror Mirror, logger Logger) *Service {
	return &Service{store: store, mirror: mirror, logger: logger}
}

// Store хранилище сессий
func (s *Service) Store() *Store {
	return s.store
}

// Create открывает новую сессию
func (s *Service) Create(ctx context.Context) (*View, error) {
	catalogue, err := s.mirror.Catalogue(ctx)
	if err != nil {
		s.logger.Error("CreateSession: failed to load catalogue: %v", err)
		return nil, err
	}

	id := s.store.Create(catalogue)
	s.logger.Info("CreateSession: id=%s options=%d", id, len(catalogue))
	return s.Get(id)
}

// Get текущее состояние сессии
func (s *Service) Get(id string) (*View, error) {
	var view *View
	err := s.store.Do(id, func(m *selection.Machine) error {
		view = buildView(id, m)
		return nil
	})
	return view, err
}

// Activate выбор начала. Карта загружается заново, если прежняя устарела.
func (s *Service) Activate(ctx context.Context, id string, resourceID int64, date time.Time, start types.TimeString) (*View, bool, error) {
	ref := selection.SlotRef{ResourceID: resourceID, Date: date, StartTime: start}

	var stale bool
	if err := s.store.Do(id, func(m *selection.Machine) error {
		stale = m.IsStale(ref)
		return nil
	}); err != nil {
		return nil, false, err
	}

	am, err := s.mirror.Map(ctx, resourceID, date, stale)
	if err != nil {
		s.logger.Error("Activate: session=%s resource=%d date=%s: failed to load availability: %v",
			id, resourceID, date.Format(domain.DateFormat), err)
		return nil, false, err
	}

	var (
		view      *View
		activated bool
	)
	err = s.store.Do(id, func(m *selection.Machine) error {
		m.SetAvailability(am)
		ok, err := m.Activate(ref)
		if err != nil {
			return err
		}
		activated = ok
		view = buildView(id, m)
		return nil
	})
	if err != nil {
		s.logger.Warn("Activate: session=%s resource=%d start=%s: %v", id, resourceID, start, err)
		return nil, false, err
	}

	return view, activated, nil
}

// Refresh принудительно перестраивает карту ресурса на дату
func (s *Service) Refresh(ctx context.Context, id string, resourceID int64, date time.Time) (*View, error) {
	am, err := s.mirror.Map(ctx, resourceID, date, true)
	if err != nil {
		return nil, err
	}
	return s.do(id, func(m *selection.Machine) error {
		m.SetAvailability(am)
		return nil
	})
}

// ChooseDuration выбор длительности; false, если опция невыполнима
func (s *Service) ChooseDuration(id string, optionID int64) (*View, bool, error) {
	var chosen bool
	view, err := s.do(id, func(m *selection.Machine) error {
		ok, err := m.ChooseDuration(optionID)
		chosen = ok
		return err
	})
	return view, chosen, err
}

// SetCustomer данные клиента черновика
func (s *Service) SetCustomer(id string, customer domain.Customer) (*View, error) {
	return s.do(id, func(m *selection.Machine) error {
		return m.SetCustomer(customer)
	})
}

// Cancel локальный сброс выбора
func (s *Service) Cancel(id string) (*View, error) {
	return s.do(id, func(m *selection.Machine) error {
		return m.Cancel()
	})
}

// Retry возврат к черновику после ошибки
func (s *Service) Retry(id string) (*View, error) {
	return s.do(id, func(m *selection.Machine) error {
		return m.Retry()
	})
}

// Dismiss закрытие успешного результата
func (s *Service) Dismiss(id string) (*View, error) {
	return s.do(id, func(m *selection.Machine) error {
		return m.Dismiss()
	})
}

// Abandon отказ от черновика после ошибки
func (s *Service) Abandon(id string) (*View, error) {
	return s.do(id, func(m *selection.Machine) error {
		return m.Abandon()
	})
}

// Close удаляет сессию; во время отправки запрещено
func (s *Service) Close(id string) error {
	err := s.store.Do(id, func(m *selection.Machine) error {
		if m.State() == selection.StateSubmitting {
			return selection.ErrSubmissionInFlight
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.store.Delete(id)
	return nil
}

func (s *Service) do(id string, fn func(m *selection.Machine) error) (*View, error) {
	var view *View
	err := s.store.Do(id, func(m *selection.Machine) error {
		if err := fn(m); err != nil {
			return err
		}
		view = buildView(id, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func buildView(id string, m *selection.Machine) *View {
	view := &View{ID: id, Snapshot: m.Snapshot()}
	if view.Snapshot.State == selection.StateActive {
		if options, err := m.Options(); err == nil {
			view.Options = options
		}
	}
	return view
}
