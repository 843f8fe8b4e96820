package selection

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/service/availability"
)

// Machine машина состояний выбора слота: наведение, начало, длительность, подтверждение, отправка.
// Не потокобезопасна: вызывающая сторона сериализует операции.
type Machine struct {
	state     State
	catalogue []domain.DurationOption

	maps  map[mapKey]*availability.Map
	stale map[mapKey]bool

	hover   *SlotRef
	active  *SlotRef
	preview *availability.DurationChoice
	draft   *domain.SelectionDraft
	failure *Failure
	result  *domain.Reservation
}

// NewMachine создает машину в состоянии idle
func NewMachine(catalogue []domain.DurationOption) *Machine {
	return &Machine{
		state:     StateIdle,
		catalogue: domain.SortDurationOptions(catalogue),
		maps:      make(map[mapKey]*availability.Map),
		stale:     make(map[mapKey]bool),
	}
}

// State текущее состояние, включая временные
func (m *Machine) State() State {
	return m.state
}

// SetAvailability заменяет карту ресурса на дату целиком и снимает признак устаревания
func (m *Machine) SetAvailability(am *availability.Map) {
	key := SlotRef{ResourceID: am.ResourceID, Date: am.Date}.key()
	m.maps[key] = am
	delete(m.stale, key)
}

// Availability текущая карта для ресурса и даты
func (m *Machine) Availability(ref SlotRef) (*availability.Map, bool) {
	am, ok := m.maps[ref.key()]
	return am, ok
}

// IsStale карта ресурса на дату требует перестроения
func (m *Machine) IsStale(ref SlotRef) bool {
	return m.stale[ref.key()]
}

// Hover наведение на слот, влияет только на предпросмотр
func (m *Machine) Hover(ref SlotRef) bool {
	if m.state != StateIdle && m.state != StateHovering {
		return false
	}
	m.hover = &ref
	m.state = StateHovering
	return true
}

// Unhover уход указателя со слота
func (m *Machine) Unhover() {
	if m.state == StateHovering {
		m.hover = nil
		m.state = StateIdle
	}
}

// Hovered слот под указателем
func (m *Machine) Hovered() (SlotRef, bool) {
	if m.state != StateHovering || m.hover == nil {
		return SlotRef{}, false
	}
	return *m.hover, true
}

// Activate выбор начала. Повторный выбор того же слота возвращает в idle,
// выбор другого слота заменяет текущий. Недоступный слот не меняет состояние и дает false.
func (m *Machine) Activate(ref SlotRef) (bool, error) {
	switch m.state {
	case StateIdle, StateHovering, StateActive, StateDurationPreview:
	default:
		return false, fmt.Errorf("%w: activate from %s", ErrInvalidTransition, m.state)
	}

	if m.active != nil && m.active.equal(ref) && (m.state == StateActive || m.state == StateDurationPreview) {
		m.reset()
		return false, nil
	}

	am, err := m.mapFor(ref)
	if err != nil {
		return false, err
	}

	slot, ok := am.Slot(ref.StartTime)
	if !ok || !slot.Bookable {
		return false, nil
	}

	m.hover = nil
	m.preview = nil
	m.active = &ref
	m.state = StateActive
	return true, nil
}

// Active выбранное начало
func (m *Machine) Active() (SlotRef, bool) {
	if m.active == nil || (m.state != StateActive && m.state != StateDurationPreview) {
		return SlotRef{}, false
	}
	return *m.active, true
}

// Options опции каталога с выполнимостью от выбранного начала
func (m *Machine) Options() ([]availability.DurationChoice, error) {
	if m.state != StateActive && m.state != StateDurationPreview {
		return nil, fmt.Errorf("%w: options in %s", ErrInvalidTransition, m.state)
	}

	am, err := m.mapFor(*m.active)
	if err != nil {
		return nil, err
	}
	return availability.ResolveDurations(am, m.active.StartTime, m.catalogue), nil
}

// PreviewDuration временный предпросмотр интервала для опции
func (m *Machine) PreviewDuration(optionID int64) (availability.DurationChoice, error) {
	choice, err := m.choice(optionID)
	if err != nil {
		return availability.DurationChoice{}, err
	}
	m.preview = &choice
	m.state = StateDurationPreview
	return choice, nil
}

// Preview текущий предпросмотр длительности
func (m *Machine) Preview() (availability.DurationChoice, bool) {
	if m.state != StateDurationPreview || m.preview == nil {
		return availability.DurationChoice{}, false
	}
	return *m.preview, true
}

// ClearPreview снимает предпросмотр
func (m *Machine) ClearPreview() {
	if m.state == StateDurationPreview {
		m.preview = nil
		m.state = StateActive
	}
}

// ChooseDuration выбор длительности: выполнимая опция создает черновик,
// невыполнимая дает false без смены состояния
func (m *Machine) ChooseDuration(optionID int64) (bool, error) {
	choice, err := m.choice(optionID)
	if err != nil {
		return false, err
	}
	if !choice.Feasible {
		return false, nil
	}

	m.draft = &domain.SelectionDraft{
		ResourceID:      m.active.ResourceID,
		Date:            m.active.Date,
		StartTime:       m.active.StartTime,
		EndTime:         choice.EndTime,
		DurationMinutes: choice.Option.DurationMinutes,
		DurationOption:  choice.Option,
	}
	m.preview = nil
	m.state = StateDraft
	return true, nil
}

// SetCustomer заполняет данные клиента черновика
func (m *Machine) SetCustomer(customer domain.Customer) error {
	if m.state != StateDraft {
		return fmt.Errorf("%w: set customer in %s", ErrInvalidTransition, m.state)
	}
	m.draft.Customer = customer
	return nil
}

// Draft копия текущего черновика
func (m *Machine) Draft() (domain.SelectionDraft, bool) {
	if m.draft == nil {
		return domain.SelectionDraft{}, false
	}
	return *m.draft, true
}

// Cancel локальный сброс выбора без сетевых эффектов. Во время отправки запрещен.
func (m *Machine) Cancel() error {
	switch m.state {
	case StateIdle, StateHovering, StateActive, StateDurationPreview, StateDraft:
		m.reset()
		return nil
	case StateSubmitting:
		return ErrSubmissionInFlight
	default:
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, m.state)
	}
}

// Confirm проверяет данные клиента и повторно проверяет интервал,
// затем замораживает черновик и переводит машину в submitting.
// Ошибка проверки оставляет черновик без изменений.
// Проверка идет по текущей карте машины: вызывающий заменяет ее через SetAvailability
// картой на момент отправки, иначе прошедшие с активации слоты не будут отклонены.
// Retry проверяет так же, следующая отправка снова обновляет карту.
func (m *Machine) Confirm() (domain.SelectionDraft, error) {
	if m.state == StateSubmitting {
		return domain.SelectionDraft{}, ErrSubmissionInFlight
	}
	if m.state != StateDraft {
		return domain.SelectionDraft{}, fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, m.state)
	}

	if err := ValidateCustomer(m.draft.Customer); err != nil {
		return domain.SelectionDraft{}, err
	}

	if err := m.revalidate(); err != nil {
		return domain.SelectionDraft{}, err
	}

	m.state = StateSubmitting
	return *m.draft, nil
}

// Resolve применяет ответ бэкенда. Успех и конфликт помечают карту ресурса устаревшей.
func (m *Machine) Resolve(outcome Outcome) error {
	if m.state != StateSubmitting {
		return fmt.Errorf("%w: resolve from %s", ErrInvalidTransition, m.state)
	}

	key := SlotRef{ResourceID: m.draft.ResourceID, Date: m.draft.Date}.key()

	if outcome.Failure == nil {
		m.result = outcome.Reservation
		m.draft = nil
		m.active = nil
		m.failure = nil
		m.stale[key] = true
		m.state = StateSuccess
		return nil
	}

	failure := *outcome.Failure
	if failure.Kind == "" {
		failure.Kind = FailureUnknown
	}
	if strings.TrimSpace(failure.Message) == "" {
		failure.Message = defaultMessage(failure.Kind)
	}
	if failure.Kind == FailureConflict {
		m.stale[key] = true
	}

	m.failure = &failure
	m.state = StateError
	return nil
}

// Dismiss закрывает успешный результат
func (m *Machine) Dismiss() error {
	if m.state != StateSuccess {
		return fmt.Errorf("%w: dismiss from %s", ErrInvalidTransition, m.state)
	}
	m.reset()
	return nil
}

// Retry возвращает к черновику после ошибки. После конфликта требуется свежая карта.
func (m *Machine) Retry() error {
	if m.state != StateError {
		return fmt.Errorf("%w: retry from %s", ErrInvalidTransition, m.state)
	}
	if err := m.revalidate(); err != nil {
		return err
	}

	m.failure = nil
	m.state = StateDraft
	return nil
}

// Abandon отказ от черновика после ошибки
func (m *Machine) Abandon() error {
	if m.state != StateError {
		return fmt.Errorf("%w: abandon from %s", ErrInvalidTransition, m.state)
	}
	m.reset()
	return nil
}

// Snapshot долговременное состояние: hovering отображается как idle, duration_preview как active
func (m *Machine) Snapshot() Snapshot {
	snap := Snapshot{State: m.state}

	switch m.state {
	case StateHovering:
		snap.State = StateIdle
	case StateDurationPreview:
		snap.State = StateActive
	}

	if m.active != nil && snap.State == StateActive {
		active := *m.active
		snap.Active = &active
	}
	if m.draft != nil {
		draft := *m.draft
		snap.Draft = &draft
	}
	if m.failure != nil && m.state == StateError {
		failure := *m.failure
		snap.Failure = &failure
	}
	if m.result != nil && m.state == StateSuccess {
		result := *m.result
		snap.Reservation = &result
	}

	return snap
}

func (m *Machine) choice(optionID int64) (availability.DurationChoice, error) {
	choices, err := m.Options()
	if err != nil {
		return availability.DurationChoice{}, err
	}
	for _, c := range choices {
		if c.Option.ID == optionID {
			return c, nil
		}
	}
	return availability.DurationChoice{}, fmt.Errorf("%w: id=%d", ErrUnknownOption, optionID)
}

func (m *Machine) mapFor(ref SlotRef) (*availability.Map, error) {
	key := ref.key()
	if m.stale[key] {
		return nil, ErrAvailabilityStale
	}
	am, ok := m.maps[key]
	if !ok {
		return nil, fmt.Errorf("%w: resource=%d date=%s", ErrNoAvailability, ref.ResourceID, key.date)
	}
	return am, nil
}

func (m *Machine) revalidate() error {
	ref := SlotRef{ResourceID: m.draft.ResourceID, Date: m.draft.Date, StartTime: m.draft.StartTime}
	am, err := m.mapFor(ref)
	if err != nil {
		return err
	}
	verdict := availability.Check(am, m.draft.StartTime, m.draft.DurationMinutes)
	if !verdict.Feasible {
		return fmt.Errorf("%w: %s", ErrSlotUnavailable, verdict.Reason)
	}
	return nil
}

func (m *Machine) reset() {
	m.hover = nil
	m.active = nil
	m.preview = nil
	m.draft = nil
	m.failure = nil
	m.result = nil
	m.state = StateIdle
}

func defaultMessage(kind FailureKind) string {
	switch kind {
	case FailureConflict:
		return MessageConflict
	case FailureValidation:
		return MessageValidation
	case FailureTransient:
		return MessageTransient
	default:
		return MessageUnknown
	}
}
