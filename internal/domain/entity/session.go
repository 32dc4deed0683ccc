package entity

// CaptureState состояние сессии съёмки
type CaptureState string

const (
	StateGated       CaptureState = "gated"       // Нет доступа к камере
	StateIdle        CaptureState = "idle"        // Камера готова к съёмке
	StateCapturing   CaptureState = "capturing"   // Идёт съёмка кадра
	StatePreviewing  CaptureState = "previewing"  // Снимок готов, ждём подтверждения
	StateUnavailable CaptureState = "unavailable" // Камеры нет, состояние терминальное
)

// DevicePosition положение камеры
type DevicePosition string

const (
	PositionBack  DevicePosition = "back"  // Задняя камера
	PositionFront DevicePosition = "front" // Фронтальная камера
)

// Opposite возвращает противоположное положение камеры.
func (p DevicePosition) Opposite() DevicePosition {
	if p == PositionBack {
		return PositionFront
	}
	return PositionBack
}

// Session сессия съёмки одного чата.
// Живёт только в памяти и умирает вместе с процессом.
type Session struct {
	UserID    int64          // Telegram User ID
	ChatID    int64          // Telegram Chat ID
	State     CaptureState   // Текущее состояние съёмки
	Position  DevicePosition // Выбранная камера
	Torch     bool           // Состояние вспышки
	Image     *CapturedImage // Последний снимок (в previewing)
	Analyzing bool           // Флаг активного запроса анализа
}

// NewSession создаёт сессию в закрытом состоянии: доступ ещё не подтверждён.
func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID:   userID,
		ChatID:   chatID,
		State:    StateGated,
		Position: PositionBack,
	}
}

// SetState обновляет состояние сессии
func (s *Session) SetState(state CaptureState) {
	s.State = state
}

// CanToggle сообщает, можно ли сейчас переключать камеру и вспышку.
// Во время съёмки переключатели заблокированы.
func (s *Session) CanToggle() bool {
	return s.State == StateIdle || s.State == StatePreviewing
}
