package entity

import "fmt"

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingImage UserState = "awaiting_image" // Ожидание фото
	StateAwaitingVideo UserState = "awaiting_video" // Ожидание видео
	StateProcessing    UserState = "processing"     // Обработка
)

// User представляет оператора
type User struct {
	ID       int64     // Telegram User ID
	ChatID   int64     // Telegram Chat ID
	State    UserState // Текущее состояние пользователя
	EdgeLow  float32   // Нижний порог Canny для фото
	EdgeHigh float32   // Верхний порог Canny для фото
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:       userID,
		ChatID:   chatID,
		State:    StateMainMenu,
		EdgeLow:  DefaultEdgeLowCutoff,
		EdgeHigh: DefaultEdgeHighCutoff,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// SetThresholds меняет пороги Canny, которые оператор крутит для фото
func (u *User) SetThresholds(low, high float32) error {
	p := ImageProfile(low, high)
	if err := p.Validate(); err != nil {
		return fmt.Errorf("set thresholds: %w", err)
	}
	u.EdgeLow, u.EdgeHigh = low, high
	return nil
}

// ImageProfile возвращает профиль фото с порогами пользователя
func (u *User) ImageProfile() Profile {
	return ImageProfile(u.EdgeLow, u.EdgeHigh)
}
