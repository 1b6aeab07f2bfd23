package api

import "time"

// Note представляет заметку в том виде, в котором её отдает сервер.
// Содержимое - непрозрачная HTML-строка, клиент её не разбирает.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SharedNote - заметка из списка "поделились со мной" вместе с данными
// о том, кто и когда ею поделился.
type SharedNote struct {
	Note
	Author     string    `json:"author"`
	Permission string    `json:"permission"`
	Read       bool      `json:"read"`
	SharedAt   time.Time `json:"shared_at"`
}

// User представляет профиль пользователя.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
