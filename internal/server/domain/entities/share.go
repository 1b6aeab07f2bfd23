package entities

import (
	"errors"
	"time"
)

// Permission определяет уровень доступа получателя к чужой заметке.
type Permission string

// Уровни доступа для общих заметок.
const (
	PermissionView Permission = "view"
	PermissionEdit Permission = "edit"
)

// Ошибки доменной модели общего доступа.
var (
	ErrInvalidPermission = errors.New("invalid share permission")
	ErrShareToSelf       = errors.New("cannot share a note with its owner")
	ErrAlreadyShared     = errors.New("note already shared with this user")
)

// IsValid проверяет, что уровень доступа входит в допустимый набор.
func (p Permission) IsValid() bool {
	return p == PermissionView || p == PermissionEdit
}

// ShareGrant связывает заметку, получателя и уровень доступа.
// Общий доступ не копирует заметку, а выдает право на неё.
type ShareGrant struct {
	ID          string     `json:"id"`
	NoteID      string     `json:"note_id"`
	RecipientID string     `json:"recipient_id"`
	Permission  Permission `json:"permission"`
	Read        bool       `json:"read"`
	SharedAt    time.Time  `json:"shared_at"`
}

// SharedNote - проекция заметки для списка "поделились со мной":
// заметка вместе с данными о том, кто и когда ею поделился.
type SharedNote struct {
	Note
	Author     string     `json:"author"`
	Permission Permission `json:"permission"`
	Read       bool       `json:"read"`
	SharedAt   time.Time  `json:"shared_at"`
}
