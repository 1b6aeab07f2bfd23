package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind классифицирует ошибку API для вызывающего кода.
type ErrorKind string

// Виды ошибок API.
const (
	// KindValidation - ошибка локальной валидации, запрос не отправлялся.
	KindValidation ErrorKind = "validation"
	// KindUnauthorized - сессия недействительна (HTTP 401), запрос не повторяется.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindClient - ошибка запроса (HTTP 4xx кроме 401), запрос не повторяется.
	KindClient ErrorKind = "client"
	// KindServer - ошибка сервера (HTTP 5xx), запрос повторяется.
	KindServer ErrorKind = "server"
	// KindNetwork - транспортная ошибка, запрос повторяется.
	KindNetwork ErrorKind = "network"
)

// Error представляет нормализованную ошибку API. Разнородные тела ошибок
// сервера приводятся к единой форме на границе HTTP клиента, чтобы
// вызывающий код никогда не разбирал сырые ответы.
type Error struct {
	// Kind - классификация ошибки.
	Kind ErrorKind
	// Status - HTTP статус ответа, 0 для транспортных и локальных ошибок.
	Status int
	// Message - человекочитаемое сообщение.
	Message string
	// Cause - исходная ошибка транспорта, если была.
	Cause error
}

// Error реализует интерфейс error.
func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api: %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
}

// Unwrap возвращает исходную ошибку транспорта.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable сообщает, имеет ли смысл повторять запрос для этой ошибки.
func (e *Error) Retryable() bool {
	return e.Kind == KindServer || e.Kind == KindNetwork
}

// IsUnauthorized сообщает, является ли ошибка отказом в авторизации.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}

// KindOf возвращает вид ошибки API или пустую строку для прочих ошибок.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// errorBody описывает тело ошибки сервера. Сервер отдает сообщение
// в поле message либо error в зависимости от обработчика.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NewValidationError создает ошибку локальной валидации: запрос к
// серверу не отправлялся.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// newNetworkError создает ошибку транспорта.
func newNetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error(), Cause: err}
}

// newStatusError нормализует ответ с ошибочным статусом в типизированную
// ошибку: сообщение берется из JSON тела, при неразбираемом теле -
// стандартный текст статуса.
func newStatusError(status int, body []byte) *Error {
	kind := KindClient
	switch {
	case status == http.StatusUnauthorized:
		kind = KindUnauthorized
	case status >= http.StatusInternalServerError:
		kind = KindServer
	}

	message := ""
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			message = parsed.Message
		} else if parsed.Error != "" {
			message = parsed.Error
		}
	}
	if message == "" {
		message = http.StatusText(status)
	}

	return &Error{Kind: kind, Status: status, Message: message}
}
