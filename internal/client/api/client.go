package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"time"

	"notesapp/internal/client/resilience"
	"notesapp/pkg/logger"

	"go.uber.org/zap"
)

// Константы для контекстов ошибок.
const (
	errCtxCreateCookieJar = "failed to create cookie jar"
	errCtxEncodeBody      = "failed to encode request body"
	errCtxBuildMultipart  = "failed to build multipart body"
)

// Константы для логирования.
const (
	logRequest       = "api request"
	logRequestFailed = "api request failed"
)

const defaultTimeout = 30 * time.Second

// Client выполняет запросы к REST API с единообразной обработкой ошибок.
// Сессионные учетные данные передаются автоматически через cookie jar,
// транспортные ошибки и ответы 5xx повторяются с экспоненциальной задержкой.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      *resilience.Retry
}

// NewClient создает клиент API с конфигурацией повторных попыток по умолчанию.
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxCreateCookieJar, err)
	}

	httpClient := &http.Client{
		Jar:     jar,
		Timeout: defaultTimeout,
	}

	return NewClientWithConfig(baseURL, httpClient, resilience.DefaultRetryConfig()), nil
}

// NewClientWithConfig создает клиент API с явным HTTP клиентом и настройками
// повторных попыток. Используется в тестах для управления задержками.
func NewClientWithConfig(baseURL string, httpClient *http.Client, retryCfg resilience.RetryConfig) *Client {
	retryCfg.ShouldRetry = retryable

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		retry:      resilience.NewRetry("api", retryCfg),
	}
}

// retryable повторяет только серверные и транспортные ошибки. Ответы 4xx,
// включая 401, возвращаются немедленно.
func retryable(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Retryable()
}

// Get выполняет GET запрос и декодирует JSON ответ в out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// Post выполняет POST запрос с JSON телом и декодирует ответ в out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	data, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, data, "application/json", out)
}

// Put выполняет PUT запрос с JSON телом и декодирует ответ в out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	data, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, data, "application/json", out)
}

// Delete выполняет DELETE запрос.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

// PutMultipart выполняет PUT запрос с телом multipart/form-data: текстовые
// поля из fields и, если file не nil, файл в поле fileField. Используется
// для загрузки аватара в профиле.
func (c *Client) PutMultipart(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return NewValidationError(fmt.Sprintf("%s: %v", errCtxBuildMultipart, err))
		}
	}

	if file != nil {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			return NewValidationError(fmt.Sprintf("%s: %v", errCtxBuildMultipart, err))
		}
		if _, err := io.Copy(part, file); err != nil {
			return NewValidationError(fmt.Sprintf("%s: %v", errCtxBuildMultipart, err))
		}
	}

	if err := writer.Close(); err != nil {
		return NewValidationError(fmt.Sprintf("%s: %v", errCtxBuildMultipart, err))
	}

	return c.do(ctx, http.MethodPut, path, buf.Bytes(), writer.FormDataContentType(), out)
}

// encodeJSON сериализует тело запроса один раз, чтобы повторные попытки
// отправляли идентичные байты.
func encodeJSON(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("%s: %v", errCtxEncodeBody, err))
	}
	return data, nil
}

// do выполняет запрос с повторными попытками и нормализует результат:
// 2xx декодируется в out (204 оставляет out нетронутым), прочие статусы
// и транспортные ошибки приводятся к типизированной ошибке API.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	log := logger.Log(ctx).With(
		zap.String("method", method),
		zap.String("path", path),
	)
	log.Debug(ctx, logRequest)

	err := c.retry.Execute(ctx, func(ctx context.Context) error {
		return c.doOnce(ctx, method, path, body, contentType, out)
	})
	if err != nil {
		log.Debug(ctx, logRequestFailed, zap.Error(err))
	}
	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return NewValidationError(err.Error())
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return newNetworkError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return newNetworkError(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return newStatusError(resp.StatusCode, data)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &Error{
			Kind:    KindClient,
			Status:  resp.StatusCode,
			Message: "unexpected response body",
			Cause:   err,
		}
	}

	return nil
}
