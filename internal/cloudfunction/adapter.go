package cloudfunction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/trailtony/vidhub/internal/bootstrap"
)

// CloudFunctionRequest структура запроса от API Gateway
type CloudFunctionRequest struct {
	HTTPMethod        string            `json:"httpMethod"`
	Headers           map[string]string `json:"headers"`
	Path              string            `json:"path"`
	QueryStringParams map[string]string `json:"queryStringParameters"`
	Body              string            `json:"body"`
	IsBase64Encoded   bool              `json:"isBase64Encoded"`
}

// CloudFunctionResponse структура ответа для API Gateway
type CloudFunctionResponse struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

var (
	router      http.Handler
	initMu      sync.Mutex
	initialized bool
)

// newRouter собирает приложение; подменяется в тестах
var newRouter = func(ctx context.Context) (http.Handler, error) {
	app, err := bootstrap.Initialize(ctx)
	if err != nil {
		return nil, err
	}
	return app.Router, nil
}

// Handler - главная функция для Cloud Function
func Handler(ctx context.Context, request []byte) ([]byte, error) {
	h, err := ensureRouter(ctx)
	if err != nil {
		slog.Error("Failed to initialize Cloud Function", "error", err)
		return respondError(http.StatusInternalServerError, "Failed to initialize")
	}

	return Serve(ctx, h, request)
}

// ensureRouter инициализирует приложение при холодном старте.
// Неудачная попытка не запоминается, следующий вызов пробует снова.
func ensureRouter(ctx context.Context) (http.Handler, error) {
	initMu.Lock()
	defer initMu.Unlock()

	if initialized {
		return router, nil
	}

	h, err := newRouter(ctx)
	if err != nil {
		return nil, err
	}
	router = h
	initialized = true
	slog.Info("Cloud Function initialized successfully")
	return router, nil
}

// Serve translates one API Gateway event into a request on h.
func Serve(ctx context.Context, h http.Handler, request []byte) ([]byte, error) {
	// Парсинг запроса от API Gateway
	var cfReq CloudFunctionRequest
	if err := json.Unmarshal(request, &cfReq); err != nil {
		slog.Error("Failed to parse request", "error", err)
		return respondError(http.StatusBadRequest, "Invalid request format")
	}

	httpReq, err := buildHTTPRequest(ctx, &cfReq)
	if err != nil {
		slog.Error("Failed to build HTTP request", "error", err)
		return respondError(http.StatusBadRequest, "Failed to build request")
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httpReq)

	return buildCloudFunctionResponse(rr), nil
}

// buildHTTPRequest - создание HTTP запроса из Cloud Function request
func buildHTTPRequest(ctx context.Context, cfReq *CloudFunctionRequest) (*http.Request, error) {
	var bodyReader io.Reader
	if cfReq.Body != "" {
		body := []byte(cfReq.Body)
		// Multipart загрузки приходят от API Gateway в base64
		if cfReq.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(cfReq.Body)
			if err != nil {
				return nil, err
			}
			body = decoded
		}
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, cfReq.HTTPMethod, cfReq.Path, bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range cfReq.Headers {
		req.Header.Set(key, value)
	}

	if len(cfReq.QueryStringParams) > 0 {
		q := req.URL.Query()
		for key, value := range cfReq.QueryStringParams {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req, nil
}

// buildCloudFunctionResponse - создание Cloud Function response из HTTP response
func buildCloudFunctionResponse(rr *httptest.ResponseRecorder) []byte {
	headers := make(map[string]string)
	for key, values := range rr.Header() {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	response := CloudFunctionResponse{
		StatusCode:      rr.Code,
		Headers:         headers,
		Body:            rr.Body.String(),
		IsBase64Encoded: false,
	}

	respData, _ := json.Marshal(response)
	return respData
}

// respondError - вспомогательная функция для ответа об ошибке
func respondError(statusCode int, message string) ([]byte, error) {
	body, _ := json.Marshal(map[string]string{"error": message})

	response := CloudFunctionResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body:            string(body),
		IsBase64Encoded: false,
	}

	return json.Marshal(response)
}
