package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"watch-storefront-backend/internal/catalog"
	"watch-storefront-backend/internal/docstore"
	"watch-storefront-backend/internal/handlers"
	"watch-storefront-backend/internal/mailer"
	"watch-storefront-backend/internal/middleware"
	"watch-storefront-backend/internal/notify"
	"watch-storefront-backend/internal/payments"
	"watch-storefront-backend/internal/services"
)

const (
	adminSecret   = "admin-secret"
	webhookSecret = "whsec_test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGateway struct{}

func (stubGateway) CreateIntent(ctx context.Context, req payments.IntentRequest) (*payments.Intent, error) {
	return &payments.Intent{ID: "pi_test", ClientSecret: "pi_test_secret_123"}, nil
}

type stubPhotos struct{}

func (stubPhotos) Upload(path, contentType string, data []byte) (string, error) {
	return "https://cdn.example.com/" + path, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type testServer struct {
	router *gin.Engine
	store  *docstore.Memory
	mailer *recordingMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger, _ := test.NewNullLogger()
	log := logger.WithField("component", "test")

	store := docstore.NewMemory()
	m := &recordingMailer{}
	notifier := notify.NewRouter(store, m, notify.Config{AdminEmail: "owner@example.com"}, log)

	router := handlers.NewRouter(handlers.Dependencies{
		Health:      handlers.NewHealthHandler(nil),
		Watches:     handlers.NewWatchHandler(catalog.StoreSource{Store: store}, store, 20, log),
		Submissions: handlers.NewSubmissionHandler(services.NewSubmissionService(store), log),
		Uploads:     handlers.NewUploadHandler(services.NewUploadService(stubPhotos{}, 1<<20), log),
		Payments: handlers.NewPaymentHandler(
			payments.NewService(store, stubGateway{}, "usd", log), webhookSecret, false, log),
		Admin:       handlers.NewAdminHandler(store, notifier, log),
		DeepLinks:   handlers.NewDeepLinkHandler(store, "watchstore", "https://apps.apple.com/app/id1", "https://play.google.com/store/apps/details?id=x"),
		RateLimiter: middleware.NewRateLimiter(600, 100, log),
		AdminAuth:   middleware.AdminAuth(adminSecret, "service_role"),
		Log:         log,
	})

	return &testServer{router: router, store: store, mailer: m}
}

func (s *testServer) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case []byte:
			buf.Write(b)
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func adminToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ops", "role": "service_role"})
	s, err := token.SignedString([]byte(adminSecret))
	require.NoError(t, err)
	return "Bearer " + s
}
