package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/farmstore-service/internal/api/http/handlers"
	"github.com/spec-kit/farmstore-service/internal/auth"
	"github.com/spec-kit/farmstore-service/internal/config"
	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/events"
	"github.com/spec-kit/farmstore-service/internal/observability"
	"github.com/spec-kit/farmstore-service/internal/service"
	"github.com/spec-kit/farmstore-service/internal/testutil"
)

const testAdminKey = "admin-secret"

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testServer struct {
	app      *fiber.App
	tokens   *auth.TokenManager
	orders   *testutil.Orders
	staff    *service.StaffService
	uploader *testutil.Uploader
	metrics  *observability.Metrics
}

func newTestServer(t *testing.T, redisErr error) *testServer {
	t.Helper()
	cfg := config.Config{
		App: config.AppConfig{
			Name:                  "farmstore-test",
			Version:               "test",
			RequestTimeoutSeconds: 5,
			AllowedOrigins:        []string{"http://localhost:5173"},
		},
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret",
			BcryptCost:        bcrypt.MinCost,
			AdminKey:          testAdminKey,
			AdminEmail:        "owner@example.com",
			AdminPassword:     "owner-pass",
			DefaultAdminEmail: "admin@annadata.com",
		},
	}
	clock := testutil.NewClock()
	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()

	s := &testServer{
		tokens:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		orders:   testutil.NewOrders(map[string]domain.OrderStatus{"ORD-1": domain.OrderStatusPending}),
		uploader: &testutil.Uploader{},
		metrics:  observability.NewMetrics(),
	}
	staffRepo := testutil.NewStaff(clock)
	assignmentRepo := testutil.NewAssignments(clock)
	actionRepo := testutil.NewActions(clock)
	s.orders.Attach(actionRepo, assignmentRepo)
	responses := testutil.NewSurveyResponses(clock)

	authSvc := service.NewAuthService(cfg, service.AuthDependencies{
		AdminRepo:    testutil.NewAdmins(clock),
		StaffRepo:    staffRepo,
		TokenManager: s.tokens,
		Logger:       logger,
	})
	require.NoError(t, authSvc.BootstrapAdmin(context.Background()))
	s.staff = service.NewStaffService(cfg, service.StaffDependencies{
		StaffRepo: staffRepo,
		Cache:     &testutil.DirectoryCache{},
		Logger:    logger,
	})
	assignments := service.NewAssignmentService(service.AssignmentDependencies{
		AssignmentRepo: assignmentRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	transfers := service.NewTransferService(service.TransferDependencies{
		TransferRepo:   testutil.NewTransfers(clock),
		AssignmentRepo: assignmentRepo,
		StaffRepo:      staffRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	status := service.NewStatusService(service.StatusDependencies{
		OrderRepo:         s.orders,
		ActionRepo:        actionRepo,
		AssignmentService: assignments,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	catalog := service.NewCatalogService(service.CatalogDependencies{
		ProductRepo:      testutil.NewProducts(clock),
		BlogRepo:         testutil.NewBlogs(clock),
		ReviewRepo:       testutil.NewReviews(clock),
		PlanRepo:         testutil.NewPlans(clock),
		FloatingTextRepo: testutil.NewFloatingTexts(clock),
		LuckyRepo:        testutil.NewLucky(clock),
		Uploader:         s.uploader,
		Logger:           logger,
	})
	forms := service.NewFormsService(service.FormsDependencies{
		InquiryRepo:     testutil.NewInquiries(clock),
		ParticipantRepo: testutil.NewParticipants(clock),
		SubscriberRepo:  testutil.NewSubscribers(clock),
		Logger:          logger,
	})
	payments := service.NewPaymentService(service.PaymentDependencies{
		PaymentRepo: testutil.NewPayments(clock),
		Uploader:    s.uploader,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	surveys := service.NewSurveyService(service.SurveyDependencies{
		SurveyRepo:   testutil.NewSurveys(clock, responses),
		ResponseRepo: responses,
		Logger:       logger,
	})

	s.app = NewApp(cfg.App)
	RegisterMiddlewares(s.app, logger, s.metrics, cfg.App)
	RegisterRoutes(s.app, RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": stubPinger{},
			"redis":    stubPinger{err: redisErr},
		}),
		Auth:           handlers.NewAuthHandler(authSvc),
		Staff:          handlers.NewStaffHandler(s.staff),
		Workflow:       handlers.NewWorkflowHandler(assignments, transfers, status),
		Catalog:        handlers.NewCatalogHandler(catalog),
		Forms:          handlers.NewFormsHandler(forms),
		Payments:       handlers.NewPaymentsHandler(payments),
		Surveys:        handlers.NewSurveysHandler(surveys),
		Admin:          handlers.NewAdminHandler(s.metrics),
		AuthMiddleware: auth.NewAuthMiddleware(auth.NewGuard(s.tokens, cfg.Auth.AdminKey)),
	})
	return s
}

// staffToken creates an active staff member and returns a bearer token for it.
func (s *testServer) staffToken(t *testing.T, code string) string {
	t.Helper()
	member, err := s.staff.Create(context.Background(), service.StaffCreateInput{
		Name:      "Staff " + code,
		Username:  strings.ToLower(code),
		Password:  "pw-" + code,
		StaffCode: code,
	})
	require.NoError(t, err)
	token, _, err := s.tokens.GenerateToken(domain.Identity{
		Role:      domain.RoleStaff,
		Subject:   member.ID,
		StaffCode: member.StaffCode,
		Username:  member.Username,
		Name:      member.Name,
	})
	require.NoError(t, err)
	return "Bearer " + token
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type call struct {
	method      string
	path        string
	body        any
	raw         io.Reader
	contentType string
	headers     map[string]string
}

func (s *testServer) do(t *testing.T, c call) (int, envelope) {
	t.Helper()
	var body io.Reader = c.raw
	contentType := c.contentType
	if c.body != nil {
		payload, err := json.Marshal(c.body)
		require.NoError(t, err)
		body = bytes.NewReader(payload)
		contentType = fiber.MIMEApplicationJSON
	}
	req := httptest.NewRequest(c.method, c.path, body)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func asAdmin() map[string]string { return map[string]string{auth.AdminKeyHeader: testAdminKey} }

func bearer(token string) map[string]string {
	return map[string]string{fiber.HeaderAuthorization: token}
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(fiber.MethodGet, "/api/health", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"ok":true}`, string(raw))

	resp, err = s.app.Test(httptest.NewRequest(fiber.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestReadinessReportsFailingDependency(t *testing.T) {
	s := newTestServer(t, errors.New("connection refused"))

	resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestGuardedRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	staff := s.staffToken(t, "A1")

	tests := []struct {
		name    string
		call    call
		want    int
		errCode string
	}{
		{"admin route anonymous", call{method: fiber.MethodGet, path: "/api/admin/transfers"}, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"admin route with staff token", call{method: fiber.MethodGet, path: "/api/admin/transfers", headers: bearer(staff)}, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"admin route wrong key", call{method: fiber.MethodGet, path: "/api/admin/transfers", headers: map[string]string{auth.AdminKeyHeader: "nope"}}, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"admin route with key", call{method: fiber.MethodGet, path: "/api/admin/transfers", headers: asAdmin()}, fiber.StatusOK, ""},
		{"staff route as admin", call{method: fiber.MethodGet, path: "/api/staff/my-assignments", headers: asAdmin()}, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"staff route forged token", call{method: fiber.MethodGet, path: "/api/staff/my-assignments", headers: bearer("Bearer not-a-jwt")}, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"staff route with token", call{method: fiber.MethodGet, path: "/api/staff/my-assignments", headers: bearer(staff)}, fiber.StatusOK, ""},
		{"directory as staff", call{method: fiber.MethodGet, path: "/api/staff/list", headers: bearer(staff)}, fiber.StatusOK, ""},
		{"directory as admin", call{method: fiber.MethodGet, path: "/api/staff/list", headers: asAdmin()}, fiber.StatusOK, ""},
		{"public catalog", call{method: fiber.MethodGet, path: "/api/products"}, fiber.StatusOK, ""},
		{"unknown route", call{method: fiber.MethodGet, path: "/api/nope"}, fiber.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := s.do(t, tt.call)
			assert.Equal(t, tt.want, code)
			if tt.errCode != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.errCode, env.Error.Code)
			}
		})
	}
}

func TestLoginFlows(t *testing.T) {
	s := newTestServer(t, nil)
	s.staffToken(t, "A1")

	code, env := s.do(t, call{method: fiber.MethodPost, path: "/api/admin/login", body: map[string]string{"email": "owner@example.com", "password": "owner-pass"}})
	require.Equal(t, fiber.StatusOK, code)
	adminToken := decode[map[string]any](t, env)["token"].(string)

	code, _ = s.do(t, call{method: fiber.MethodGet, path: "/api/admin/transfers", headers: bearer("Bearer " + adminToken)})
	assert.Equal(t, fiber.StatusOK, code)

	code, env = s.do(t, call{method: fiber.MethodPost, path: "/api/staff/login", body: map[string]string{"username": "a1", "password": "pw-A1"}})
	require.Equal(t, fiber.StatusOK, code)
	login := decode[map[string]any](t, env)
	assert.Equal(t, "A1", login["staffCode"])
	assert.NotEmpty(t, login["token"])

	code, env = s.do(t, call{method: fiber.MethodPost, path: "/api/staff/login", body: map[string]string{"username": "a1", "password": "wrong"}})
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestClaimTransferAndStatusOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.staffToken(t, "A1")
	bob := s.staffToken(t, "B2")

	code, env := s.do(t, call{method: fiber.MethodPost, path: "/api/staff/assign", body: map[string]string{"orderNumber": "ORD-1"}, headers: bearer(alice)})
	require.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "A1", decode[domain.StaffAssignment](t, env).StaffCode)

	code, env = s.do(t, call{method: fiber.MethodPost, path: "/api/staff/assign", body: map[string]string{"orderNumber": "ORD-1"}, headers: bearer(bob)})
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	code, env = s.do(t, call{method: fiber.MethodPost, path: "/api/staff/transfers", body: map[string]string{"orderNumber": "ORD-1", "toStaff": "B2"}, headers: bearer(alice)})
	require.Equal(t, fiber.StatusCreated, code)
	transfer := decode[domain.TransferRequest](t, env)

	code, _ = s.do(t, call{method: fiber.MethodPost, path: "/api/staff/transfers/" + transfer.ID + "/accept", headers: bearer(alice)})
	assert.Equal(t, fiber.StatusForbidden, code)

	code, env = s.do(t, call{method: fiber.MethodPost, path: "/api/staff/transfers/" + transfer.ID + "/accept", headers: bearer(bob)})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, domain.TransferAccepted, decode[domain.TransferRequest](t, env).Status)

	code, env = s.do(t, call{method: fiber.MethodGet, path: "/api/staff/my-assignments", headers: bearer(bob)})
	require.Equal(t, fiber.StatusOK, code)
	mine := decode[[]domain.StaffAssignment](t, env)
	require.Len(t, mine, 1)
	assert.Equal(t, "ORD-1", mine[0].OrderNumber)

	code, _ = s.do(t, call{method: fiber.MethodPost, path: "/api/staff-actions", body: map[string]string{"orderNumber": "ORD-1", "newStatus": "shipped"}, headers: bearer(bob)})
	require.Equal(t, fiber.StatusCreated, code)

	code, env = s.do(t, call{method: fiber.MethodPost, path: "/api/staff-actions", body: map[string]string{"orderNumber": "ORD-1", "newStatus": "paid"}, headers: bearer(bob)})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	code, env = s.do(t, call{method: fiber.MethodGet, path: "/api/staff-actions?orderNumbers=ORD-1,ORD-404", headers: asAdmin()})
	require.Equal(t, fiber.StatusOK, code)
	latest := decode[map[string]domain.StaffOrderAction](t, env)
	require.Contains(t, latest, "ORD-1")
	assert.Equal(t, domain.OrderStatusShipped, latest["ORD-1"].NewStatus)
	assert.NotContains(t, latest, "ORD-404")

	code, env = s.do(t, call{method: fiber.MethodPost, path: "/api/staff-actions", body: map[string]string{"orderNumber": "ORD-1", "newStatus": "delivered"}, headers: bearer(bob)})
	require.Equal(t, fiber.StatusCreated, code)

	code, env = s.do(t, call{method: fiber.MethodGet, path: "/api/staff/my-completed", headers: bearer(bob)})
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, decode[[]domain.StaffAssignment](t, env), 1)

	code, env = s.do(t, call{method: fiber.MethodPatch, path: "/api/admin/orders/ORD-1/status", body: map[string]string{"status": "rejected"}, headers: asAdmin()})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "rejected", decode[map[string]any](t, env)["status"])
}

func TestProgressView(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.staffToken(t, "A1")
	s.orders.Put("ORD-2", domain.OrderStatusConfirmed)

	code, env := s.do(t, call{method: fiber.MethodGet, path: "/api/staff/orders/ORD-2/progress", headers: bearer(alice)})
	require.Equal(t, fiber.StatusOK, code)
	progress := decode[service.Progress](t, env)
	assert.Equal(t, domain.OrderStatusConfirmed, progress.Status)
	assert.NotContains(t, progress.AllowedTargets, domain.OrderStatusPaid)
	assert.Contains(t, progress.AllowedTargets, domain.OrderStatusDelivered)
}

func TestMalformedBodyIsValidationError(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.staffToken(t, "A1")

	code, env := s.do(t, call{
		method:      fiber.MethodPost,
		path:        "/api/staff/assign",
		raw:         strings.NewReader("{not json"),
		contentType: fiber.MIMEApplicationJSON,
		headers:     bearer(alice),
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.NotNil(t, env.Error.Details)
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestPaymentSubmissionAndModeration(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.staffToken(t, "A1")

	body, ct := multipartBody(t, map[string]string{"orderNumber": "ORD-1", "customerName": "Meera", "method": "upi", "amount": "499"}, "", "")
	code, env := s.do(t, call{method: fiber.MethodPost, path: "/api/payments", raw: body, contentType: ct})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	body, ct = multipartBody(t, map[string]string{"orderNumber": "ORD-1", "customerName": "Meera", "method": "upi", "amount": "499"}, "proof", "receipt.png")
	code, env = s.do(t, call{method: fiber.MethodPost, path: "/api/payments", raw: body, contentType: ct})
	require.Equal(t, fiber.StatusCreated, code)
	payment := decode[domain.Payment](t, env)
	assert.Equal(t, domain.PaymentPending, payment.Status)
	assert.Equal(t, "https://media.example.com/receipt.png", payment.ProofURL)

	code, env = s.do(t, call{method: fiber.MethodGet, path: "/api/payments", headers: bearer(alice)})
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, decode[[]domain.Payment](t, env), 1)

	code, _ = s.do(t, call{method: fiber.MethodPatch, path: "/api/payments/" + payment.ID + "/approve", headers: bearer(alice)})
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, env = s.do(t, call{method: fiber.MethodPatch, path: "/api/payments/" + payment.ID + "/approve", headers: asAdmin()})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, domain.PaymentApproved, decode[domain.Payment](t, env).Status)
}

func TestPublicFormsAndAdminInbox(t *testing.T) {
	s := newTestServer(t, nil)

	code, _ := s.do(t, call{method: fiber.MethodPost, path: "/api/callbacks", body: map[string]string{"name": "Kiran", "phone": "9000000000", "message": "call me"}})
	require.Equal(t, fiber.StatusCreated, code)

	code, env := s.do(t, call{method: fiber.MethodGet, path: "/api/callbacks", headers: asAdmin()})
	require.Equal(t, fiber.StatusOK, code)
	callbacks := decode[[]domain.Inquiry](t, env)
	require.Len(t, callbacks, 1)

	code, env = s.do(t, call{method: fiber.MethodGet, path: "/api/contact", headers: asAdmin()})
	require.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, decode[[]domain.Inquiry](t, env))

	code, _ = s.do(t, call{method: fiber.MethodDelete, path: "/api/contact/" + callbacks[0].ID, headers: asAdmin()})
	assert.Equal(t, fiber.StatusNotFound, code)

	code, env = s.do(t, call{method: fiber.MethodDelete, path: "/api/callbacks/" + callbacks[0].ID, headers: asAdmin()})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, decode[map[string]any](t, env)["deleted"])

	code, env = s.do(t, call{method: fiber.MethodPost, path: "/api/subscribers", body: map[string]string{"email": " Farmer@Example.com "}})
	require.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "farmer@example.com", decode[domain.NewsletterSubscriber](t, env).Email)
}

func TestSurveyLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	code, env := s.do(t, call{method: fiber.MethodGet, path: "/api/surveys/latest"})
	require.Equal(t, fiber.StatusOK, code)
	assert.True(t, len(env.Data) == 0 || string(env.Data) == "null")

	code, env = s.do(t, call{method: fiber.MethodPost, path: "/api/surveys", headers: asAdmin(), body: map[string]any{
		"title":     "Harvest feedback",
		"questions": []map[string]any{{"text": "How fresh?", "required": true}, {"text": " "}},
	}})
	require.Equal(t, fiber.StatusCreated, code)
	survey := decode[domain.Survey](t, env)
	assert.Len(t, survey.Questions, 1)

	code, _ = s.do(t, call{method: fiber.MethodPost, path: "/api/surveys/" + survey.ID + "/responses", body: map[string]any{"answers": []string{""}}})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = s.do(t, call{method: fiber.MethodPost, path: "/api/surveys/" + survey.ID + "/responses", body: map[string]any{"answers": []string{"Very"}}})
	require.Equal(t, fiber.StatusCreated, code)

	code, env = s.do(t, call{method: fiber.MethodGet, path: "/api/surveys/" + survey.ID + "/responses", headers: asAdmin()})
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, decode[[]domain.SurveyResponse](t, env), 1)

	code, _ = s.do(t, call{method: fiber.MethodPost, path: "/api/surveys/not-a-uuid/responses", body: map[string]any{"answers": []string{"x"}}})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestSurveyAcceptsScalarAnswers(t *testing.T) {
	s := newTestServer(t, nil)

	code, env := s.do(t, call{method: fiber.MethodPost, path: "/api/surveys", headers: asAdmin(), body: map[string]any{
		"title": "Harvest feedback",
		"questions": []map[string]any{
			{"text": "Rating out of 5?", "required": true},
			{"text": "Would you order again?"},
			{"text": "Anything else?"},
			{"text": "Pick-up slots"},
		},
	}})
	require.Equal(t, fiber.StatusCreated, code)
	survey := decode[domain.Survey](t, env)

	path := "/api/surveys/" + survey.ID + "/responses"
	code, env = s.do(t, call{method: fiber.MethodPost, path: path, body: map[string]any{
		"answers": []any{5, true, nil, []string{"am", "pm"}},
	}})
	require.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, []string{"5", "true", "", `["am","pm"]`}, decode[domain.SurveyResponse](t, env).Answers)

	code, _ = s.do(t, call{method: fiber.MethodPost, path: path, body: map[string]any{"answers": []any{nil, 2.5}}})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestUploadImageAndMediaFailure(t *testing.T) {
	s := newTestServer(t, nil)

	body, ct := multipartBody(t, nil, "image", "leaf.png")
	code, env := s.do(t, call{method: fiber.MethodPost, path: "/api/upload-image", raw: body, contentType: ct, headers: asAdmin()})
	require.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "https://media.example.com/leaf.png", decode[map[string]string](t, env)["url"])

	s.uploader.Err = errors.New("upstream 500")
	body, ct = multipartBody(t, map[string]string{"name": "Basil"}, "image", "basil.png")
	code, env = s.do(t, call{method: fiber.MethodPost, path: "/api/products", raw: body, contentType: ct, headers: asAdmin()})
	assert.Equal(t, fiber.StatusBadGateway, code)
	assert.Equal(t, "MEDIA_UNAVAILABLE", env.Error.Code)
}

func TestMetricsSnapshotCountsErrors(t *testing.T) {
	s := newTestServer(t, nil)

	s.do(t, call{method: fiber.MethodGet, path: "/api/admin/transfers"})
	code, env := s.do(t, call{method: fiber.MethodGet, path: "/api/admin/metrics", headers: asAdmin()})
	require.Equal(t, fiber.StatusOK, code)

	snap := decode[observability.Snapshot](t, env)
	assert.NotEmpty(t, snap.Requests)
	var unauthorized int64
	for key, n := range snap.Errors {
		if strings.Contains(key, "UNAUTHORIZED") {
			unauthorized += n
		}
	}
	assert.Equal(t, int64(1), unauthorized)
}

func TestCORSPreflightAllowsConfiguredOrigin(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(fiber.MethodOptions, "/api/staff/assign", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:5173")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodPost)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
}
