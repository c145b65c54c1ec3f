package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/database/dbtest"
	"github.com/capital/finance/pkg/domains/auth"
	"github.com/capital/finance/pkg/domains/category"
	"github.com/capital/finance/pkg/domains/goal"
	"github.com/capital/finance/pkg/domains/reminder"
	"github.com/capital/finance/pkg/domains/summary"
	"github.com/capital/finance/pkg/domains/transaction"
	"github.com/capital/finance/pkg/entities"
	"github.com/capital/finance/pkg/middleware"
	"github.com/capital/finance/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminKey = "admin-secret"

type inbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (i *inbox) SendResetCode(_ context.Context, email, _ string, code string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.codes[email] = code
	return nil
}

func (i *inbox) code(email string) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.codes[email]
}

type api struct {
	t        *testing.T
	router   *gin.Engine
	inbox    *inbox
	category uint
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.NewCustomValidator(v)
	}

	db := dbtest.New(t)
	food := entities.Category{Name: "Food", Direction: entities.Outflow}
	require.NoError(t, db.Create(&food).Error)

	box := &inbox{codes: map[string]string{}}
	authService := auth.NewService(auth.NewRepo(db), auth.NewTokenIssuer("test-secret"), box, auth.WithBcryptCost(bcrypt.MinCost))
	reminders := reminder.NewService(reminder.NewRepo(db), time.UTC)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) { c.JSON(405, gin.H{"error": "method not allowed"}) })

	v1 := r.Group("/api/v1")
	AuthRoutes(v1.Group("/auth"), authService)
	protected := v1.Group("", middleware.CheckAuth(authService))
	CategoryRoutes(protected.Group("/categories"), category.NewService(category.NewRepo(db)), adminKey)
	TransactionRoutes(protected.Group("/transactions"), transaction.NewService(transaction.NewRepo(db), time.UTC), reminders)
	ReminderRoutes(protected.Group("/reminders"), reminders)
	GoalRoutes(protected.Group("/goals"), goal.NewService(goal.NewRepo(db)))
	SummaryRoutes(protected.Group("/summary"), summary.NewService(summary.NewRepo(db), time.UTC), time.UTC)

	return &api{t: t, router: r, inbox: box, category: food.ID}
}

func (a *api) do(method, path, token string, body interface{}, headers ...string) (int, map[string]interface{}) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	out := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func (a *api) register(name, email string) string {
	a.t.Helper()
	status, body := a.do(http.MethodPost, "/auth/register", "", gin.H{"name": name, "email": email, "password": "secret123"})
	require.Equal(a.t, 201, status, body)
	token, _ := body["token"].(string)
	require.NotEmpty(a.t, token)
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	a := newAPI(t)
	a.register("Ana", "ana@example.com")

	status, body := a.do(http.MethodPost, "/auth/register", "", gin.H{"name": "Ana", "email": "ANA@example.com", "password": "secret123"})
	assert.Equal(t, 409, status)
	assert.NotEmpty(t, body["error"])

	status, body = a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "ana@example.com", "password": "secret123"})
	require.Equal(t, 200, status)
	assert.NotEmpty(t, body["token"])

	status, wrong := a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "ana@example.com", "password": "nope"})
	assert.Equal(t, 401, status)
	status, unknown := a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "nobody@example.com", "password": "nope"})
	assert.Equal(t, 401, status)
	assert.Equal(t, wrong, unknown, "login failures must not reveal whether the email exists")

	status, body = a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "not-an-email"})
	assert.Equal(t, 400, status)
	assert.Equal(t, constant.INVALID_REQUEST, body["error"])
}

func TestProtectedRoutesNeedBearerToken(t *testing.T) {
	a := newAPI(t)
	token := a.register("Ana", "ana@example.com")

	status, body := a.do(http.MethodGet, "/auth/verify-token", "", nil)
	assert.Equal(t, 401, status)
	assert.Equal(t, constant.TOKEN_REQUIRED, body["error"])
	assert.Equal(t, constant.TOKEN_FORMAT_HINT, body["detail"])

	status, body = a.do(http.MethodGet, "/auth/verify-token", "garbage", nil)
	assert.Equal(t, 401, status)
	assert.Equal(t, constant.INVALID_TOKEN, body["error"])

	status, body = a.do(http.MethodGet, "/auth/verify-token", token, nil)
	require.Equal(t, 200, status)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "ana@example.com", user["email"])

	status, body = a.do(http.MethodPost, "/auth/refresh-token", token, nil)
	require.Equal(t, 200, status)
	assert.NotEmpty(t, body["token"])

	status, _ = a.do(http.MethodPost, "/auth/deactivate", token, nil)
	require.Equal(t, 200, status)
	status, body = a.do(http.MethodGet, "/auth/verify-token", token, nil)
	assert.Equal(t, 401, status)
	assert.Equal(t, constant.INVALID_TOKEN, body["error"])
}

func TestPasswordResetOverHTTP(t *testing.T) {
	a := newAPI(t)
	a.register("Ana", "ana@example.com")

	status, known := a.do(http.MethodPost, "/auth/forgot-password", "", gin.H{"email": "ana@example.com"})
	require.Equal(t, 200, status)
	status, unknown := a.do(http.MethodPost, "/auth/forgot-password", "", gin.H{"email": "ghost@example.com"})
	require.Equal(t, 200, status)
	assert.Equal(t, known, unknown)

	code := a.inbox.code("ana@example.com")
	require.Len(t, code, constant.ResetCodeLength)

	status, bad := a.do(http.MethodPost, "/auth/verify-reset-code", "", gin.H{"email": "ana@example.com", "code": "abc"})
	assert.Equal(t, 400, status)
	assert.Equal(t, constant.INVALID_RESET_CODE, bad["error"])

	status, body := a.do(http.MethodPost, "/auth/verify-reset-code", "", gin.H{"email": "ana@example.com", "code": code})
	require.Equal(t, 200, status)
	assert.Equal(t, true, body["valid"])

	reset := gin.H{"email": "ana@example.com", "code": code, "new_password": "brand-new"}
	status, _ = a.do(http.MethodPost, "/auth/reset-password", "", reset)
	require.Equal(t, 200, status)

	status, replay := a.do(http.MethodPost, "/auth/reset-password", "", reset)
	assert.Equal(t, 400, status)
	assert.Equal(t, bad, replay)

	status, _ = a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "ana@example.com", "password": "brand-new"})
	assert.Equal(t, 200, status)
}

func TestInstallmentTransactionAndReminders(t *testing.T) {
	a := newAPI(t)
	ana := a.register("Ana", "ana@example.com")
	bia := a.register("Bia", "bia@example.com")

	occurred := time.Now().UTC().Format(time.RFC3339)
	status, body := a.do(http.MethodPost, "/transactions", ana, gin.H{
		"category_id":       a.category,
		"direction":         "outflow",
		"description":       "Phone",
		"amount":            "100.00",
		"occurred_at":       occurred,
		"payment_form":      "installment",
		"installment_count": 3,
	})
	require.Equal(t, 201, status, body)
	reminders := body["reminders"].([]interface{})
	require.Len(t, reminders, 3)
	txID := uint(body["transaction"].(map[string]interface{})["ID"].(float64))

	status, body = a.do(http.MethodGet, fmt.Sprintf("/transactions/%d/reminders", txID), ana, nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["reminders"], 3)

	status, _ = a.do(http.MethodGet, fmt.Sprintf("/transactions/%d/reminders", txID), bia, nil)
	assert.Equal(t, 404, status)

	status, body = a.do(http.MethodGet, "/reminders/notifications", ana, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["count"])

	status, body = a.do(http.MethodGet, "/reminders/upcoming", bia, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(0), body["count"])

	first := reminders[0].(map[string]interface{})
	path := fmt.Sprintf("/reminders/%d/paid", uint(first["id"].(float64)))

	status, _ = a.do(http.MethodPatch, path, bia, nil)
	assert.Equal(t, 404, status)

	status, body = a.do(http.MethodPatch, path, ana, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, true, body["paid"])
	assert.NotNil(t, body["paid_at"])

	status, body = a.do(http.MethodGet, "/transactions?page=1&direction=outflow", ana, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["total"])

	status, _ = a.do(http.MethodGet, "/transactions?page=x", ana, nil)
	assert.Equal(t, 400, status)

	status, body = a.do(http.MethodDelete, "/transactions/abc", ana, nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, constant.INVALID_ID, body["error"])
}

func TestTransactionRejectsBadPayloads(t *testing.T) {
	a := newAPI(t)
	ana := a.register("Ana", "ana@example.com")

	status, _ := a.do(http.MethodPost, "/transactions", ana, gin.H{
		"category_id": a.category,
		"direction":   "sideways",
		"description": "x",
		"amount":      "10",
	})
	assert.Equal(t, 400, status)

	status, body := a.do(http.MethodPost, "/transactions", ana, gin.H{
		"category_id":       a.category,
		"direction":         "outflow",
		"description":       "x",
		"amount":            "10",
		"payment_form":      "installment",
		"installment_count": 1,
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, fmt.Sprintf(constant.INSTALLMENTS_REQUIRED, constant.MaxInstallments), body["error"])
}

func TestCategoryWritesNeedAdminKey(t *testing.T) {
	a := newAPI(t)
	ana := a.register("Ana", "ana@example.com")

	payload := gin.H{"name": "Salary", "direction": "inflow"}
	status, body := a.do(http.MethodPost, "/categories", ana, payload)
	assert.Equal(t, 403, status)
	assert.Equal(t, constant.ADMIN_ONLY, body["error"])

	status, _ = a.do(http.MethodPost, "/categories", ana, payload, middleware.AdminKeyHeader, adminKey)
	assert.Equal(t, 201, status)

	status, body = a.do(http.MethodGet, "/categories", ana, nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["categories"], 2)
}

func TestGoalsAndSummary(t *testing.T) {
	a := newAPI(t)
	ana := a.register("Ana", "ana@example.com")

	status, body := a.do(http.MethodPost, "/goals", ana, gin.H{"title": "Trip", "target_amount": "1000"})
	require.Equal(t, 201, status, body)
	id := uint(body["goal"].(map[string]interface{})["ID"].(float64))

	status, body = a.do(http.MethodPost, fmt.Sprintf("/goals/%d/contribute", id), ana, gin.H{"amount": "250.50"})
	require.Equal(t, 200, status, body)
	assert.Equal(t, "250.5", body["goal"].(map[string]interface{})["current_amount"])

	status, body = a.do(http.MethodGet, "/summary/overview?year=2024", ana, nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["months"], 12)

	status, _ = a.do(http.MethodGet, "/summary/month?year=2024&month=13", ana, nil)
	assert.Equal(t, 400, status)
}

func TestWrongMethodIs405(t *testing.T) {
	a := newAPI(t)
	status, body := a.do(http.MethodDelete, "/auth/login", "", nil)
	assert.Equal(t, 405, status)
	assert.NotEmpty(t, body["error"])
}
