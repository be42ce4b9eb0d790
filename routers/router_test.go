package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"vaultgrow/config"
	"vaultgrow/database"
	"vaultgrow/middleware"
	"vaultgrow/services"
	"vaultgrow/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app *fiber.App
	svc *services.Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		AllowedOrigins: "*",
		WelcomeCredit:  700,
		CronKey:        "cron-secret",
	}
	rules := services.Rules{
		WelcomeCredit:      700,
		ReferralBonus:      500,
		MinWithdrawal:      3700,
		DailyROIPercent:    15,
		ROIDays:            5,
		AccrualInterval:    10 * time.Minute,
		PasswordIterations: 1000,
	}
	tokens := middleware.NewTokenService("router-test-secret", time.Hour)
	svc := services.New(store.Db, rules, tokens, log)
	notifier := &utils.Notifier{Mailer: utils.NoopMailer{}, Log: log, Sync: true}

	app := New(Deps{
		Config:   cfg,
		Store:    store,
		Services: svc,
		Tokens:   tokens,
		Notifier: notifier,
		Log:      log,
	})
	return &testEnv{app: app, svc: svc}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}, headers ...string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func data(body map[string]interface{}) map[string]interface{} {
	d, _ := body["data"].(map[string]interface{})
	return d
}

func (e *testEnv) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	status, _ := e.do(t, "POST", "/auth/register", "", map[string]string{
		"fullName": "Ada Lovelace",
		"email":    email,
		"phone":    "08012345678",
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := e.do(t, "POST", "/auth/login", "", map[string]string{"email": email, "password": "secret123"})
	require.Equal(t, fiber.StatusOK, status)
	token, _ := data(body)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	_, err := e.svc.Credentials.EnsureAdmin(context.Background(), "Root", "root@example.com", "1", "rootpass")
	require.NoError(t, err)

	status, body := e.do(t, "POST", "/auth/admin/login", "", map[string]string{"email": "root@example.com", "password": "rootpass"})
	require.Equal(t, fiber.StatusOK, status)
	return data(body)["token"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, "POST", "/auth/register", "", map[string]string{
		"fullName": "Ada Lovelace",
		"email":    "ada@example.com",
		"phone":    "08012345678",
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.EqualValues(t, 700, data(body)["walletBalance"])
	user := data(body)["user"].(map[string]interface{})
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, user, "password")

	status, body = env.do(t, "POST", "/auth/register", "", map[string]string{
		"fullName": "Ada Again",
		"email":    "ada@example.com",
		"phone":    "08012345678",
		"password": "secret123",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.NotEmpty(t, body["message"])

	status, body = env.do(t, "POST", "/auth/register", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, data(body), "email")

	status, _ = env.do(t, "POST", "/auth/login", "", map[string]string{"email": "ada@example.com", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = env.do(t, "POST", "/auth/login", "", map[string]string{"email": "ada@example.com", "password": "secret123"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, data(body)["isAdmin"])
	assert.NotEmpty(t, data(body)["token"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, "GET", "/user/dashboard", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.NotEmpty(t, body["message"])

	status, _ = env.do(t, "GET", "/user/dashboard", "bogus", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	token := env.registerAndLogin(t, "ada@example.com")
	status, _ = env.do(t, "GET", "/admin/overview", token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = env.do(t, "GET", "/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestInvestorJourney(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ada@example.com")
	admin := env.adminToken(t)

	status, body := env.do(t, "GET", "/user/dashboard", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 700, data(body)["walletBalance"])

	status, body = env.do(t, "POST", "/payment/submit", token, map[string]interface{}{"amount": 5000, "reference": "TXN1"})
	require.Equal(t, fiber.StatusCreated, status)
	paymentID := data(body)["ID"]

	status, _ = env.do(t, "PATCH", "/admin/payment/confirm", admin, map[string]interface{}{"paymentId": paymentID})
	require.Equal(t, fiber.StatusOK, status)
	status, _ = env.do(t, "PATCH", "/admin/payment/confirm", admin, map[string]interface{}{"paymentId": paymentID})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = env.do(t, "POST", "/invest/create", token, map[string]interface{}{"planId": "gold", "amount": 10000})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "pending", data(body)["status"])
	investmentID := data(body)["ID"]

	status, body = env.do(t, "PATCH", "/admin/invest/confirm", admin, map[string]interface{}{"investmentId": investmentID})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "confirmed", data(body)["status"])

	status, body = env.do(t, "POST", "/admin/roi/run", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, data(body)["processed"])

	status, body = env.do(t, "GET", "/user/dashboard", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 7200, data(body)["walletBalance"])
	assert.EqualValues(t, 1500, data(body)["totalRoiEarned"])
	assert.EqualValues(t, 10000, data(body)["totalInvested"])

	status, body = env.do(t, "GET", "/user/transactions", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, data(body)["investments"], 1)
	assert.Len(t, data(body)["payments"], 1)

	withdraw := func(amount float64) (int, map[string]interface{}) {
		return env.do(t, "POST", "/withdraw/request", token, map[string]interface{}{
			"amount": amount, "bankName": "First Bank", "accountNumber": "0123456789", "accountName": "Ada Lovelace",
		})
	}

	status, body = withdraw(1000)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["message"], "3700")

	status, _ = withdraw(100000)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = withdraw(4000)
	require.Equal(t, fiber.StatusCreated, status)
	withdrawalID := data(body)["ID"]

	status, _ = env.do(t, "PATCH", "/admin/withdraw/approve", admin, map[string]interface{}{"withdrawalId": withdrawalID})
	assert.Equal(t, fiber.StatusOK, status)

	status, body = env.do(t, "GET", "/admin/withdrawals?status=paid", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, data(body)["total"])

	status, body = env.do(t, "GET", "/user/ledger?page=1&limit=50", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, data(body)["entries"])
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "ada@example.com")
	admin := env.adminToken(t)

	status, body := env.do(t, "GET", "/admin/overview", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, data(body)["totalUsers"])

	status, body = env.do(t, "GET", "/admin/users", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	users := data(body)["users"].([]interface{})
	require.Len(t, users, 1)
	userID := users[0].(map[string]interface{})["id"]

	status, body = env.do(t, "PATCH", fmt.Sprintf("/admin/users/%v/toggle-block", userID), admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, data(body)["isBlocked"])

	status, _ = env.do(t, "POST", "/auth/login", "", map[string]string{"email": "ada@example.com", "password": "secret123"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = env.do(t, "PATCH", "/admin/users/9999/toggle-block", admin, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = env.do(t, "PATCH", "/admin/users/abc/toggle-block", admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = env.do(t, "PATCH", "/admin/invest/confirm", admin, map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = env.do(t, "PATCH", "/admin/invest/confirm", admin, map[string]interface{}{"investmentId": 4242})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = env.do(t, "GET", "/admin/investments?status=bogus", admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCronTrigger(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, "POST", "/cron/daily-roi", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = env.do(t, "POST", "/cron/daily-roi", "", nil, "X-Cron-Key", "wrong")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := env.do(t, "POST", "/cron/daily-roi", "", nil, "X-Cron-Key", "cron-secret")
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 0, data(body)["processed"])
	assert.NotEmpty(t, data(body)["batchId"])
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, "GET", "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	req := httptest.NewRequest("GET", "/metrics", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "vaultgrow_")
}
