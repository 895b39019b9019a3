package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/config"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/notification"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/storage"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/utils"
	"github.com/cmlabs-hris/timekeeper-go/internal/repository/memory"
	accountService "github.com/cmlabs-hris/timekeeper-go/internal/service/account"
	auditService "github.com/cmlabs-hris/timekeeper-go/internal/service/audit"
	authService "github.com/cmlabs-hris/timekeeper-go/internal/service/auth"
	correctionService "github.com/cmlabs-hris/timekeeper-go/internal/service/correction"
	employeeService "github.com/cmlabs-hris/timekeeper-go/internal/service/employee"
	"github.com/cmlabs-hris/timekeeper-go/internal/service/file"
	handoverService "github.com/cmlabs-hris/timekeeper-go/internal/service/handover"
	leaveService "github.com/cmlabs-hris/timekeeper-go/internal/service/leave"
	reportService "github.com/cmlabs-hris/timekeeper-go/internal/service/report"
	rosterService "github.com/cmlabs-hris/timekeeper-go/internal/service/roster"
	settingsService "github.com/cmlabs-hris/timekeeper-go/internal/service/settings"
	timeEntryService "github.com/cmlabs-hris/timekeeper-go/internal/service/timeentry"
	timesheetService "github.com/cmlabs-hris/timekeeper-go/internal/service/timesheet"
	weeklockService "github.com/cmlabs-hris/timekeeper-go/internal/service/weeklock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret    = "test-secret-key-for-jwt"
	handlerTestAccessExp = "1h"
)

type nopNotifier struct{}

func (nopNotifier) Notify(ctx context.Context, msg notification.Message) error { return nil }
func (nopNotifier) Configured(ch notification.Channel) bool                   { return false }

type testServer struct {
	store  *memory.Store
	server *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	loc := time.UTC
	store := memory.NewStore()
	m := metrics.New()

	jwtService, err := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	require.NoError(t, err)

	uploads := t.TempDir()
	fileStorage, err := storage.NewLocalStorage(uploads, "http://localhost/uploads")
	require.NoError(t, err)

	audits := auditService.NewAuditService(store.ActivityLogs())
	settings := settingsService.NewSettingsService(store.Settings(), config.SettingsDefaults{
		WorkingHoursPerDay: 8, LunchBreakMinutes: 60, WeeklyTargetHours: 40,
		SessionTimeoutMinutes: 480, OvertimeThresholdHours: 40, OvertimeMultiplier: 1.5,
	}, audits)
	ledger := weeklockService.NewLedger(store.WeekApprovals())
	tx := store.Transactor()

	auth := authService.NewAuthService(tx, store.Users(), store.ResetTokens(), store.Rosters(),
		jwtService, settings, nopNotifier{}, audits, config.AuthConfig{ResetTokenTTL: time.Hour, InitAdminName: "admin"}, "http://localhost")
	entries := timeEntryService.NewTimeEntryService(tx, store.TimeEntries(), store.Users(), settings, ledger, audits, nopNotifier{}, m, loc)
	rosters := rosterService.NewRosterService(tx, store.Rosters(), store.Users(), audits, loc)

	handlers := Handlers{
		Auth:       NewAuthHandler(auth),
		Account:    NewAccountHandler(accountService.NewAccountService(store.Users(), file.NewFileService(fileStorage), audits)),
		Employee:   NewEmployeeHandler(employeeService.NewEmployeeService(tx, store.Users(), audits)),
		TimeEntry:  NewTimeEntryHandler(entries, loc),
		Dashboard:  NewDashboardHandler(entries, rosters, settings),
		Timesheet:  NewTimesheetHandler(timesheetService.NewTimesheetService(tx, store.TimeEntries(), settings, ledger, audits, m, loc)),
		Correction: NewCorrectionHandler(correctionService.NewCorrectionService(tx, store.Corrections(), store.TimeEntries(), ledger, audits, m, loc)),
		Leave:      NewLeaveHandler(leaveService.NewLeaveService(store.LeaveRequests(), audits, m)),
		Roster:     NewRosterHandler(rosters, loc),
		Settings:   NewSettingsHandler(settings),
		Report:     NewReportHandler(reportService.NewReportService(store.TimeEntries(), store.Users(), settings, ledger, audits, loc), loc),
		Audit:      NewAuditHandler(audits),
		Handover:   NewHandoverHandler(handoverService.NewHandoverService(store.Handovers(), sse.NewHub(), loc)),
		Health: NewHealthHandler(map[string]HealthCheck{
			"database": func(ctx context.Context) bool { return true },
		}),
	}

	app := config.AppConfig{Name: "timekeeper-test", Env: "test", AllowedOrigin: []string{"http://localhost:3000"}}
	router := NewRouter(app, uploads, jwtService, store.Users(), m, handlers)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testServer{store: store, server: server}
}

func (ts *testServer) createUser(t *testing.T, name string, role user.Role, active bool) user.User {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	u, err := ts.store.Users().Create(context.Background(), user.User{
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	})
	require.NoError(t, err)
	return u
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded apiResponse
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

func (ts *testServer) login(t *testing.T, name string) string {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": name,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "Rutul", user.RoleEmployee, true)

	t.Run("wrong password", func(t *testing.T) {
		resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": "Rutul",
			"password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.False(t, body.Success)
	})

	t.Run("invalid json", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, ts.server.URL+"/api/v1/auth/login", strings.NewReader("invalid json"))
		require.NoError(t, err)
		resp, err := ts.server.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("no token", func(t *testing.T) {
		resp, _ := ts.do(t, http.MethodGet, "/api/v1/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("login then logout revokes the token", func(t *testing.T) {
		token := ts.login(t, "Rutul")

		resp, body := ts.do(t, http.MethodGet, "/api/v1/me", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var me user.UserResponse
		require.NoError(t, json.Unmarshal(body.Data, &me))
		assert.Equal(t, "Rutul", me.Name)

		resp, _ = ts.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = ts.do(t, http.MethodGet, "/api/v1/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestResolveActor_DeactivatedUser(t *testing.T) {
	ts := newTestServer(t)
	u := ts.createUser(t, "Jyoti", user.RoleEmployee, true)
	token := ts.login(t, "Jyoti")

	u.IsActive = false
	require.NoError(t, ts.store.Users().Update(context.Background(), u))

	resp, _ := ts.do(t, http.MethodGet, "/api/v1/entries/today", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminRoutes_RequirePermission(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "Geetika", user.RoleAdmin, true)
	ts.createUser(t, "Rutul", user.RoleEmployee, true)
	adminToken := ts.login(t, "Geetika")
	employeeToken := ts.login(t, "Rutul")

	for _, path := range []string{
		"/api/v1/admin/employees",
		"/api/v1/admin/timesheets/pending",
		"/api/v1/admin/settings",
		"/api/v1/admin/reports/payroll",
		"/api/v1/admin/audit",
	} {
		resp, _ := ts.do(t, http.MethodGet, path, employeeToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)

		resp, body := ts.do(t, http.MethodGet, path, adminToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.True(t, body.Success, path)
	}
}

func TestPunchFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "Rutul", user.RoleEmployee, true)
	token := ts.login(t, "Rutul")

	resp, _ := ts.do(t, http.MethodPost, "/api/v1/entries/actions/clock_in", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("double clock in conflicts", func(t *testing.T) {
		resp, body := ts.do(t, http.MethodPost, "/api/v1/entries/actions/clock_in", token, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.False(t, body.Success)
	})

	t.Run("unknown action", func(t *testing.T) {
		resp, _ := ts.do(t, http.MethodPost, "/api/v1/entries/actions/teleport", token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("today shows the punch", func(t *testing.T) {
		resp, body := ts.do(t, http.MethodGet, "/api/v1/entries/today", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var today struct {
			Entry struct {
				ClockIn *string `json:"clock_in"`
			} `json:"entry"`
		}
		require.NoError(t, json.Unmarshal(body.Data, &today))
		assert.NotNil(t, today.Entry.ClockIn)
	})

	t.Run("dashboard composes today and settings", func(t *testing.T) {
		resp, body := ts.do(t, http.MethodGet, "/api/v1/dashboard", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var dash DashboardResponse
		require.NoError(t, json.Unmarshal(body.Data, &dash))
		assert.NotNil(t, dash.Today.Entry.ClockIn)
		assert.Equal(t, 40.0, dash.Settings.WeeklyTargetHours)
	})

	t.Run("bad week date", func(t *testing.T) {
		resp, _ := ts.do(t, http.MethodGet, "/api/v1/entries/week?date=yesterday", token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("bad calendar month", func(t *testing.T) {
		resp, _ := ts.do(t, http.MethodGet, "/api/v1/entries/calendar?year=2026&month=13", token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestEmployeeCreate(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "Geetika", user.RoleAdmin, true)
	token := ts.login(t, "Geetika")

	resp, body := ts.do(t, http.MethodPost, "/api/v1/admin/employees", token, map[string]any{
		"name": "Ashwini",
		"role": "employee",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, body.Success)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/admin/employees", token, map[string]any{
		"name": "ashwini",
		"role": "employee",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestExportPayroll_StreamsAttachment(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "Geetika", user.RoleAdmin, true)
	token := ts.login(t, "Geetika")

	req, err := http.NewRequest(http.MethodGet, ts.server.URL+"/api/v1/admin/reports/payroll/export?format=csv", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ts.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
}

func TestUploadPicture_MissingFile(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "Rutul", user.RoleEmployee, true)
	token := ts.login(t, "Rutul")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no picture here"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, ts.server.URL+"/api/v1/me/picture", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ts.server.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"database":"up"}`, string(body.Data))

	resp, err := ts.server.Client().Get(ts.server.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
