package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/iiitbh/gatepass/internal/domain"
	"github.com/iiitbh/gatepass/internal/http/handlers"
	"github.com/iiitbh/gatepass/internal/service"
	"github.com/iiitbh/gatepass/pkg/auth"
	"github.com/iiitbh/gatepass/pkg/config"
)

const testSecret = "test-secret"

var errMailDown = errors.New("smtp unreachable")

// ---------- Mocks ----------

type mockStudentRepo struct {
	nextID   int64
	students map[int64]*domain.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{nextID: 1, students: make(map[int64]*domain.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, name, email, passwordHash string) (*domain.Student, error) {
	id := m.nextID
	m.nextID++
	s := &domain.Student{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.students[id] = s
	out := *s
	return &out, nil
}

func (m *mockStudentRepo) FindByEmail(_ context.Context, email string) (*domain.Student, error) {
	for _, s := range m.students {
		if s.Email == email {
			out := *s
			return &out, nil
		}
	}
	return nil, nil
}

func (m *mockStudentRepo) FindByID(_ context.Context, id int64) (*domain.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (m *mockStudentRepo) FindByRollNumber(_ context.Context, rollNumber string) (*domain.Student, error) {
	for _, s := range m.students {
		if s.RollNumber != nil && *s.RollNumber == rollNumber {
			out := *s
			return &out, nil
		}
	}
	return nil, nil
}

func (m *mockStudentRepo) SetOTP(_ context.Context, id int64, otp string) error {
	s, ok := m.students[id]
	if !ok {
		return nil
	}
	code := otp
	s.OTP = &code
	return nil
}

func (m *mockStudentRepo) ConsumeOTP(_ context.Context, id int64, otp string) (bool, error) {
	s, ok := m.students[id]
	if !ok || s.OTP == nil || *s.OTP != otp {
		return false, nil
	}
	s.IsVerified = true
	s.OTP = nil
	return true, nil
}

func (m *mockStudentRepo) CompleteProfile(_ context.Context, id int64, req *domain.CompleteProfileRequest, qrCode string) (*domain.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, nil
	}
	roll := req.RollNumber
	dept := req.Department
	batch := req.Batch
	qr := qrCode
	s.Name = req.Name
	s.RollNumber = &roll
	s.Department = &dept
	s.Batch = &batch
	if req.ProfilePhoto != "" {
		photo := req.ProfilePhoto
		s.ProfilePhoto = &photo
	}
	s.QRCode = &qr
	s.Completed = true
	s.UpdatedAt = time.Now()
	out := *s
	return &out, nil
}

type mockEmployeeRepo struct {
	nextID    int64
	employees map[int64]*domain.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{nextID: 1, employees: make(map[int64]*domain.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, req *domain.RegisterEmployeeRequest, passwordHash string) (*domain.Employee, error) {
	id := m.nextID
	m.nextID++
	e := &domain.Employee{
		ID:           id,
		Role:         req.Role,
		Email:        req.Email,
		EmployeeID:   req.EmployeeID,
		Name:         req.Name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.employees[id] = e
	out := *e
	return &out, nil
}

func (m *mockEmployeeRepo) FindByEmailAndRole(_ context.Context, email, role string) (*domain.Employee, error) {
	for _, e := range m.employees {
		if e.Email == email && e.Role == role {
			out := *e
			return &out, nil
		}
	}
	return nil, nil
}

func (m *mockEmployeeRepo) FindByID(_ context.Context, id int64) (*domain.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, nil
	}
	out := *e
	return &out, nil
}

func (m *mockEmployeeRepo) ExistsByEmailOrEmployeeID(_ context.Context, email, employeeID string) (bool, error) {
	for _, e := range m.employees {
		if e.Email == email || e.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEmployeeRepo) ListByRole(_ context.Context, role string) ([]domain.Employee, error) {
	var list []domain.Employee
	for _, e := range m.employees {
		if e.Role == role {
			list = append(list, *e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

type mockEventRepo struct {
	nextID int64
	events []domain.AccessEvent
	guards map[int64]*domain.Employee
}

func newMockEventRepo(guards *mockEmployeeRepo) *mockEventRepo {
	return &mockEventRepo{nextID: 1, guards: guards.employees}
}

func (m *mockEventRepo) Create(_ context.Context, rollNumber, name, action string, guardID int64) (*domain.AccessEvent, error) {
	e := domain.AccessEvent{
		ID:         m.nextID,
		RollNumber: rollNumber,
		Name:       name,
		Action:     action,
		ScannedBy:  guardID,
		CreatedAt:  time.Now(),
	}
	m.nextID++
	m.events = append(m.events, e)
	out := e
	return &out, nil
}

func (m *mockEventRepo) enrich(e domain.AccessEvent) domain.AccessEvent {
	if g, ok := m.guards[e.ScannedBy]; ok {
		e.GuardName = g.Name
		e.GuardEmpID = g.EmployeeID
	}
	return e
}

func (m *mockEventRepo) ListByRoll(_ context.Context, rollNumber string) ([]domain.AccessEvent, error) {
	var list []domain.AccessEvent
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].RollNumber == rollNumber {
			list = append(list, m.enrich(m.events[i]))
		}
	}
	return list, nil
}

func (m *mockEventRepo) ListAll(_ context.Context) ([]domain.AccessEvent, error) {
	var list []domain.AccessEvent
	for i := len(m.events) - 1; i >= 0; i-- {
		list = append(list, m.enrich(m.events[i]))
	}
	return list, nil
}

func (m *mockEventRepo) TodayStats(_ context.Context) (*domain.TodayStats, error) {
	stats := &domain.TodayStats{}
	today := time.Now().Format("2006-01-02")
	for _, e := range m.events {
		if e.CreatedAt.Format("2006-01-02") != today {
			continue
		}
		stats.TotalLogs++
		switch e.Action {
		case domain.ActionEntry:
			stats.TotalEntry++
		case domain.ActionExit:
			stats.TotalExit++
		}
	}
	return stats, nil
}

type mockMailer struct {
	lastTo   string
	lastCode string
	sendErr  error
	sent     int
}

func (m *mockMailer) SendOTPEmail(toEmail, toName, code string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.lastTo = toEmail
	m.lastCode = code
	m.sent++
	return nil
}

type mockPublisher struct {
	subjects []string
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

// ---------- Test setup ----------

type testEnv struct {
	server       *httptest.Server
	studentRepo  *mockStudentRepo
	employeeRepo *mockEmployeeRepo
	eventRepo    *mockEventRepo
	mailer       *mockMailer
	publisher    *mockPublisher
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testSecret
	cfg.Auth.AllowedEmailDomain = "@iiitbh.ac.in"

	studentRepo := newMockStudentRepo()
	employeeRepo := newMockEmployeeRepo()
	eventRepo := newMockEventRepo(employeeRepo)
	mail := &mockMailer{}
	pub := &mockPublisher{}

	authService := service.NewAuthService(studentRepo, employeeRepo, mail, nil, pub, cfg)
	studentService := service.NewStudentService(studentRepo, pub)
	directoryService := service.NewDirectoryService(employeeRepo, pub)
	gateLogService := service.NewGateLogService(eventRepo, employeeRepo, pub)

	h := handlers.New(authService, studentService, directoryService, gateLogService, cfg)

	server := httptest.NewServer(h.Router())
	t.Cleanup(server.Close)

	return &testEnv{
		server:       server,
		studentRepo:  studentRepo,
		employeeRepo: employeeRepo,
		eventRepo:    eventRepo,
		mailer:       mail,
		publisher:    pub,
	}
}

func tokenFor(t *testing.T, id int64, role string) string {
	t.Helper()
	tok, err := auth.NewToken(id, role, testSecret, 0)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return tok
}

// seedGuard registers a guard directly through the repo and returns its id
// and a matching bearer token.
func seedGuard(t *testing.T, env *testEnv) (int64, string) {
	t.Helper()
	guard, err := env.employeeRepo.Create(context.Background(), &domain.RegisterEmployeeRequest{
		Name:       "Gate Guard",
		Email:      "guard@iiitbh.ac.in",
		EmployeeID: "G001",
		Role:       domain.RoleGuard,
	}, "hash")
	if err != nil {
		t.Fatalf("failed to seed guard: %v", err)
	}
	return guard.ID, tokenFor(t, guard.ID, domain.RoleGuard)
}

func adminToken(t *testing.T) string {
	return tokenFor(t, 999, domain.RoleAdmin)
}

// seedVerifiedStudent runs the registration + OTP flow end to end and
// returns the student id and a bearer token.
func seedVerifiedStudent(t *testing.T, env *testEnv, email string) (int64, string) {
	t.Helper()

	doJSON(t, env, http.MethodPost, "/api/auth/registerStudent", "",
		map[string]interface{}{"name": "Alice", "email": email, "password": "pw123456"},
		http.StatusCreated)

	student, err := env.studentRepo.FindByEmail(context.Background(), email)
	if err != nil || student == nil {
		t.Fatalf("student not created: %v", err)
	}
	token := tokenFor(t, student.ID, domain.RoleStudent)

	doJSON(t, env, http.MethodGet, "/api/auth/send-otp", token, nil, http.StatusOK)
	doJSON(t, env, http.MethodPost, "/api/auth/verify-otp", token,
		map[string]interface{}{"otp": env.mailer.lastCode}, http.StatusOK)

	return student.ID, token
}

// ---------- HTTP helpers ----------

func doJSON(t *testing.T, env *testEnv, method, path, token string, body interface{}, wantStatus int) map[string]interface{} {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, env.server.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: got status %d, want %d (body: %v)", method, path, resp.StatusCode, wantStatus, result)
	}

	return result
}

func dataField(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %v", result)
	}
	return data
}

func dataList(t *testing.T, result map[string]interface{}) []interface{} {
	t.Helper()
	if result["data"] == nil {
		return nil
	}
	list, ok := result["data"].([]interface{})
	if !ok {
		t.Fatalf("response data is not a list: %v", result)
	}
	return list
}

func messageContains(t *testing.T, result map[string]interface{}, want string) {
	t.Helper()
	msg, _ := result["message"].(string)
	if !strings.Contains(msg, want) {
		t.Fatalf("message %q does not contain %q", msg, want)
	}
}
