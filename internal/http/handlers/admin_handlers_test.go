package handlers_test

import (
	"net/http"
	"testing"
)

func employeeBody(name, email, empID, role string) map[string]interface{} {
	return map[string]interface{}{
		"name":       name,
		"email":      email,
		"employeeId": empID,
		"password":   "guardpass123",
		"role":       role,
	}
}

func TestRegisterEmployee_AdminOnly(t *testing.T) {
	env := setupTestServer(t)
	body := employeeBody("New Guard", "newguard@iiitbh.ac.in", "G010", "guard")

	doJSON(t, env, http.MethodPost, "/api/admin/registeremployee", "", body, http.StatusUnauthorized)
	doJSON(t, env, http.MethodPost, "/api/admin/registeremployee",
		tokenFor(t, 5, "student"), body, http.StatusForbidden)
	doJSON(t, env, http.MethodPost, "/api/admin/registeremployee",
		tokenFor(t, 6, "guard"), body, http.StatusForbidden)

	result := doJSON(t, env, http.MethodPost, "/api/admin/registeremployee", adminToken(t), body, http.StatusCreated)
	data := dataField(t, result)
	if data["email"] != "newguard@iiitbh.ac.in" || data["role"] != "guard" || data["employeeId"] != "G010" {
		t.Fatalf("unexpected summary: %v", data)
	}
	if data["password"] != nil || data["passwordHash"] != nil {
		t.Fatalf("summary must not expose credentials: %v", data)
	}
}

func TestRegisterEmployee_Validation(t *testing.T) {
	env := setupTestServer(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing name", employeeBody("", "g@iiitbh.ac.in", "G011", "guard")},
		{"missing email", employeeBody("Guard", "", "G011", "guard")},
		{"bad email", employeeBody("Guard", "not-an-email", "G011", "guard")},
		{"missing employee id", employeeBody("Guard", "g@iiitbh.ac.in", "", "guard")},
		{"student role", employeeBody("Guard", "g@iiitbh.ac.in", "G011", "student")},
		{"unknown role", employeeBody("Guard", "g@iiitbh.ac.in", "G011", "janitor")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doJSON(t, env, http.MethodPost, "/api/admin/registeremployee", adminToken(t), tt.body, http.StatusBadRequest)
		})
	}
}

func TestRegisterEmployee_Duplicates(t *testing.T) {
	env := setupTestServer(t)

	doJSON(t, env, http.MethodPost, "/api/admin/registeremployee", adminToken(t),
		employeeBody("Guard One", "g1@iiitbh.ac.in", "G001", "guard"), http.StatusCreated)

	// Same email, different employee id.
	doJSON(t, env, http.MethodPost, "/api/admin/registeremployee", adminToken(t),
		employeeBody("Guard Two", "g1@iiitbh.ac.in", "G002", "guard"), http.StatusConflict)

	// Same employee id, different email — across roles too.
	doJSON(t, env, http.MethodPost, "/api/admin/registeremployee", adminToken(t),
		employeeBody("Admin One", "a1@iiitbh.ac.in", "G001", "admin"), http.StatusConflict)
}

func TestGetEmployees(t *testing.T) {
	env := setupTestServer(t)

	doJSON(t, env, http.MethodPost, "/api/admin/registeremployee", adminToken(t),
		employeeBody("Zed Guard", "zed@iiitbh.ac.in", "G002", "guard"), http.StatusCreated)
	doJSON(t, env, http.MethodPost, "/api/admin/registeremployee", adminToken(t),
		employeeBody("Amy Guard", "amy@iiitbh.ac.in", "G003", "guard"), http.StatusCreated)
	doJSON(t, env, http.MethodPost, "/api/admin/registeremployee", adminToken(t),
		employeeBody("Site Admin", "site@iiitbh.ac.in", "A001", "admin"), http.StatusCreated)

	result := doJSON(t, env, http.MethodGet, "/api/admin/getemployees?role=guard", adminToken(t), nil, http.StatusOK)
	list := dataList(t, result)
	if len(list) != 2 {
		t.Fatalf("expected 2 guards, got %d", len(list))
	}
	first := list[0].(map[string]interface{})
	if first["name"] != "Amy Guard" {
		t.Fatalf("listing must be ordered by name, got %v first", first["name"])
	}

	result = doJSON(t, env, http.MethodGet, "/api/admin/getemployees?role=admin", adminToken(t), nil, http.StatusOK)
	if len(dataList(t, result)) != 1 {
		t.Fatal("expected 1 admin")
	}

	doJSON(t, env, http.MethodGet, "/api/admin/getemployees", adminToken(t), nil, http.StatusBadRequest)
	doJSON(t, env, http.MethodGet, "/api/admin/getemployees?role=student", adminToken(t), nil, http.StatusBadRequest)
}
