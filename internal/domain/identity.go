package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Valid identity roles
const (
	RoleStudent = "student"
	RoleGuard   = "guard"
	RoleAdmin   = "admin"
)

// Student is the self-service identity. OTP and profile fields stay nullable
// until the verification and profile-completion transitions happen.
type Student struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	OTP          *string    `json:"-"`
	IsVerified   bool       `json:"isVerified"`
	Name         string     `json:"name"`
	RollNumber   *string    `json:"rollNumber,omitempty"`
	Department   *string    `json:"department,omitempty"`
	Batch        *int       `json:"batch,omitempty"`
	ProfilePhoto *string    `json:"profilePhoto,omitempty"`
	QRCode       *string    `json:"qrCode,omitempty"`
	Completed    bool       `json:"profileCompleted"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Employee covers the two staff identity variants, distinguished by Role.
type Employee struct {
	ID           int64     `json:"id"`
	Role         string    `json:"role"`
	Email        string    `json:"email"`
	EmployeeID   string    `json:"employeeId"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal is the authentication projection shared by all three variants:
// what the login path and the auth gate need, nothing more.
type Principal struct {
	ID           int64
	Role         string
	Email        string
	PasswordHash string
	IsVerified   bool
}

func (s *Student) Principal() Principal {
	return Principal{
		ID:           s.ID,
		Role:         RoleStudent,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		IsVerified:   s.IsVerified,
	}
}

func (e *Employee) Principal() Principal {
	return Principal{
		ID:           e.ID,
		Role:         e.Role,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		IsVerified:   true,
	}
}

type RegisterStudentRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token      string `json:"token"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	IsVerified *bool  `json:"isVerified,omitempty"`
}

type VerifyOTPRequest struct {
	OTP string `json:"otp"`
}

type CompleteProfileRequest struct {
	Name         string `json:"name"`
	RollNumber   string `json:"rollNumber"`
	Department   string `json:"department"`
	Batch        int    `json:"batch"`
	ProfilePhoto string `json:"profilePhoto"`
}

type RegisterEmployeeRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmployeeID string `json:"employeeId"`
	Password   string `json:"password"`
	Role       string `json:"role"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func (r *RegisterStudentRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *RegisterStudentRequest) Validate(allowedDomain string) error {
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if !isValidEmail(r.Email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if allowedDomain != "" && !strings.HasSuffix(r.Email, allowedDomain) {
		return fmt.Errorf("%w: only college email (%s) is allowed", ErrInvalidInput, allowedDomain)
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	return nil
}

func (r *LoginRequest) Normalize() {
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	switch r.Role {
	case RoleStudent, RoleGuard, RoleAdmin:
		return nil
	}
	return fmt.Errorf("%w: role must be student, guard or admin", ErrInvalidInput)
}

func (r *CompleteProfileRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.RollNumber = strings.TrimSpace(r.RollNumber)
	r.Department = strings.TrimSpace(r.Department)
	r.ProfilePhoto = strings.TrimSpace(r.ProfilePhoto)
}

func (r *CompleteProfileRequest) Validate() error {
	if r.Name == "" || r.RollNumber == "" || r.Department == "" || r.Batch == 0 {
		return fmt.Errorf("%w: name, rollNumber, department and batch are required", ErrInvalidInput)
	}
	return nil
}

func (r *RegisterEmployeeRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.EmployeeID = strings.ToUpper(strings.TrimSpace(r.EmployeeID))
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
}

func (r *RegisterEmployeeRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.EmployeeID == "" || r.Password == "" || r.Role == "" {
		return fmt.Errorf("%w: name, email, employeeId, password and role are required", ErrInvalidInput)
	}
	if !isValidEmail(r.Email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if r.Role != RoleGuard && r.Role != RoleAdmin {
		return fmt.Errorf("%w: role must be guard or admin", ErrInvalidInput)
	}
	return nil
}

// EmployeeSummary is the wire shape for directory listings: everything but
// the password hash.
type EmployeeSummary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmployeeID string `json:"employeeId"`
	Role       string `json:"role"`
}

func (e *Employee) Summary() *EmployeeSummary {
	return &EmployeeSummary{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		EmployeeID: e.EmployeeID,
		Role:       e.Role,
	}
}
