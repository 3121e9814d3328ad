package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/iiitbh/gatepass/internal/domain"
	"github.com/iiitbh/gatepass/internal/mailer"
	"github.com/iiitbh/gatepass/internal/repo/postgres"
	"github.com/iiitbh/gatepass/internal/repo/redisrepo"
	"github.com/iiitbh/gatepass/pkg/auth"
	"github.com/iiitbh/gatepass/pkg/config"
	"github.com/iiitbh/gatepass/pkg/events"
	"github.com/iiitbh/gatepass/pkg/logger"
)

type AuthService interface {
	RegisterStudent(ctx context.Context, req *domain.RegisterStudentRequest) (*domain.Student, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	SendOTP(ctx context.Context, studentID int64) error
	VerifyOTP(ctx context.Context, studentID int64, code string) error
}

type authService struct {
	studentRepo  postgres.StudentRepository
	employeeRepo postgres.EmployeeRepository
	mailer       mailer.Service
	otpLimiter   *redisrepo.OTPLimiter
	eventBus     events.Publisher
	config       *config.Config
}

func NewAuthService(
	studentRepo postgres.StudentRepository,
	employeeRepo postgres.EmployeeRepository,
	mailer mailer.Service,
	otpLimiter *redisrepo.OTPLimiter,
	eventBus events.Publisher,
	config *config.Config,
) AuthService {
	return &authService{
		studentRepo:  studentRepo,
		employeeRepo: employeeRepo,
		mailer:       mailer,
		otpLimiter:   otpLimiter,
		eventBus:     eventBus,
		config:       config,
	}
}

func (s *authService) RegisterStudent(ctx context.Context, req *domain.RegisterStudentRequest) (*domain.Student, error) {
	req.Normalize()
	if err := req.Validate(s.config.Auth.AllowedEmailDomain); err != nil {
		return nil, err
	}

	existing, err := s.studentRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing student: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student, err := s.studentRepo.Create(ctx, req.Name, req.Email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.publish(ctx, events.StudentRegistered, events.StudentRegisteredEvent{
		StudentID: student.ID,
		Email:     student.Email,
		CreatedAt: student.CreatedAt,
	})

	return student, nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	principal, isVerified, err := s.lookupPrincipal(ctx, req)
	if err != nil {
		return nil, err
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, principal.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := auth.NewToken(principal.ID, principal.Role, s.config.Auth.JWTSecret, s.config.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	resp := &domain.LoginResponse{
		Token: token,
		Role:  principal.Role,
		Email: principal.Email,
	}
	if principal.Role == domain.RoleStudent {
		resp.IsVerified = isVerified
	}
	return resp, nil
}

// lookupPrincipal routes the credential check to the identity class the
// caller claimed: students and staff live in different tables.
func (s *authService) lookupPrincipal(ctx context.Context, req *domain.LoginRequest) (*domain.Principal, *bool, error) {
	if req.Role == domain.RoleStudent {
		student, err := s.studentRepo.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to find student: %w", err)
		}
		if student == nil {
			return nil, nil, fmt.Errorf("%w: no account for this email", domain.ErrNotFound)
		}
		p := student.Principal()
		verified := student.IsVerified
		return &p, &verified, nil
	}

	employee, err := s.employeeRepo.FindByEmailAndRole(ctx, req.Email, req.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find employee: %w", err)
	}
	if employee == nil {
		return nil, nil, fmt.Errorf("%w: no account for this email", domain.ErrNotFound)
	}
	p := employee.Principal()
	return &p, nil, nil
}

func (s *authService) SendOTP(ctx context.Context, studentID int64) error {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return fmt.Errorf("%w: student account not found", domain.ErrNotFound)
	}
	if student.IsVerified {
		return domain.ErrAlreadyVerified
	}

	if !s.otpLimiter.Allow(ctx, studentID) {
		return domain.ErrTooManyRequests
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	if err := s.studentRepo.SetOTP(ctx, studentID, code); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.mailer.SendOTPEmail(student.Email, student.Name, code); err != nil {
		logger.ErrorContext(ctx, "otp email delivery failed", "error", err, "student_id", studentID)
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, studentID int64, code string) error {
	if code == "" {
		return domain.ErrMissingCode
	}

	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return fmt.Errorf("%w: student account not found", domain.ErrNotFound)
	}

	// The repo clears the code in the same statement that flips
	// is_verified, so a replayed code always lands here as a mismatch.
	matched, err := s.studentRepo.ConsumeOTP(ctx, studentID, code)
	if err != nil {
		return fmt.Errorf("failed to verify otp: %w", err)
	}
	if !matched {
		return domain.ErrInvalidCode
	}

	s.publish(ctx, events.StudentVerified, events.StudentVerifiedEvent{
		StudentID:  student.ID,
		Email:      student.Email,
		VerifiedAt: time.Now(),
	})

	return nil
}

func (s *authService) publish(ctx context.Context, subject string, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, subject, payload); err != nil {
		logger.WarnContext(ctx, "failed to publish event", "subject", subject, "error", err)
	}
}

// generateOTP draws a 6-digit code uniformly from [100000, 999999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
