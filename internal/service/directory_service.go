package service

import (
	"context"
	"fmt"

	"github.com/alexedwards/argon2id"

	"github.com/iiitbh/gatepass/internal/domain"
	"github.com/iiitbh/gatepass/internal/repo/postgres"
	"github.com/iiitbh/gatepass/pkg/events"
	"github.com/iiitbh/gatepass/pkg/logger"
)

// DirectoryService is the admin-facing account directory for guards and
// admins. Students self-register through the auth service instead.
type DirectoryService interface {
	RegisterEmployee(ctx context.Context, req *domain.RegisterEmployeeRequest) (*domain.EmployeeSummary, error)
	ListEmployees(ctx context.Context, role string) ([]*domain.EmployeeSummary, error)
}

type directoryService struct {
	employeeRepo postgres.EmployeeRepository
	eventBus     events.Publisher
}

func NewDirectoryService(employeeRepo postgres.EmployeeRepository, eventBus events.Publisher) DirectoryService {
	return &directoryService{employeeRepo: employeeRepo, eventBus: eventBus}
}

func (s *directoryService) RegisterEmployee(ctx context.Context, req *domain.RegisterEmployeeRequest) (*domain.EmployeeSummary, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.employeeRepo.ExistsByEmailOrEmployeeID(ctx, req.Email, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing employee: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: employee with this email or employee ID already exists", domain.ErrConflict)
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	employee, err := s.employeeRepo.Create(ctx, req, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	if s.eventBus != nil {
		payload := events.EmployeeRegisteredEvent{
			EmployeeID: employee.ID,
			Role:       employee.Role,
			CreatedAt:  employee.CreatedAt,
		}
		if err := s.eventBus.Publish(ctx, events.EmployeeRegistered, payload); err != nil {
			logger.WarnContext(ctx, "failed to publish event", "subject", events.EmployeeRegistered, "error", err)
		}
	}

	return employee.Summary(), nil
}

func (s *directoryService) ListEmployees(ctx context.Context, role string) ([]*domain.EmployeeSummary, error) {
	if role != domain.RoleGuard && role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: role must be guard or admin", domain.ErrInvalidInput)
	}

	employees, err := s.employeeRepo.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	summaries := make([]*domain.EmployeeSummary, len(employees))
	for i := range employees {
		summaries[i] = employees[i].Summary()
	}
	return summaries, nil
}
