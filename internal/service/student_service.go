package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iiitbh/gatepass/internal/credential"
	"github.com/iiitbh/gatepass/internal/domain"
	"github.com/iiitbh/gatepass/internal/repo/postgres"
	"github.com/iiitbh/gatepass/pkg/events"
	"github.com/iiitbh/gatepass/pkg/logger"
)

type StudentService interface {
	Profile(ctx context.Context, studentID int64) (*domain.Student, error)
	CompleteProfile(ctx context.Context, studentID int64, req *domain.CompleteProfileRequest) (*domain.Student, error)

	// ByID backs the auth gate's verification check.
	ByID(ctx context.Context, studentID int64) (*domain.Student, error)
}

type studentService struct {
	studentRepo postgres.StudentRepository
	eventBus    events.Publisher
}

func NewStudentService(studentRepo postgres.StudentRepository, eventBus events.Publisher) StudentService {
	return &studentService{studentRepo: studentRepo, eventBus: eventBus}
}

func (s *studentService) ByID(ctx context.Context, studentID int64) (*domain.Student, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	return student, nil
}

func (s *studentService) Profile(ctx context.Context, studentID int64) (*domain.Student, error) {
	student, err := s.ByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("%w: student not found", domain.ErrNotFound)
	}
	return student, nil
}

// CompleteProfile is one-shot: the first successful write freezes the
// profile and issues the credential. The roll-number check is
// check-then-write; the unique index backstops the race.
func (s *studentService) CompleteProfile(ctx context.Context, studentID int64, req *domain.CompleteProfileRequest) (*domain.Student, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	student, err := s.ByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("%w: student not found", domain.ErrNotFound)
	}
	if student.Completed {
		return nil, domain.ErrAlreadyCompleted
	}

	owner, err := s.studentRepo.FindByRollNumber(ctx, req.RollNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check roll number: %w", err)
	}
	if owner != nil && owner.ID != studentID {
		return nil, domain.ErrRollNumberTaken
	}

	qrCode, err := credential.Encode(studentID, req.RollNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to issue credential: %w", err)
	}

	updated, err := s.studentRepo.CompleteProfile(ctx, studentID, req, qrCode)
	if err != nil {
		return nil, fmt.Errorf("failed to complete profile: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: student not found", domain.ErrNotFound)
	}

	if s.eventBus != nil {
		payload := events.CredentialIssuedEvent{
			StudentID:  studentID,
			RollNumber: req.RollNumber,
			IssuedAt:   time.Now(),
		}
		if err := s.eventBus.Publish(ctx, events.CredentialIssued, payload); err != nil {
			logger.WarnContext(ctx, "failed to publish event", "subject", events.CredentialIssued, "error", err)
		}
	}

	return updated, nil
}
