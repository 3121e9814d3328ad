package service

import (
	"context"
	"fmt"

	"github.com/iiitbh/gatepass/internal/domain"
	"github.com/iiitbh/gatepass/internal/repo/postgres"
	"github.com/iiitbh/gatepass/pkg/events"
	"github.com/iiitbh/gatepass/pkg/logger"
)

// GateLogService records and reads the append-only entry/exit log. The
// scanning client declares the action; the service never infers it from
// the student's previous event.
type GateLogService interface {
	Record(ctx context.Context, guardID int64, req *domain.CreateEventRequest) (*domain.AccessEvent, error)
	ListByRoll(ctx context.Context, rollNumber string) ([]domain.AccessEvent, error)
	ListAll(ctx context.Context) ([]domain.AccessEvent, error)
	TodayStats(ctx context.Context) (*domain.TodayStats, error)
}

type gateLogService struct {
	eventRepo    postgres.EventRepository
	employeeRepo postgres.EmployeeRepository
	eventBus     events.Publisher
}

func NewGateLogService(
	eventRepo postgres.EventRepository,
	employeeRepo postgres.EmployeeRepository,
	eventBus events.Publisher,
) GateLogService {
	return &gateLogService{
		eventRepo:    eventRepo,
		employeeRepo: employeeRepo,
		eventBus:     eventBus,
	}
}

func (s *gateLogService) Record(ctx context.Context, guardID int64, req *domain.CreateEventRequest) (*domain.AccessEvent, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	guard, err := s.employeeRepo.FindByID(ctx, guardID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve guard: %w", err)
	}
	if guard == nil {
		return nil, fmt.Errorf("%w: recording guard not found", domain.ErrNotFound)
	}

	// Duplicate scans are accepted on purpose: every scan is its own row.
	event, err := s.eventRepo.Create(ctx, req.RollNumber, req.Name, req.Action, guard.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to record event: %w", err)
	}

	if s.eventBus != nil {
		payload := events.GateEventRecordedEvent{
			EventID:    event.ID,
			RollNumber: event.RollNumber,
			Action:     event.Action,
			GuardID:    guard.ID,
			RecordedAt: event.CreatedAt,
		}
		if err := s.eventBus.Publish(ctx, events.GateEventRecorded, payload); err != nil {
			logger.WarnContext(ctx, "failed to publish event", "subject", events.GateEventRecorded, "error", err)
		}
	}

	return event, nil
}

func (s *gateLogService) ListByRoll(ctx context.Context, rollNumber string) ([]domain.AccessEvent, error) {
	if rollNumber == "" {
		return nil, fmt.Errorf("%w: rollNumber is required", domain.ErrInvalidInput)
	}

	list, err := s.eventRepo.ListByRoll(ctx, rollNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return list, nil
}

func (s *gateLogService) ListAll(ctx context.Context) ([]domain.AccessEvent, error) {
	list, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return list, nil
}

func (s *gateLogService) TodayStats(ctx context.Context) (*domain.TodayStats, error) {
	stats, err := s.eventRepo.TodayStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}
