package domain

import (
	"fmt"
	"strings"
	"time"
)

// Gate actions
const (
	ActionEntry = "ENTRY"
	ActionExit  = "EXIT"
)

// AccessEvent is one immutable entry/exit record. The student's name is
// captured at scan time, not re-derived from the profile later.
type AccessEvent struct {
	ID         int64     `json:"id"`
	RollNumber string    `json:"rollNumber"`
	Name       string    `json:"name"`
	Action     string    `json:"action"`
	ScannedBy  int64     `json:"scannedBy"`
	GuardName  string    `json:"guardName,omitempty"`
	GuardEmpID string    `json:"guardEmployeeId,omitempty"`
	CreatedAt  time.Time `json:"timestamp"`
}

type CreateEventRequest struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
	Action     string `json:"action"`
}

type TodayStats struct {
	TotalLogs  int64 `json:"totalLogs"`
	TotalEntry int64 `json:"totalEntry"`
	TotalExit  int64 `json:"totalExit"`
}

func (r *CreateEventRequest) Normalize() {
	r.RollNumber = strings.TrimSpace(r.RollNumber)
	r.Name = strings.TrimSpace(r.Name)
	r.Action = strings.ToUpper(strings.TrimSpace(r.Action))
}

func (r *CreateEventRequest) Validate() error {
	if r.RollNumber == "" || r.Name == "" || r.Action == "" {
		return fmt.Errorf("%w: rollNumber, name and action are required", ErrInvalidInput)
	}
	if r.Action != ActionEntry && r.Action != ActionExit {
		return fmt.Errorf("%w: action must be ENTRY or EXIT", ErrInvalidInput)
	}
	return nil
}
