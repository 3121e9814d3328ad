package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/iiitbh/gatepass/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	StudentRegistered  = "student.registered"
	StudentVerified    = "student.verified"
	CredentialIssued   = "student.credential.issued"
	GateEventRecorded  = "gate.event.recorded"
	EmployeeRegistered = "directory.employee.registered"
)

// Event payloads
type StudentRegisteredEvent struct {
	StudentID int64     `json:"student_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type StudentVerifiedEvent struct {
	StudentID  int64     `json:"student_id"`
	Email      string    `json:"email"`
	VerifiedAt time.Time `json:"verified_at"`
}

type CredentialIssuedEvent struct {
	StudentID  int64     `json:"student_id"`
	RollNumber string    `json:"roll_number"`
	IssuedAt   time.Time `json:"issued_at"`
}

type GateEventRecordedEvent struct {
	EventID    int64     `json:"event_id"`
	RollNumber string    `json:"roll_number"`
	Action     string    `json:"action"`
	GuardID    int64     `json:"guard_id"`
	RecordedAt time.Time `json:"recorded_at"`
}

type EmployeeRegisteredEvent struct {
	EmployeeID int64     `json:"employee_id"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}
