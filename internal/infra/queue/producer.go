package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Numeric reason codes carried on reassignment notices.
const (
	ReasonPreferredAtCapacity = 1
	ReasonOwnerOverCapacity   = 2
)

type ReassignmentNotice struct {
	MessageID     string    `json:"message_id"`
	MemberID      string    `json:"member_id"`
	FromVolunteer string    `json:"from_volunteer"`
	ToVolunteer   string    `json:"to_volunteer"`
	ReasonCode    int       `json:"reason_code"`
	At            time.Time `json:"at"`
}

type CapacityWarning struct {
	MessageID   string    `json:"message_id"`
	MemberID    string    `json:"member_id"`
	VolunteerID string    `json:"volunteer_id"`
	Current     int       `json:"current"`
	Capacity    int       `json:"capacity"`
	At          time.Time `json:"at"`
}

type NotificationProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *NotificationProducer {
	return &NotificationProducer{Conn: conn, Ch: ch}
}

func (p *NotificationProducer) PublishReassignment(ctx context.Context, notice ReassignmentNotice) error {
	if notice.MessageID == "" {
		notice.MessageID = uuid.New().String()
	}
	return p.publish(ctx, "reassignment", notice.MessageID, notice)
}

func (p *NotificationProducer) PublishCapacityWarning(ctx context.Context, warning CapacityWarning) error {
	if warning.MessageID == "" {
		warning.MessageID = uuid.New().String()
	}
	return p.publish(ctx, "capacity_warning", warning.MessageID, warning)
}

func (p *NotificationProducer) publish(ctx context.Context, kind, messageID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", kind, err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         kind,
			MessageId:    messageID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s notification: %w", kind, err)
	}
	return nil
}
