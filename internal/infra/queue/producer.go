package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// HandoffPayload is published when a conversation reaches handoff, carrying
// everything the sales side needs without going back to HubSpot.
type HandoffPayload struct {
	Sender      string `json:"sender"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ServiceType string `json:"service_type"`
	City        string `json:"city"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	PartySize   string `json:"party_size"`
	Language    string `json:"language"`
	OwnerEmail  string `json:"owner_email"`
	ContactID   string `json:"contact_id"`
	DealID      string `json:"deal_id"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishHandoff(ctx context.Context, payload HandoffPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("handoff payload marshal: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("handoff publish: %v", err)
	}

	return nil
}
