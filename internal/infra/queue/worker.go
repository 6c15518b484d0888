package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// HandoffNotifier is what the worker calls for every consumed handoff.
// Today that is the internal email to the deal owner; Slack or a CRM task
// would slot in behind the same interface.
type HandoffNotifier interface {
	NotifyHandoff(payload HandoffPayload) error
}

type Worker struct {
	Channel  *amqp.Channel
	Notifier HandoffNotifier
}

func NewWorker(ch *amqp.Channel, notifier HandoffNotifier) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ [WORKER] consumer register failed: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload HandoffPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] bad JSON, dropping: %s", err)
				// Malformed message, no point requeueing it.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] handoff for %s (%s, %s)", payload.Name, payload.ServiceType, payload.City)

			if w.Notifier == nil {
				d.Ack(false)
				continue
			}

			if err := w.Notifier.NotifyHandoff(payload); err != nil {
				log.Printf("❌ [WORKER] notification failed: %s", err)
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] owner %s notified about %s", payload.OwnerEmail, payload.Name)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker waiting on queue '%s'", queueName)
	<-forever
}
