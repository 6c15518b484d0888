package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/tutravel/intake-bot/internal/infra/queue"
)

const handoffTemplate = `Nuevo lead listo para contacto:

Nombre:    {{.Name}}
WhatsApp:  {{.Phone}}
Correo:    {{.Email}}
Servicio:  {{.ServiceType}}
Ciudad:    {{.City}}
Fechas:    {{.StartDate}} – {{.EndDate}}
Personas:  {{.PartySize}}
Idioma:    {{.Language}}
Deal:      {{.DealID}}

Responde al cliente por WhatsApp cuanto antes.
`

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     "bot@tutravel.com",
	}
}

// NotifyHandoff emails the resolved owner about a finished intake. This is
// what the queue worker calls for every consumed handoff.
func (s *EmailSender) NotifyHandoff(payload queue.HandoffPayload) error {
	data := HandoffEmailData{
		Name:        payload.Name,
		Phone:       payload.Sender,
		Email:       payload.Email,
		ServiceType: payload.ServiceType,
		City:        payload.City,
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
		PartySize:   payload.PartySize,
		Language:    payload.Language,
		DealID:      payload.DealID,
	}

	t, err := template.New("handoff").Parse(handoffTemplate)
	if err != nil {
		return fmt.Errorf("handoff template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("handoff template render: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", payload.OwnerEmail)
	m.SetHeader("Subject", fmt.Sprintf("Nuevo lead: %s – %s (%s)", payload.ServiceType, payload.City, payload.Name))
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("handoff email send: %w", err)
	}

	return nil
}
