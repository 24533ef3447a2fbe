// Package notify canales de entrega de alertas ya confirmadas (e-mail, Kafka).
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var _ inventory.AlertNotifier = (*EmailNotifier)(nil)

// SMTPSettings datos de conexión y destinatarios.
type SMTPSettings struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string
}

// EmailNotifier envía cada alerta por correo a los destinatarios configurados.
type EmailNotifier struct {
	from   string
	to     []string
	sender func(m *gomail.Message) error
}

// NewEmailNotifier abre una conexión SMTP por envío (las alertas son poco frecuentes).
func NewEmailNotifier(cfg SMTPSettings) *EmailNotifier {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.Port == 465
	return &EmailNotifier{from: cfg.From, to: cfg.To, sender: func(m *gomail.Message) error { return d.DialAndSend(m) }}
}

// NewEmailNotifierWithSender usa un gomail.Sender propio (pool SMTP existente, tests).
func NewEmailNotifierWithSender(s gomail.Sender, from string, to []string) *EmailNotifier {
	return &EmailNotifier{from: from, to: to, sender: func(m *gomail.Message) error { return gomail.Send(s, m) }}
}

var alertHTML = template.Must(template.New("alert").Parse(`<h2>Alerta de inventario: {{.Type}}</h2>
<p>Producto: <strong>{{.ProductName}}</strong> ({{.ProductID}})</p>
<p>Saldo: {{.Balance}}, rango permitido [{{.ThresholdMin}}, {{.ThresholdMax}}]</p>
<p>Disparada: {{.TriggeredAt.Format "2006-01-02 15:04:05 MST"}}</p>`))

func (n *EmailNotifier) NotifyAlert(ctx context.Context, a *entity.Alert) error {
	if len(n.to) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	var html bytes.Buffer
	if err := alertHTML.Execute(&html, a); err != nil {
		return fmt.Errorf("render alert email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Subject", Subject(a))
	m.SetBody("text/plain", plainBody(a))
	m.AddAlternative("text/html", html.String())

	if err := n.sender(m); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

// Subject asunto del correo de una alerta.
func Subject(a *entity.Alert) string {
	name := a.ProductName
	if name == "" {
		name = a.ProductID
	}
	switch a.Type {
	case entity.AlertTypeUnderstock:
		return fmt.Sprintf("[Inventario] Stock bajo: %s", name)
	case entity.AlertTypeOverstock:
		return fmt.Sprintf("[Inventario] Sobrestock: %s", name)
	}
	return fmt.Sprintf("[Inventario] Alerta %s: %s", a.Type, name)
}

func plainBody(a *entity.Alert) string {
	return fmt.Sprintf("Alerta %s\nProducto: %s (%s)\nSaldo: %s\nRango permitido: [%d, %d]\nMovimiento: %s\nDisparada: %s\n",
		a.Type, a.ProductName, a.ProductID, a.Balance.String(), a.ThresholdMin, a.ThresholdMax,
		a.MovementID, a.TriggeredAt.Format("2006-01-02 15:04:05 MST"))
}
