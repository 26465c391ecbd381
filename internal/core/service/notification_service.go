package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

const (
	KindOrderPlaced    = "order_placed"
	KindOrderStatus    = "order_status"
	KindPasswordReset  = "password_reset"
	KindPasswordChange = "password_changed"
)

var mailTemplates = template.Must(template.New("mail").Parse(`
{{define "order_placed"}}<h2>Thank you for your order, {{.User.FirstName}}</h2>
<p>Order <strong>{{.Order.Code}}</strong> has been received and is {{.Order.Status}}.</p>
<table>{{range .Order.Products}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{printf "%.2f" .Price}}</td></tr>{{end}}</table>
<p>Total: {{printf "%.2f" .Order.TotalAmount}}</p>{{end}}
{{define "order_status"}}<h2>Order {{.Order.Code}} updated</h2>
<p>Hello {{.User.FirstName}}, your order moved from {{.Order.PreviousStatus}} to <strong>{{.Order.Status}}</strong>.</p>{{end}}
{{define "password_reset"}}<h2>Password reset</h2>
<p>Hello {{.User.FirstName}}, use the link below to choose a new password. It expires in one hour.</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If you did not ask for this, ignore this email.</p>{{end}}
{{define "password_changed"}}<h2>Password changed</h2>
<p>Hello {{.User.FirstName}}, your password was changed. If this was not you, contact support.</p>{{end}}
`))

type mailData struct {
	User  *domain.User
	Order *domain.Order
	Link  string
}

// Mailbox renders customer emails and hands them to a Notifier. A nil
// Mailbox drops everything.
type Mailbox struct {
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewMailbox(notifier ports.Notifier, log zerolog.Logger) *Mailbox {
	return &Mailbox{notifier: notifier, log: log}
}

func (m *Mailbox) OrderPlaced(user *domain.User, order *domain.Order) {
	m.send(KindOrderPlaced, user, "Order "+order.Code+" confirmed", mailData{User: user, Order: order})
}

func (m *Mailbox) OrderStatusChanged(user *domain.User, order *domain.Order) {
	m.send(KindOrderStatus, user, "Order "+order.Code+" is now "+string(order.Status), mailData{User: user, Order: order})
}

func (m *Mailbox) PasswordReset(user *domain.User, link string) {
	m.send(KindPasswordReset, user, "Reset your password", mailData{User: user, Link: link})
}

func (m *Mailbox) PasswordChanged(user *domain.User) {
	m.send(KindPasswordChange, user, "Your password was changed", mailData{User: user})
}

func (m *Mailbox) send(kind string, user *domain.User, subject string, data mailData) {
	if m == nil || m.notifier == nil || user == nil || user.Email == "" {
		return
	}
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, kind, data); err != nil {
		m.log.Error().Err(err).Str("kind", kind).Msg("render email")
		return
	}
	m.notifier.Notify(ports.Notification{Kind: kind, To: user.Email, Subject: subject, HTML: buf.String()})
}

type notificationService struct {
	mailer ports.Mailer
	log    zerolog.Logger
}

// NewNotificationService returns the worker-side delivery service.
func NewNotificationService(mailer ports.Mailer, log zerolog.Logger) ports.NotificationService {
	return &notificationService{mailer: mailer, log: log}
}

func (s *notificationService) Deliver(ctx context.Context, n ports.Notification) error {
	if err := s.mailer.Send(ctx, n); err != nil {
		return fmt.Errorf("deliver %s: %w", n.Kind, err)
	}
	s.log.Debug().Str("kind", n.Kind).Str("to", n.To).Msg("notification sent")
	return nil
}
