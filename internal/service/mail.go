package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/bikerent/bikerent-api/internal/domain"
)

type Mail struct {
	ToEmail   string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (m *SendGridMailer) Send(ctx context.Context, msg Mail) error {
	message := mail.NewSingleEmail(m.from, msg.Subject, mail.NewEmail(msg.ToName, msg.ToEmail), msg.PlainText, msg.HTML)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("m.client.SendWithContext -> %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}

	return nil
}

// LogMailer writes mails to the log instead of sending them. It is used when
// no SendGrid key is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Mail) error {
	zap.L().Info("mail not sent, no mail provider configured",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.PlainText),
	)

	return nil
}

var (
	reservationMailTmpl = template.Must(template.New("reservation").Parse(
		`<p>Hello {{.Name}},</p>
<p>your reservation #{{.ID}} from {{.From}} to {{.To}} is registered.</p>
<ul>{{range .Bikes}}<li>{{.}}</li>{{end}}</ul>
<p>Total price: {{.Price}}</p>
<p>{{.Company}}</p>`))

	resetMailTmpl = template.Must(template.New("reset").Parse(
		`<p>Hello {{.Name}},</p>
<p>use <a href="{{.Link}}">this link</a> within one hour to choose a new password.</p>
<p>{{.Company}}</p>`))
)

// Notifier builds the customer mails and sends them in the background.
type Notifier struct {
	mailer  Mailer
	company domain.Company
	baseURL string
	timeout time.Duration
}

// NewNotifier builds a notifier. A baseURL without a scheme, such as
// "localhost:8080", is served over plain http.
func NewNotifier(mailer Mailer, company domain.Company, baseURL string) *Notifier {
	return &Notifier{
		mailer:  mailer,
		company: company,
		baseURL: absoluteBaseURL(baseURL),
		timeout: 30 * time.Second,
	}
}

func absoluteBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" || strings.Contains(baseURL, "://") {
		return baseURL
	}

	return "http://" + baseURL
}

func (n *Notifier) ReservationCreated(res domain.Reservation, customer domain.User) {
	if customer.Email == "" {
		return
	}

	bikes := make([]string, 0, len(res.Bikes))
	for _, b := range res.Bikes {
		bikes = append(bikes, b.FullName())
	}

	data := struct {
		Name, From, To, Company string
		ID                      uint
		Bikes                   []string
		Price                   int
	}{
		Name:    customer.FullName(),
		From:    res.FromDate.Format(domain.DateLayout),
		To:      res.ToDate.Format(domain.DateLayout),
		Company: n.company.Name,
		ID:      res.ID,
		Bikes:   bikes,
		Price:   res.Price,
	}

	plain := fmt.Sprintf("Hello %s,\n\nyour reservation #%d from %s to %s is registered.\nTotal price: %d\n\n%s",
		data.Name, data.ID, data.From, data.To, data.Price, data.Company)

	n.send(reservationMailTmpl, data, Mail{
		ToEmail:   customer.Email,
		ToName:    customer.FullName(),
		Subject:   fmt.Sprintf("Reservation #%d", res.ID),
		PlainText: plain,
	})
}

func (n *Notifier) PasswordResetRequested(user domain.User, token string) {
	link := fmt.Sprintf("%s/sign/reset/confirm?token=%s", n.baseURL, token)
	data := struct{ Name, Link, Company string }{
		Name:    user.FullName(),
		Link:    link,
		Company: n.company.Name,
	}

	n.send(resetMailTmpl, data, Mail{
		ToEmail:   user.Email,
		ToName:    user.FullName(),
		Subject:   "Password reset",
		PlainText: fmt.Sprintf("Hello %s,\n\nopen %s within one hour to choose a new password.\n\n%s", data.Name, link, data.Company),
	})
}

func (n *Notifier) send(tmpl *template.Template, data interface{}, msg Mail) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		zap.L().Error("failed to render mail", zap.String("template", tmpl.Name()), zap.Error(err))
	} else {
		msg.HTML = body.String()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.mailer.Send(ctx, msg); err != nil {
			zap.L().Warn("failed to send mail", zap.String("to", msg.ToEmail), zap.String("subject", msg.Subject), zap.Error(err))
		}
	}()
}
