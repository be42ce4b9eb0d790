package utils

import (
	"fmt"
	"html"
	"mime"
	netmail "net/mail"
	"net/smtp"
	"strings"

	"vaultgrow/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

const senderName = "VaultGrow"

// Mailer delivers one HTML email.
type Mailer interface {
	Send(to, toName, subject, htmlBody string) error
}

// SendgridMailer delivers through the SendGrid v3 API.
type SendgridMailer struct {
	From   string
	client *sendgrid.Client
}

func NewSendgridMailer(apiKey, from string) *SendgridMailer {
	return &SendgridMailer{From: from, client: sendgrid.NewSendClient(apiKey)}
}

func (m *SendgridMailer) Send(to, toName, subject, htmlBody string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(senderName, m.From),
		subject,
		mail.NewEmail(toName, to),
		stripTags(htmlBody),
		htmlBody,
	)
	resp, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// SMTPMailer sends through Gmail SMTP with an app password.
type SMTPMailer struct {
	Host     string
	Port     string
	From     string
	Password string
}

func (m *SMTPMailer) Send(to, toName, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, buildMessage(m.From, to, toName, subject, htmlBody))
}

// buildMessage assembles the raw SMTP message. Header values are encoded so
// user-supplied names and subjects cannot start new header lines.
func buildMessage(from, to, toName, subject, htmlBody string) []byte {
	sender := netmail.Address{Name: senderName, Address: from}
	recipient := netmail.Address{Name: headerValue(toName), Address: headerValue(to)}

	var b strings.Builder
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("From: " + sender.String() + "\r\n")
	b.WriteString("To: " + recipient.String() + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", headerValue(subject)) + "\r\n\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// headerValue drops line breaks from a value bound for a mail header.
func headerValue(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
}

// NoopMailer drops every message. Used when no transport is configured.
type NoopMailer struct{}

func (NoopMailer) Send(string, string, string, string) error { return nil }

// NewMailer picks SendGrid when an API key is set, then SMTP, then nothing.
func NewMailer(cfg *config.Config) Mailer {
	switch {
	case cfg.SendgridAPIKey != "" && cfg.EmailSender != "":
		return NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailSender)
	case cfg.EmailSender != "" && cfg.EmailPassword != "":
		return &SMTPMailer{Host: "smtp.gmail.com", Port: "587", From: cfg.EmailSender, Password: cfg.EmailPassword}
	default:
		return NoopMailer{}
	}
}

// Notifier renders the transactional emails and hands them to a Mailer.
// Delivery happens in the background unless Sync is set.
type Notifier struct {
	Mailer Mailer
	Log    logrus.FieldLogger
	Sync   bool
}

func NewNotifier(m Mailer, log logrus.FieldLogger) *Notifier {
	return &Notifier{Mailer: m, Log: log}
}

func (n *Notifier) send(to, toName, subject, title, body string) {
	toName, subject = headerValue(toName), headerValue(subject)
	deliver := func() {
		if err := n.Mailer.Send(to, toName, subject, getEmailTemplate(title, body)); err != nil {
			n.Log.WithError(err).WithField("subject", subject).Error("[EMAIL] delivery failed")
			return
		}
		n.Log.WithField("subject", subject).Debug("[EMAIL] sent")
	}
	if n.Sync {
		deliver()
		return
	}
	go deliver()
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F4F7F5; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #0B3D2E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #0B3D2E; line-height: 1.6; }
			.info-box { background: #E9F5EE; padding: 15px; border-radius: 4px; border-left: 4px solid #2E8B57; margin: 20px 0; }
			.footer { background-color: #F4F7F5; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>VAULTGROW</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">Investments carry risk. Returns are credited only after confirmation.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

func stripTags(markup string) string {
	var b strings.Builder
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// --- Triggers ---

func (n *Notifier) SendWelcomeEmail(email, name string, welcomeCredit float64) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your VaultGrow account is ready.</p>
		<div class="info-box">A welcome credit of <strong>%.2f</strong> has been added to your wallet.</div>
	`, html.EscapeString(name), welcomeCredit)
	n.send(email, name, "Welcome to VaultGrow", "Welcome Onboard!", body)
}

func (n *Notifier) SendPaymentConfirmedEmail(email, name string, amount float64, reference string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your payment <strong>%s</strong> of <strong>%.2f</strong> has been verified.</p>
		<p>Your wallet balance has been updated.</p>
	`, html.EscapeString(name), html.EscapeString(reference), amount)
	n.send(email, name, "Payment Confirmed", "Payment Confirmed", body)
}

func (n *Notifier) SendInvestmentConfirmedEmail(email, name, planName string, amount float64) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your <strong>%s</strong> investment of <strong>%.2f</strong> is now active.</p>
		<p>Returns will be credited to your wallet on every accrual cycle.</p>
	`, html.EscapeString(name), html.EscapeString(planName), amount)
	n.send(email, name, "Investment Confirmed: "+planName, "Investment Active", body)
}

func (n *Notifier) SendWithdrawalPaidEmail(email, name string, amount float64, bankName string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your withdrawal of <strong>%.2f</strong> to %s has been paid.</p>
	`, html.EscapeString(name), amount, html.EscapeString(bankName))
	n.send(email, name, "Withdrawal Paid", "Withdrawal Paid", body)
}
