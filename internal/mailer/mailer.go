// Package mailer delivers the notification emails that follow a successful
// form submission. Delivery goes through the configured SMTP relay; when no
// complete credential set is present the notifier is disabled and every send
// fails fast with ErrUnavailable.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/activcleaning/website/internal/config"
)

// ErrUnavailable is returned for every send attempt when the SMTP channel
// has not been configured.
var ErrUnavailable = errors.New("smtp transport not configured")

const senderName = "Activ Cleaning Website"

// ContactNotification is the data rendered into the contact email.
// Optional fields are rendered as "-" when empty.
type ContactNotification struct {
	ID        int64
	FullName  string
	Company   string
	Email     string
	Phone     string
	Consent   bool
	IPAddress string
	Message   string
}

// GDPRNotification is the data rendered into the GDPR request email.
type GDPRNotification struct {
	ID          int64
	FullName    string
	Email       string
	RequestType string
	IPAddress   string
	Message     string
}

// Notifier sends one email per successfully stored submission.
type Notifier interface {
	ContactMessage(ctx context.Context, n ContactNotification) error
	GDPRRequest(ctx context.Context, n GDPRNotification) error
}

// SMTP is the go-mail backed Notifier.
type SMTP struct {
	client *mail.Client
	cfg    config.MailConfig

	contactRecipient string
	privacyContact   string
}

// New builds a Notifier from the mail configuration. Incomplete credentials
// yield the disabled notifier rather than an error, mirroring how the site
// keeps accepting submissions when email is not set up.
func New(cfg config.MailConfig, contactRecipient, privacyContact string) (Notifier, error) {
	if !cfg.Configured() {
		return Disabled{}, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build smtp client: %w", err)
	}

	return &SMTP{
		client:           client,
		cfg:              cfg,
		contactRecipient: contactRecipient,
		privacyContact:   privacyContact,
	}, nil
}

// ContactMessage emails the contact recipient, with the optional CC/BCC
// addresses from configuration.
func (s *SMTP) ContactMessage(ctx context.Context, n ContactNotification) error {
	msg, err := s.newMessage(s.contactRecipient, fmt.Sprintf("Mesaj nou de pe site (#%d)", n.ID), contactBody(n))
	if err != nil {
		return err
	}
	if s.cfg.CC != "" {
		if err := msg.Cc(s.cfg.CC); err != nil {
			return fmt.Errorf("invalid cc address: %w", err)
		}
	}
	if s.cfg.BCC != "" {
		if err := msg.Bcc(s.cfg.BCC); err != nil {
			return fmt.Errorf("invalid bcc address: %w", err)
		}
	}

	return s.send(ctx, msg)
}

// GDPRRequest emails the privacy contact.
func (s *SMTP) GDPRRequest(ctx context.Context, n GDPRNotification) error {
	msg, err := s.newMessage(s.privacyContact, fmt.Sprintf("Cerere GDPR nouă (#%d)", n.ID), gdprBody(n))
	if err != nil {
		return err
	}

	return s.send(ctx, msg)
}

func (s *SMTP) newMessage(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(senderName, s.cfg.User); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

func (s *SMTP) send(ctx context.Context, msg *mail.Msg) error {
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// contactBody renders the fixed-format plain-text contact email. Optional
// fields show as "-" when absent.
func contactBody(n ContactNotification) string {
	consent := "NU"
	if n.Consent {
		consent = "DA"
	}

	return strings.Join([]string{
		"Ai primit un mesaj nou prin formularul de contact:",
		fmt.Sprintf("ID mesaj: %d", n.ID),
		"Nume: " + n.FullName,
		"Companie: " + orDash(n.Company),
		"Email: " + n.Email,
		"Telefon: " + orDash(n.Phone),
		"Consimțământ GDPR: " + consent,
		"IP: " + orDash(n.IPAddress) + "\n",
		"Mesaj:",
		n.Message,
	}, "\n")
}

// gdprBody renders the fixed-format plain-text GDPR request email.
func gdprBody(n GDPRNotification) string {
	return strings.Join([]string{
		"Ai primit o nouă cerere GDPR:",
		fmt.Sprintf("ID cerere: %d", n.ID),
		"Nume: " + n.FullName,
		"Email: " + n.Email,
		"Tip solicitare: " + n.RequestType,
		"IP: " + orDash(n.IPAddress),
		"",
		"Mesaj:",
		n.Message,
	}, "\n")
}

// Disabled is the Notifier used when SMTP credentials are missing.
type Disabled struct{}

func (Disabled) ContactMessage(context.Context, ContactNotification) error { return ErrUnavailable }
func (Disabled) GDPRRequest(context.Context, GDPRNotification) error       { return ErrUnavailable }

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
