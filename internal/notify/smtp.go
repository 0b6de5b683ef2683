package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
	"github.com/wneessen/go-mail"
)

// DefaultFromName is the display name on outgoing mail.
const DefaultFromName = "Authify Support"

// SMTPConfig is the relay the SMTP notifier submits through.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// sendFunc hands a message to the relay.
type sendFunc func(ctx context.Context, msg *mail.Msg) error

// SMTPNotifier sends account mail over SMTP. Each send opens its own connection.
type SMTPNotifier struct {
	cfg  SMTPConfig
	send sendFunc
	log  *slog.Logger
}

// NewSMTPNotifier validates cfg and returns a notifier that dials cfg.Host per message.
func NewSMTPNotifier(cfg SMTPConfig, log *slog.Logger) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("mail from address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.FromName == "" {
		cfg.FromName = DefaultFromName
	}
	if log == nil {
		log = slog.Default()
	}
	n := &SMTPNotifier{cfg: cfg, log: log}
	n.send = n.dialAndSend
	return n, nil
}

func (n *SMTPNotifier) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}
	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// SendWelcome mails the HTML welcome message.
func (n *SMTPNotifier) SendWelcome(ctx context.Context, email, name string) error {
	m, err := renderWelcome(email, name)
	if err != nil {
		return oops.Code("MAIL_RENDER_FAILED").With("kind", KindWelcome).Wrap(err)
	}
	return n.deliver(ctx, KindWelcome, m)
}

// SendVerificationOTP mails the plain text verification code.
func (n *SMTPNotifier) SendVerificationOTP(ctx context.Context, email, code string) error {
	m, err := renderVerification(email, code)
	if err != nil {
		return oops.Code("MAIL_RENDER_FAILED").With("kind", KindVerification).Wrap(err)
	}
	return n.deliver(ctx, KindVerification, m)
}

// SendResetOTP mails the HTML password reset code.
func (n *SMTPNotifier) SendResetOTP(ctx context.Context, email, code string) error {
	m, err := renderReset(email, code)
	if err != nil {
		return oops.Code("MAIL_RENDER_FAILED").With("kind", KindReset).Wrap(err)
	}
	return n.deliver(ctx, KindReset, m)
}

func (n *SMTPNotifier) deliver(ctx context.Context, kind string, m *Message) error {
	msg, err := n.build(m)
	if err != nil {
		return oops.Code("MAIL_BUILD_FAILED").With("kind", kind).Wrap(err)
	}
	if err := n.send(ctx, msg); err != nil {
		n.log.WarnContext(ctx, "smtp delivery failed", "kind", kind, "error", err)
		return oops.Code("MAIL_SEND_FAILED").With("kind", kind).With("host", n.cfg.Host).Wrap(err)
	}
	n.log.DebugContext(ctx, "mail sent", "kind", kind)
	return nil
}

func (n *SMTPNotifier) build(m *Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(n.cfg.FromName, n.cfg.From); err != nil {
		return nil, err
	}
	if err := msg.To(m.To); err != nil {
		return nil, err
	}
	msg.Subject(m.Subject)
	ct := mail.TypeTextPlain
	if m.HTML {
		ct = mail.TypeTextHTML
	}
	msg.SetBodyString(ct, m.Body)
	return msg, nil
}

var _ Notifier = (*SMTPNotifier)(nil)
