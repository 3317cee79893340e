// Package mail sends inquiry notifications to the business owner.
package mail

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gomail "github.com/wneessen/go-mail"

	"github.com/rgcpoolandspa/poolsite/internal/config"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

// Notifier delivers the notification for a newly stored inquiry.
// product is nil unless the inquiry was sent from a product page.
type Notifier interface {
	NotifyInquiry(ctx context.Context, inq *models.Inquiry, product *models.Product) error
}

// Message is a rendered notification.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

//go:embed inquiry.gohtml
var inquiryTemplate string

var tpl = template.Must(template.New("inquiry").Parse(inquiryTemplate)) //nolint:gochecknoglobals

// Render builds the notification for inq.
func Render(inq *models.Inquiry, product *models.Product) (Message, error) {
	var buf bytes.Buffer

	err := tpl.Execute(&buf, map[string]any{
		"Inquiry":  inq,
		"Product":  product,
		"Received": inq.CreatedAt.Format(time.RFC1123),
	})
	if err != nil {
		return Message{}, errors.Wrap(err, "failed to render inquiry mail")
	}

	text, err := md.NewConverter("", true, nil).ConvertString(buf.String())
	if err != nil {
		return Message{}, errors.Wrap(err, "failed to convert inquiry mail to text")
	}

	return Message{
		Subject: fmt.Sprintf("New Inquiry: %s - %s", inq.Service, inq.Name),
		HTML:    buf.String(),
		Text:    text,
	}, nil
}

// New returns the SMTP notifier, or a no-op when mail is disabled.
func New(cfg config.Mail) Notifier {
	if !cfg.Enabled || cfg.Host == "" {
		return Disabled{}
	}

	return &SMTP{cfg: cfg}
}

// Disabled logs notifications instead of sending them.
type Disabled struct{}

// NotifyInquiry implements Notifier.
func (Disabled) NotifyInquiry(_ context.Context, inq *models.Inquiry, _ *models.Product) error {
	log.Info().Uint64("inquiry", inq.ID).Msg("mail disabled, inquiry notification not sent")

	return nil
}

// SMTP sends notifications through the configured mail server.
type SMTP struct {
	cfg config.Mail
}

// NotifyInquiry implements Notifier.
func (s *SMTP) NotifyInquiry(ctx context.Context, inq *models.Inquiry, product *models.Product) error {
	rendered, err := Render(inq, product)
	if err != nil {
		return err
	}

	msg, err := s.message(rendered, inq.Email)
	if err != nil {
		return err
	}

	client, err := s.client()
	if err != nil {
		return err
	}

	if err = client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrap(err, "failed to send inquiry mail")
	}

	return nil
}

func (s *SMTP) message(m Message, replyTo string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()

	if err := msg.From(s.cfg.From); err != nil {
		return nil, errors.Wrap(err, "invalid sender address")
	}

	if err := msg.To(s.cfg.To); err != nil {
		return nil, errors.Wrap(err, "invalid recipient address")
	}

	if replyTo != "" {
		if err := msg.ReplyTo(replyTo); err != nil {
			log.Warn().Err(err).Str("address", replyTo).Msg("ignoring invalid reply-to address")
		}
	}

	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, m.Text)
	msg.AddAlternativeString(gomail.TypeTextHTML, m.HTML)

	return msg, nil
}

func (s *SMTP) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(tlsPolicy(s.cfg.TLSPolicy)),
	}

	if s.cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(s.cfg.Timeout))
	}

	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create mail client")
	}

	return client, nil
}

func tlsPolicy(name string) gomail.TLSPolicy {
	switch strings.ToLower(name) {
	case "mandatory":
		return gomail.TLSMandatory
	case "none", "notls":
		return gomail.NoTLS
	}

	return gomail.TLSOpportunistic
}
