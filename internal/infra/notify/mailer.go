// Package notify holds the best-effort collaborators triggered after a
// reservation is persisted: the confirmation mailer and the event publisher.
// Nothing in here may fail the booking request.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"karabox/internal/domain/reservation"
	"karabox/internal/pkg/config"
	"karabox/internal/pkg/errs"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Mailer interface {
	SendConfirmation(ctx context.Context, res *reservation.Reservation) error
}

func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.SendGridAPIKey == "" {
		return &unconfiguredMailer{}
	}
	return &sendGridMailer{cfg: cfg}
}

type unconfiguredMailer struct{}

func (m *unconfiguredMailer) SendConfirmation(context.Context, *reservation.Reservation) error {
	return errs.Mark(errs.New("mail provider not configured"), errs.ErrDependencyUnavailable)
}

type sendGridMailer struct {
	cfg config.MailConfig
}

// SendConfirmation mails the booking summary. The door QR encodes the access
// check URL for the reservation id; image rendering happens in the mail
// template service, we only supply the link.
func (m *sendGridMailer) SendConfirmation(_ context.Context, res *reservation.Reservation) error {
	rng := res.Range()
	accessURL := fmt.Sprintf("%s?id=%s", m.cfg.AccessCheckURL, res.ID())

	plain := fmt.Sprintf(
		"Hi %s,\n\nyour karaoke box %d is booked on %s from %s to %s.\n\nShow this code at the door:\n%s\n",
		res.CustomerName(), res.BoxID(), rng.Date,
		rng.Start.Format("15:04"), rng.End.Format("15:04"),
		accessURL,
	)
	html := fmt.Sprintf("<pre>%s</pre>", plain)

	from := mail.NewEmail(m.cfg.FromName, m.cfg.FromAddress)
	to := mail.NewEmail(res.CustomerName(), res.CustomerEmail())
	message := mail.NewSingleEmail(from, "Your karaoke booking is confirmed", to, plain, html)

	client := sendgrid.NewSendClient(m.cfg.SendGridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return errs.Wrap(err, "sendgrid send failed")
	}
	if response.StatusCode >= 400 {
		return errs.New(fmt.Sprintf("sendgrid rejected mail: status=%d body=%s", response.StatusCode, response.Body))
	}

	slog.Info("confirmation mail sent", "reservation_id", res.ID(), "to", res.CustomerEmail())
	return nil
}
