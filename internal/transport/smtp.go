package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"

	"github.com/pikad/herald/internal/dkim"
	"github.com/pikad/herald/internal/message"
)

// SMTPOptions configures the SMTP submission adapter.
type SMTPOptions struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string // default envelope/header sender
	Hostname    string // HELO name
	ImplicitTLS bool   // true for port 465, false for STARTTLS
	Timeout     time.Duration
}

// SMTP submits messages to a configured smarthost. One connection per
// send; the pipeline's volume does not justify pooling.
type SMTP struct {
	opts   SMTPOptions
	signer *dkim.Signer
	logger *slog.Logger
}

// NewSMTP creates the SMTP transport.
func NewSMTP(opts SMTPOptions, logger *slog.Logger) *SMTP {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Port == 0 {
		if opts.ImplicitTLS {
			opts.Port = 465
		} else {
			opts.Port = 587
		}
	}
	return &SMTP{opts: opts, logger: logger}
}

// SetDKIMSigner enables DKIM signing of outbound messages.
func (t *SMTP) SetDKIMSigner(signer *dkim.Signer) {
	t.signer = signer
}

// Send delivers the message and returns a receipt with the generated
// Message-ID.
func (t *SMTP) Send(ctx context.Context, msg *message.Message) (*Receipt, error) {
	from := msg.From
	if from == "" {
		from = t.opts.From
	}

	messageID := fmt.Sprintf("%s@%s", uuid.New().String(), t.opts.Hostname)

	raw, err := buildRaw(msg, from, messageID)
	if err != nil {
		return nil, &Error{Reason: fmt.Sprintf("failed to build message: %v", err), Err: err}
	}

	if t.signer != nil {
		signed, err := t.signer.Sign(raw)
		if err != nil {
			t.logger.Warn("DKIM signing failed, sending unsigned",
				"domain", t.signer.Domain(),
				"error", err,
			)
		} else {
			raw = signed
		}
	}

	client, err := t.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	recipients := append([]string{msg.To}, msg.CC...)
	recipients = append(recipients, msg.BCC...)

	if err := client.SendMail(from, recipients, bytes.NewReader(raw)); err != nil {
		return nil, &Error{Reason: fmt.Sprintf("send failed: %v", err), Err: err}
	}
	if err := client.Quit(); err != nil {
		t.logger.Debug("QUIT after successful send failed", "error", err)
	}

	t.logger.Info("message submitted",
		"to", msg.To,
		"message_id", messageID,
	)

	return &Receipt{MessageID: messageID, Accepted: time.Now()}, nil
}

// VerifyConnection dials the smarthost and exchanges a NOOP.
func (t *SMTP) VerifyConnection(ctx context.Context) error {
	client, err := t.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Noop(); err != nil {
		return &Error{Reason: fmt.Sprintf("NOOP failed: %v", err), Err: err}
	}
	if err := client.Quit(); err != nil {
		return &Error{Reason: fmt.Sprintf("QUIT failed: %v", err), Err: err}
	}
	return nil
}

func (t *SMTP) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(t.opts.Host, fmt.Sprintf("%d", t.opts.Port))
	tlsConfig := &tls.Config{
		ServerName: t.opts.Host,
		MinVersion: tls.VersionTLS12,
	}

	dialer := &net.Dialer{Timeout: t.opts.Timeout}

	var client *smtp.Client
	if t.opts.ImplicitTLS {
		conn, err := tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
		if err != nil {
			return nil, &Error{Reason: fmt.Sprintf("connection failed to %s: %v", addr, err), Err: err}
		}
		client = smtp.NewClient(conn)

		if deadline, ok := ctx.Deadline(); ok {
			client.CommandTimeout = time.Until(deadline)
		} else {
			client.CommandTimeout = t.opts.Timeout
		}

		if t.opts.Hostname != "" {
			if err := client.Hello(t.opts.Hostname); err != nil {
				client.Close()
				return nil, &Error{Reason: fmt.Sprintf("HELO failed: %v", err), Err: err}
			}
		}
	} else {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, &Error{Reason: fmt.Sprintf("connection failed to %s: %v", addr, err), Err: err}
		}
		// NewClientStartTLS runs the greeting, EHLO and STARTTLS
		// itself; a smarthost that won't encrypt is a hard failure.
		client, err = smtp.NewClientStartTLS(conn, tlsConfig)
		if err != nil {
			conn.Close()
			return nil, &Error{Reason: fmt.Sprintf("STARTTLS setup failed for %s: %v", addr, err), Err: err}
		}

		if deadline, ok := ctx.Deadline(); ok {
			client.CommandTimeout = time.Until(deadline)
		} else {
			client.CommandTimeout = t.opts.Timeout
		}
	}

	if t.opts.Username != "" {
		auth := sasl.NewPlainClient("", t.opts.Username, t.opts.Password)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, &Error{Reason: fmt.Sprintf("authentication failed: %v", err), Err: err}
		}
	}

	return client, nil
}
