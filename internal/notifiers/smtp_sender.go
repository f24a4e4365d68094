package notifiers

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

// smtpSender runs one SMTP session per send. Unlike gomail.Dialer, it puts a
// deadline on the whole session and closes the connection when ctx is done.
type smtpSender struct {
	host     string
	port     int
	username string
	password string
	ssl      bool
	timeout  time.Duration
}

// Send delivers the messages through gomail over a deadline-bound connection.
func (s *smtpSender) Send(ctx context.Context, msgs ...*gomail.Message) error {
	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(s.host, strconv.Itoa(s.port)))
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("smtp set deadline: %w", err)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	err = s.session(conn, msgs)
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		return fmt.Errorf("smtp session aborted: %w", ctxErr)
	}
	return err
}

func (s *smtpSender) session(conn net.Conn, msgs []*gomail.Message) error {
	tlsConfig := &tls.Config{ServerName: s.host}
	if s.ssl {
		conn = tls.Client(conn, tlsConfig)
	}

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if !s.ssl {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}
	if s.username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	send := gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		if err := c.Mail(from); err != nil {
			return err
		}
		for _, addr := range to {
			if err := c.Rcpt(addr); err != nil {
				return err
			}
		}
		w, err := c.Data()
		if err != nil {
			return err
		}
		if _, err := msg.WriteTo(w); err != nil {
			_ = w.Close()
			return err
		}
		return w.Close()
	})
	if err := gomail.Send(send, msgs...); err != nil {
		return err
	}
	return c.Quit()
}
