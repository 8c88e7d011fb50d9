package notifier

import (
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const queueSize = 64

type message struct {
	to      string
	subject string
	body    string
}

// SMTPNotifier delivers mail over SMTP from a single background worker.
type SMTPNotifier struct {
	client  *mail.Client
	from    string
	appName string
	appURL  string
	log     *zap.Logger
	queue   chan message
	done    chan struct{}
}

// SMTPConfig holds the connection settings for the mail client.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppName  string
	AppURL   string
}

// NewSMTPNotifier creates the notifier and starts its worker goroutine.
func NewSMTPNotifier(cfg SMTPConfig, logger *zap.Logger) (*SMTPNotifier, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	n := &SMTPNotifier{
		client:  client,
		from:    cfg.From,
		appName: cfg.AppName,
		appURL:  cfg.AppURL,
		log:     logger,
		queue:   make(chan message, queueSize),
		done:    make(chan struct{}),
	}
	go n.run()
	return n, nil
}

// Close stops the worker after draining queued messages.
func (n *SMTPNotifier) Close() {
	close(n.queue)
	<-n.done
}

func (n *SMTPNotifier) run() {
	defer close(n.done)
	for msg := range n.queue {
		if err := n.send(msg); err != nil {
			n.log.Warn("failed to send notification email",
				zap.String("to", msg.to),
				zap.String("subject", msg.subject),
				zap.Error(err),
			)
		}
	}
}

func (n *SMTPNotifier) send(msg message) error {
	m := mail.NewMsg()
	if err := m.From(n.from); err != nil {
		return err
	}
	if err := m.To(msg.to); err != nil {
		return err
	}
	m.Subject(msg.subject)
	m.SetBodyString(mail.TypeTextPlain, msg.body)
	return n.client.DialAndSend(m)
}

// enqueue hands a message to the worker. A full queue drops the message: the
// triggering operation must never wait on or fail from email delivery.
func (n *SMTPNotifier) enqueue(msg message) {
	select {
	case n.queue <- msg:
	default:
		n.log.Warn("notification queue full, dropping email",
			zap.String("to", msg.to),
			zap.String("subject", msg.subject),
		)
	}
}

func (n *SMTPNotifier) NotifyTaskAssigned(email, userName, taskTitle, projectName string) {
	body := fmt.Sprintf(
		"Hi %s,\n\nYou have been assigned a new task in %s.\n\nTask: %s\nProject: %s\n\nLogin to %s to see the details.\n",
		userName, n.appName, taskTitle, projectName, n.appURL,
	)
	n.enqueue(message{
		to:      email,
		subject: "New Task Assigned: " + taskTitle,
		body:    body,
	})
}

func (n *SMTPNotifier) NotifyPasswordReset(email, resetToken string) {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", n.appURL, resetToken)
	body := fmt.Sprintf(
		"We received a request to reset your password for %s.\n\nOpen the link below to choose a new password. The link expires in 1 hour.\n\n%s\n\nIf you did not request a reset, ignore this email.\n",
		n.appName, resetURL,
	)
	n.enqueue(message{
		to:      email,
		subject: "Password Reset Request - " + n.appName,
		body:    body,
	})
}
