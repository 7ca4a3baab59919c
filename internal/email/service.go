package emailService

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"sync"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

const (
	subjectBudgetExceeded  = "You went over a budget"
	templateBudgetExceeded = "budget_exceeded.html"

	queueSize = 100
)

//go:embed templates/*.html
var templatesFS embed.FS

type EmailData interface {
	TemplateFileName() string
	Subject() string
}

type EmailSender interface {
	QueueEmail(to string, data EmailData)
}

type BudgetExceededData struct {
	UserName   string
	BudgetName string
	Amount     string
	Spent      string
	Over       string
}

func (d BudgetExceededData) TemplateFileName() string {
	return templateBudgetExceeded
}

func (d BudgetExceededData) Subject() string {
	return subjectBudgetExceeded
}

// Transport delivers a rendered message.
type Transport interface {
	Send(e *email.Email) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type smtpTransport struct {
	addr string
	auth smtp.Auth
}

func NewSMTPTransport(cfg SMTPConfig) Transport {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &smtpTransport{addr: net.JoinHostPort(cfg.Host, cfg.Port), auth: auth}
}

func (t *smtpTransport) Send(e *email.Email) error {
	return e.Send(t.addr, t.auth)
}

type EmailTask struct {
	to   string
	data EmailData
}

// EmailService renders templated mail and sends it from a single worker.
type EmailService struct {
	from      string
	transport Transport
	templates *template.Template
	taskQueue chan EmailTask
	log       logrus.FieldLogger

	closeOnce sync.Once
	done      chan struct{}
}

func NewEmailService(from string, transport Transport, log logrus.FieldLogger) (*EmailService, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}

	s := &EmailService{
		from:      from,
		transport: transport,
		templates: templates,
		taskQueue: make(chan EmailTask, queueSize),
		log:       log,
		done:      make(chan struct{}),
	}
	go s.worker()
	return s, nil
}

func (s *EmailService) worker() {
	defer close(s.done)
	for task := range s.taskQueue {
		if err := s.sendTemplatedEmail(task.to, task.data); err != nil {
			s.log.WithError(err).WithField("to", task.to).Error("Error sending email")
		}
	}
}

// QueueEmail hands the message to the worker. A full queue drops it.
func (s *EmailService) QueueEmail(to string, data EmailData) {
	select {
	case s.taskQueue <- EmailTask{to: to, data: data}:
	default:
		s.log.WithField("to", to).Warn("Email queue full, message dropped")
	}
}

// Close stops accepting mail and waits for the queue to drain.
func (s *EmailService) Close() {
	s.closeOnce.Do(func() {
		close(s.taskQueue)
	})
	<-s.done
}

func (s *EmailService) sendTemplatedEmail(to string, data EmailData) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, data.TemplateFileName(), data); err != nil {
		return fmt.Errorf("error executing template: %w", err)
	}

	e := email.NewEmail()
	e.From = s.from
	e.To = []string{to}
	e.Subject = data.Subject()
	e.HTML = body.Bytes()

	if err := s.transport.Send(e); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}
