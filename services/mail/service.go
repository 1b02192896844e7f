package mail

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tech-arch1tect/greenpoll/config"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"github.com/valyala/fasttemplate"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const (
	placeholderStart = "{"
	placeholderEnd   = "}"
)

// Sender delivers composed messages. *mail.Client satisfies it.
type Sender interface {
	DialAndSend(messages ...*mail.Msg) error
}

type Service struct {
	config    *config.MailConfig
	client    Sender
	templates map[string]*emailTemplate
	logger    *logging.Service
}

// emailTemplate is one named email. Either part may be missing, but not both.
type emailTemplate struct {
	html *fasttemplate.Template
	text *fasttemplate.Template
}

func NewService(cfg *config.MailConfig, logger *logging.Service) (*Service, error) {
	var client Sender

	switch cfg.Driver {
	case "log":
		client = &logSender{logger: logger}
	default:
		smtpClient, err := newSMTPClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		client = smtpClient
	}

	return NewServiceWithClient(cfg, logger, client)
}

func NewServiceWithClient(cfg *config.MailConfig, logger *logging.Service, client Sender) (*Service, error) {
	if cfg.FromAddress == "" {
		logger.Error("mail service initialization failed: FROM_ADDRESS is required")
		return nil, fmt.Errorf("MAIL_FROM_ADDRESS is required")
	}

	service := &Service{
		config:    cfg,
		client:    client,
		templates: make(map[string]*emailTemplate),
		logger:    logger,
	}

	if err := service.loadTemplates(); err != nil {
		logger.Error("failed to load mail templates", zap.Error(err))
		return nil, fmt.Errorf("failed to load mail templates: %w", err)
	}

	logger.Info("mail service initialized",
		zap.String("driver", cfg.Driver),
		zap.Int("templates", len(service.templates)))
	return service, nil
}

func newSMTPClient(cfg *config.MailConfig, logger *logging.Service) (*mail.Client, error) {
	clientOpts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(30 * time.Second),
	}

	if cfg.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password))
	}

	switch cfg.Encryption {
	case "ssl":
		clientOpts = append(clientOpts, mail.WithSSL())
	case "none":
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.NoTLS))
	default:
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		logger.Error("failed to create mail client",
			zap.Error(err),
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port))
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return client, nil
}

// loadTemplates reads <name>.html and <name>.txt pairs from the templates
// directory. Placeholders are written as {name}.
func (s *Service) loadTemplates() error {
	if s.config.TemplatesDir == "" {
		s.logger.Debug("no template directory configured, skipping template loading")
		return nil
	}

	for _, ext := range []string{".html", ".txt"} {
		paths, err := filepath.Glob(filepath.Join(s.config.TemplatesDir, "*"+ext))
		if err != nil {
			return fmt.Errorf("invalid template pattern: %w", err)
		}

		for _, path := range paths {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read template %s: %w", path, err)
			}

			tmpl, err := fasttemplate.NewTemplate(string(content), placeholderStart, placeholderEnd)
			if err != nil {
				return fmt.Errorf("failed to parse template %s: %w", path, err)
			}

			name := strings.TrimSuffix(filepath.Base(path), ext)
			entry, ok := s.templates[name]
			if !ok {
				entry = &emailTemplate{}
				s.templates[name] = entry
			}
			if ext == ".html" {
				entry.html = tmpl
			} else {
				entry.text = tmpl
			}
		}
	}

	return nil
}

func (s *Service) HasTemplate(name string) bool {
	_, ok := s.templates[name]
	return ok
}

func (s *Service) NewMessage() (*mail.Msg, error) {
	message := mail.NewMsg()

	var err error
	if s.config.FromName != "" {
		err = message.FromFormat(s.config.FromName, s.config.FromAddress)
	} else {
		err = message.From(s.config.FromAddress)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set FROM address: %w", err)
	}

	return message, nil
}

func (s *Service) Send(message *mail.Msg) error {
	startTime := time.Now()
	err := s.client.DialAndSend(message)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("failed to send email",
			zap.Error(err),
			zap.Duration("attempt_duration", duration))
		return err
	}

	s.logger.Debug("email sent", zap.Duration("send_duration", duration))
	return nil
}

// SendTemplate renders the named template with data substituted for its
// placeholders and sends it to every recipient.
func (s *Service) SendTemplate(templateName string, to []string, subject string, data map[string]any) error {
	s.logger.Info("sending template email",
		zap.String("template", templateName),
		zap.Int("recipients", len(to)),
		zap.String("subject", subject))

	message, err := s.NewMessage()
	if err != nil {
		return err
	}

	if err := message.To(to...); err != nil {
		return fmt.Errorf("failed to set TO addresses: %w", err)
	}

	message.Subject(subject)

	if err := s.render(templateName, data, message); err != nil {
		s.logger.Error("failed to render template",
			zap.Error(err),
			zap.String("template", templateName))
		return fmt.Errorf("failed to render template: %w", err)
	}

	return s.Send(message)
}

func (s *Service) render(templateName string, data map[string]any, message *mail.Msg) error {
	entry, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template '%s' not found", templateName)
	}

	htmlBody, textBody := entry.execute(data)

	switch {
	case entry.html != nil && entry.text != nil:
		message.SetBodyString(mail.TypeTextHTML, htmlBody)
		message.AddAlternativeString(mail.TypeTextPlain, textBody)
	case entry.html != nil:
		message.SetBodyString(mail.TypeTextHTML, htmlBody)
	default:
		message.SetBodyString(mail.TypeTextPlain, textBody)
	}

	return nil
}

// execute substitutes placeholders. Unknown {...} runs, such as CSS blocks,
// are left as they are.
func (t *emailTemplate) execute(data map[string]any) (htmlBody, textBody string) {
	textValues := make(map[string]any, len(data))
	htmlValues := make(map[string]any, len(data))
	for key, value := range data {
		str := fmt.Sprint(value)
		textValues[key] = str
		htmlValues[key] = html.EscapeString(str)
	}

	if t.html != nil {
		htmlBody = t.html.ExecuteStringStd(htmlValues)
	}
	if t.text != nil {
		textBody = t.text.ExecuteStringStd(textValues)
	}
	return htmlBody, textBody
}

// logSender writes messages to the log instead of an SMTP server.
type logSender struct {
	logger *logging.Service
}

func (l *logSender) DialAndSend(messages ...*mail.Msg) error {
	for _, msg := range messages {
		recipients, err := msg.GetRecipients()
		if err != nil {
			return err
		}
		l.logger.Info("mail delivery skipped (log driver)",
			zap.Strings("to", recipients),
			zap.Strings("subject", msg.GetGenHeader(mail.HeaderSubject)))
	}
	return nil
}
