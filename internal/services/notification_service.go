// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/storefront-api/internal/config"
	"github.com/javajoker/storefront-api/internal/models"
)

// EmailSender delivers one HTML message.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type NotificationService struct {
	sender EmailSender
	config *config.Config
}

func NewNotificationService(cfg *config.Config) (*NotificationService, error) {
	var sender EmailSender
	switch cfg.Email.Provider {
	case "smtp":
		sender = &smtpSender{cfg: cfg.Email}
	case "ses":
		s, err := newSESSender(cfg)
		if err != nil {
			return nil, err
		}
		sender = s
	default:
		sender = logSender{}
	}
	return NewNotificationServiceWithSender(sender, cfg), nil
}

func NewNotificationServiceWithSender(sender EmailSender, cfg *config.Config) *NotificationService {
	return &NotificationService{
		sender: sender,
		config: cfg,
	}
}

// SendOrderConfirmation emails the customer a summary of a placed order.
// Users without an email address are skipped.
func (s *NotificationService) SendOrderConfirmation(order *models.Order) error {
	if order.User.Email == "" {
		logrus.WithField("order_id", order.ID).Debug("No email address, skipping order confirmation")
		return nil
	}

	body, err := renderOrderConfirmation(order, s.config.Email.FromName)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	subject := fmt.Sprintf("Order %s confirmation", shortID(order))
	if err := s.sender.Send(ctx, order.User.Email, subject, body); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{"order_id": order.ID, "to": order.User.Email}).Info("Order confirmation sent")
	return nil
}

func shortID(order *models.Order) string {
	return order.ID.String()[:8]
}

var orderConfirmationTemplate = template.Must(template.New("order_confirmation").Parse(`
<!DOCTYPE html>
<html>
<body>
	<h2>Thank you for your order, {{.Name}}!</h2>
	<p>Your order <strong>{{.OrderID}}</strong> has been placed and is {{.Status}}.</p>
	<table>
		<tr><th align="left">Product</th><th>Qty</th><th align="right">Price</th><th align="right">Total</th></tr>
		{{range .Items}}
		<tr><td>{{.Product.Name}}</td><td align="center">{{.Quantity}}</td><td align="right">{{.Price.StringFixed 2}}</td><td align="right">{{.LineTotal.StringFixed 2}}</td></tr>
		{{end}}
	</table>
	<p><strong>Order total: {{.Total}}</strong></p>
	<p>Shipping to: {{.ShippingAddress}}</p>
	<p>Best regards,<br>{{.Team}}</p>
</body>
</html>`))

func renderOrderConfirmation(order *models.Order, team string) (string, error) {
	name := order.User.FirstName
	if name == "" {
		name = order.User.Username
	}

	data := map[string]interface{}{
		"Name":            name,
		"OrderID":         shortID(order),
		"Status":          order.Status,
		"Items":           order.Items,
		"Total":           order.TotalAmount.StringFixed(2),
		"ShippingAddress": order.ShippingAddress,
		"Team":            team,
	}

	var buf bytes.Buffer
	if err := orderConfirmationTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type smtpSender struct {
	cfg config.EmailConfig
}

func (s *smtpSender) Send(_ context.Context, to, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	msg := []byte(fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.FromName, s.cfg.FromEmail, to, subject, htmlBody))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

type sesSender struct {
	client *ses.Client
	from   string
}

func newSESSender(cfg *config.Config) (*sesSender, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWS.Region)}
	if cfg.AWS.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	return &sesSender{
		client: ses.NewFromConfig(awsCfg),
		from:   fmt.Sprintf("%s <%s>", cfg.Email.FromName, cfg.Email.FromEmail),
	}, nil
}

func (s *sesSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(htmlBody),
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	return nil
}

// logSender is used when no email provider is configured.
type logSender struct{}

func (logSender) Send(_ context.Context, to, subject, _ string) error {
	logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email delivery disabled, message not sent")
	return nil
}
