package email

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/google/uuid"
	appconfig "github.com/trailtony/vidhub/internal/config"
)

// EmailType представляет тип email
type EmailType string

const (
	EmailTypeWelcome EmailType = "welcome"
)

// EmailStatus представляет статус email
type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

// EmailMessage представляет отправленное email сообщение
type EmailMessage struct {
	ID        string      `json:"id"`
	Type      EmailType   `json:"type"`
	Recipient string      `json:"recipient"`
	Subject   string      `json:"subject"`
	Status    EmailStatus `json:"status"`
	MessageID string      `json:"message_id,omitempty"`
	SentAt    time.Time   `json:"sent_at"`
	Error     string      `json:"error,omitempty"`
}

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type Client struct {
	SESClient sesAPI
	Sender    string
	AppURL    string
}

// NewClient создает SES клиент (Yandex Cloud Postbox совместим с SES v2 API).
// Без ключей возвращает ненастроенный клиент, письма не отправляются.
func NewClient(ctx context.Context, appCfg *appconfig.Config) (*Client, error) {
	c := &Client{
		Sender: appCfg.EmailFrom,
		AppURL: appCfg.AppURL,
	}
	if appCfg.SESAccessKeyID == "" || appCfg.SESSecretAccessKey == "" || appCfg.EmailFrom == "" {
		return c, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(appCfg.SESAccessKeyID, appCfg.SESSecretAccessKey, "")),
		config.WithRegion(appCfg.SESRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load SES config: %w", err)
	}

	c.SESClient = sesv2.NewFromConfig(cfg, func(o *sesv2.Options) {
		if appCfg.SESEndpoint != "" {
			o.BaseEndpoint = aws.String(appCfg.SESEndpoint)
		}
	})
	return c, nil
}

// IsConfigured проверяет, настроен ли email сервис
func (c *Client) IsConfigured() bool {
	return c != nil && c.Sender != "" && c.SESClient != nil
}

// SendWelcomeEmail отправляет приветственное письмо после регистрации
func (c *Client) SendWelcomeEmail(ctx context.Context, toEmail, username string) (*EmailMessage, error) {
	subject := "Welcome to VidHub"
	body := fmt.Sprintf(`
		<html>
		<head>
			<meta charset="UTF-8">
		</head>
		<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
			<h2>Welcome, %s!</h2>
			<p>Your account is ready. Upload your first video at <a href="%s/videos/upload">%s</a>.</p>
			<p style="font-size: 12px; color: #999;">This message was generated automatically, please do not reply.</p>
		</body>
		</html>
	`, html.EscapeString(username), c.AppURL, c.AppURL)

	message := &EmailMessage{
		ID:        uuid.New().String(),
		Type:      EmailTypeWelcome,
		Recipient: toEmail,
		Subject:   subject,
		Status:    EmailStatusSent,
		SentAt:    time.Now().UTC(),
	}

	messageID, err := c.sendHTMLEmail(ctx, toEmail, subject, body)
	if err != nil {
		message.Status = EmailStatusFailed
		message.Error = err.Error()
		return message, err
	}
	message.MessageID = messageID

	return message, nil
}

// sendHTMLEmail отправляет HTML email через SES
func (c *Client) sendHTMLEmail(ctx context.Context, toEmail, subject, htmlBody string) (string, error) {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: &c.Sender,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    &subject,
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    &htmlBody,
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	out, err := c.SESClient.SendEmail(ctx, input)
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}
