package bootstrap

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	appconfig "github.com/wolfman30/healthcare-portal/internal/config"
	"github.com/wolfman30/healthcare-portal/internal/notify"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

// BuildEmailSender selects the email provider named by EMAIL_PROVIDER. A
// provider that cannot be configured falls back to the stub sender so
// bookings never depend on email setup.
func BuildEmailSender(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger); s != nil {
			return s
		}
		logger.Warn("sendgrid selected but SENDGRID_API_KEY is empty; using stub sender")
	case "ses":
		if awsCfg != nil {
			if s := notify.NewSESSender(sesv2.NewFromConfig(*awsCfg), notify.SESConfig{
				FromEmail: cfg.EmailFromAddress,
				FromName:  cfg.EmailFromName,
			}, logger); s != nil {
				return s
			}
		}
		logger.Warn("ses selected but AWS is not configured; using stub sender")
	case "", "stub":
	default:
		logger.Warn("unknown EMAIL_PROVIDER; using stub sender", "provider", cfg.EmailProvider)
	}
	return notify.NewStubEmailSender(logger)
}

// BuildDispatcher publishes confirmations to SQS when NOTIFY_QUEUE_URL is set
// and otherwise sends them in-process. The returned wait func drains
// in-flight in-process sends on shutdown.
func BuildDispatcher(cfg *appconfig.Config, awsCfg *aws.Config, sender notify.EmailSender, observer notify.Observer, logger *logging.Logger) (notify.Dispatcher, func(), error) {
	if cfg.NotifyQueueURL != "" {
		if awsCfg == nil {
			return nil, nil, fmt.Errorf("bootstrap: NOTIFY_QUEUE_URL requires AWS configuration")
		}
		queue := notify.NewSQSQueue(sqs.NewFromConfig(*awsCfg), cfg.NotifyQueueURL)
		return notify.NewQueueDispatcher(queue, cfg.NotifyTimeout, logger), func() {}, nil
	}
	async := notify.NewAsyncDispatcher(sender, cfg.NotifyTimeout, observer, logger)
	return async, async.Wait, nil
}
