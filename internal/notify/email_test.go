package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "  ",
		FromEmail: "test@example.com",
	}, nil)

	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "test@example.com",
	}, nil)

	require.NotNil(t, sender)
	assert.Equal(t, "HealthCare", sender.fromName)
	assert.Equal(t, "sendgrid", sender.Provider())
}

func TestNewSendGridSender_CustomFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "test@example.com",
		FromName:  "City Clinic",
	}, nil)

	require.NotNil(t, sender)
	assert.Equal(t, "City Clinic", sender.fromName)
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{client: nil}

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recipient@example.com",
		Subject: "Test",
		Body:    "Test body",
	})

	if err == nil {
		t.Error("expected error when client is nil")
	}
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recipient@example.com",
		Subject: "Test Subject",
		Body:    "Test body",
	})

	assert.NoError(t, err)
	assert.Equal(t, "stub", sender.Provider())
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNewSESSender_NilClient(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{FromEmail: "care@example.com"}, nil))
}

func TestSESSender_Send(t *testing.T) {
	client := &fakeSES{}
	sender := NewSESSender(client, SESConfig{FromEmail: "care@example.com"}, nil)
	require.NotNil(t, sender)

	err := sender.Send(context.Background(), EmailMessage{
		To:       "patient@example.com",
		Subject:  "Appointment Confirmation",
		Body:     "Dear Patient",
		Category: "appointment-confirmation",
	})
	require.NoError(t, err)

	in := client.input
	require.NotNil(t, in)
	assert.Equal(t, "HealthCare <care@example.com>", aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"patient@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "Appointment Confirmation", aws.ToString(in.Content.Simple.Subject.Data))
	assert.Equal(t, "Dear Patient", aws.ToString(in.Content.Simple.Body.Text.Data))
	assert.Nil(t, in.Content.Simple.Body.Html)
	require.Len(t, in.EmailTags, 1)
	assert.Equal(t, "appointment-confirmation", aws.ToString(in.EmailTags[0].Value))
	assert.Equal(t, "ses", sender.Provider())
}

func TestSESSender_SendError(t *testing.T) {
	client := &fakeSES{err: errors.New("throttled")}
	sender := NewSESSender(client, SESConfig{FromEmail: "care@example.com"}, nil)

	err := sender.Send(context.Background(), EmailMessage{To: "patient@example.com", Subject: "s", Body: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestPlainToHTML_EscapesMarkup(t *testing.T) {
	html := plainToHTML("a < b & c")
	assert.Contains(t, html, "a &lt; b &amp; c")
	assert.Contains(t, html, "white-space: pre-line")
}
