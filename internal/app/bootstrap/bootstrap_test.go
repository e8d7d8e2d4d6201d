package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/wolfman30/healthcare-portal/internal/config"
	"github.com/wolfman30/healthcare-portal/internal/notify"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

func TestBuildRedisClient(t *testing.T) {
	logger := logging.New("error")
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{}, logger, true))

	mr := miniredis.RunT(t)
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logger, true)
	require.NotNil(t, client)
	_ = client.Close()

	mr.Close()
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logger, true))
}

func TestBuildPostgresRequiresURL(t *testing.T) {
	_, err := BuildPostgresPool(context.Background(), "")
	assert.Error(t, err)
	_, err = BuildSQLDB(context.Background(), " ")
	assert.Error(t, err)
}

func TestBuildEmailSender(t *testing.T) {
	logger := logging.New("error")
	awsCfg := aws.Config{Region: "ap-south-1"}

	tests := []struct {
		name     string
		cfg      appconfig.Config
		awsCfg   *aws.Config
		provider string
	}{
		{name: "stub default", cfg: appconfig.Config{}, provider: "stub"},
		{name: "sendgrid", cfg: appconfig.Config{EmailProvider: "sendgrid", SendGridAPIKey: "key", EmailFromAddress: "care@example.com"}, provider: "sendgrid"},
		{name: "sendgrid without key", cfg: appconfig.Config{EmailProvider: "sendgrid"}, provider: "stub"},
		{name: "ses", cfg: appconfig.Config{EmailProvider: "ses", EmailFromAddress: "care@example.com"}, awsCfg: &awsCfg, provider: "ses"},
		{name: "ses without aws", cfg: appconfig.Config{EmailProvider: "ses"}, provider: "stub"},
		{name: "unknown", cfg: appconfig.Config{EmailProvider: "pigeon"}, provider: "stub"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := BuildEmailSender(&tt.cfg, tt.awsCfg, logger)
			require.NotNil(t, sender)
			assert.Equal(t, tt.provider, sender.Provider())
		})
	}
}

func TestBuildDispatcher(t *testing.T) {
	logger := logging.New("error")
	sender := notify.NewStubEmailSender(logger)

	d, wait, err := BuildDispatcher(&appconfig.Config{}, nil, sender, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &notify.AsyncDispatcher{}, d)
	wait()

	_, _, err = BuildDispatcher(&appconfig.Config{NotifyQueueURL: "https://sqs.local/q"}, nil, sender, nil, logger)
	assert.Error(t, err)

	awsCfg := aws.Config{Region: "ap-south-1"}
	d, _, err = BuildDispatcher(&appconfig.Config{NotifyQueueURL: "https://sqs.local/q"}, &awsCfg, sender, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &notify.QueueDispatcher{}, d)
}

func TestBuildFileStore(t *testing.T) {
	logger := logging.New("error")
	assert.Nil(t, BuildFileStore(&appconfig.Config{}, nil, logger))

	awsCfg := aws.Config{Region: "ap-south-1"}
	store := BuildFileStore(&appconfig.Config{PrescriptionBucket: "rx"}, &awsCfg, logger)
	require.NotNil(t, store)
	assert.True(t, store.Enabled())
}
