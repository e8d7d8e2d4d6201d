package main

import (
	"context"
	"testing"

	appconfig "github.com/wolfman30/healthcare-portal/internal/config"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

func TestNeedsAWS(t *testing.T) {
	tests := []struct {
		name string
		cfg  appconfig.Config
		want bool
	}{
		{name: "stub only", cfg: appconfig.Config{EmailProvider: "stub"}, want: false},
		{name: "sendgrid", cfg: appconfig.Config{EmailProvider: "sendgrid"}, want: false},
		{name: "ses", cfg: appconfig.Config{EmailProvider: "ses"}, want: true},
		{name: "queue", cfg: appconfig.Config{NotifyQueueURL: "https://sqs.local/q"}, want: true},
		{name: "bucket", cfg: appconfig.Config{PrescriptionBucket: "rx"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsAWS(&tt.cfg); got != tt.want {
				t.Fatalf("needsAWS = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunRequiresAuthSecret(t *testing.T) {
	err := run(context.Background(), &appconfig.Config{DatabaseURL: "postgres://localhost/x"}, logging.New("error"))
	if err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestRunRequiresDatabaseURL(t *testing.T) {
	err := run(context.Background(), &appconfig.Config{JWTSecret: "secret"}, logging.New("error"))
	if err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}
