package bootstrap

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/wolfman30/healthcare-portal/internal/config"
	"github.com/wolfman30/healthcare-portal/internal/prescriptions"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

// BuildFileStore returns the S3-backed prescription file store, or nil when
// PRESCRIPTION_BUCKET is unset.
func BuildFileStore(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) *prescriptions.FileStore {
	if cfg.PrescriptionBucket == "" || awsCfg == nil {
		return nil
	}
	client := s3.NewFromConfig(*awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.AWSEndpointOverride != ""
	})
	return prescriptions.NewFileStore(client, s3.NewPresignClient(client), cfg.PrescriptionBucket, cfg.PresignTTL, logger)
}
