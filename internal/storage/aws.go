package storage

import (
	"context"
	"fmt"

	"remember2pack-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Clients holds the AWS clients built from one shared configuration.
type Clients struct {
	S3          *s3.Client
	Rekognition *rekognition.Client
}

// NewClients loads the AWS config for cfg. Static keys are used when both are
// set, otherwise the default credential chain applies. A custom endpoint
// switches S3 to path-style addressing for local emulators.
func NewClients(ctx context.Context, cfg config.AWSConfig) (*Clients, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Clients{
		S3:          s3Client,
		Rekognition: rekognition.NewFromConfig(awsCfg),
	}, nil
}
