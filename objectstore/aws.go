// Package objectstore provides the AWS SDK store client.
package objectstore

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// defaultRegion is used when neither the options nor the shared
// configuration name one.
const defaultRegion = "us-east-1"

// S3API is the subset of the SDK's S3 client the AWS store client uses.
// This interface allows for mocking in tests.
type S3API interface {
	// PutObject uploads an object to S3
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// awsTransfer writes objects through the AWS SDK.
type awsTransfer struct {
	api S3API
}

var _ transferClient = (*awsTransfer)(nil)

// newAWSTransfer builds an S3 client from the shared configuration. A
// non-empty profile selects that shared-config profile, matching how access
// profiles are configured for client-authenticated storage locations.
// Custom endpoints get path-style addressing, which bucket-in-path stores
// require.
func newAWSTransfer(ctx context.Context, endpoint, profile, region string) (*awsTransfer, error) {
	var loadOpts []func(*config.LoadOptions) error
	if profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	if region != "" {
		cfg.Region = region
	} else if cfg.Region == "" {
		cfg.Region = defaultRegion
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return &awsTransfer{api: client}, nil
}

func (t *awsTransfer) putObject(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	_, err := t.api.PutObject(ctx, input)
	return err
}
