package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3BackendOpts configures the S3 backend. Empty fields fall back to the
// standard AWS environment/config chain.
type S3BackendOpts struct {
	Region         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// S3Backend stores archives as S3 objects addressed by s3://bucket/key URIs.
type S3Backend struct {
	svc *s3.Client
}

func NewS3Backend(opts S3BackendOpts) (*S3Backend, error) {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if opts.AccessKey != "" && opts.SecretKey != "" {
		accessKey = opts.AccessKey
		secretKey = opts.SecretKey
	}

	region := opts.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}

	cfg, err := getAWSConfig(accessKey, secretKey, region, opts.Endpoint)
	if err != nil {
		return nil, err
	}

	svc := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	return &S3Backend{svc: svc}, nil
}

func getAWSConfig(accessKey, secretKey, region, endpoint string) (aws.Config, error) {
	var loadOpts []func(*config.LoadOptions) error

	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	if accessKey != "" && secretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}
	if endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: endpoint}, nil
		})
		loadOpts = append(loadOpts, config.WithEndpointResolverWithOptions(resolver))
	}

	return config.LoadDefaultConfig(context.TODO(), loadOpts...)
}

// ParseS3URI splits "s3://bucket/key" into its parts.
func ParseS3URI(uri string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	if trimmed == uri {
		return "", "", fmt.Errorf("not an s3 uri: %s", uri)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid s3 uri: %s", uri)
	}
	return parts[0], parts[1], nil
}

func (b *S3Backend) ReadAll(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := ParseS3URI(location)
	if err != nil {
		return nil, err
	}

	resp, err := b.svc.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to fetch archive from s3://%s/%s: %w", bucket, key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read archive body: %w", err)
	}

	log.Debug().Msgf("fetched %d bytes from s3://%s/%s", len(data), bucket, key)
	return data, nil
}

func (b *S3Backend) WriteAll(ctx context.Context, location string, data []byte) error {
	bucket, key, err := ParseS3URI(location)
	if err != nil {
		return err
	}

	uploader := manager.NewUploader(b.svc)
	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("unable to upload archive to s3://%s/%s: %w", bucket, key, err)
	}

	log.Debug().Msgf("uploaded %d bytes to s3://%s/%s", len(data), bucket, key)
	return nil
}
