package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// Publisher mirrors committed metadata outside the ledger.
type Publisher interface {
	Publish(ctx context.Context, md *Metadata) error
}

// NopPublisher discards everything.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Metadata) error { return nil }

// S3Options configures an S3Publisher.
type S3Options struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
}

// S3Publisher writes each metadata record as a JSON document keyed by mint
// to an S3-compatible bucket.
type S3Publisher struct {
	opts   S3Options
	client *s3.Client
}

func NewS3Publisher(ctx context.Context, opts S3Options) (*S3Publisher, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		}
		o.UsePathStyle = true
	})
	return &S3Publisher{opts: opts, client: client}, nil
}

// ObjectKey is the bucket key a mint's document is stored under.
func ObjectKey(md *Metadata) string {
	return fmt.Sprintf("metadata/%s.json", md.Mint)
}

func (p *S3Publisher) Publish(ctx context.Context, md *Metadata) error {
	body, err := json.Marshal(md)
	if err != nil {
		return err
	}
	_, err = putObject(p.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.opts.Bucket),
		Key:         aws.String(ObjectKey(md)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", ObjectKey(md), err)
	}
	return nil
}
