package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubS3(t *testing.T, put func(in *s3.PutObjectInput) error) {
	t.Helper()
	origLoad, origNew, origPut := loadDefaultAWSConfig, newS3ClientFromConfig, putObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, putObject = origLoad, origNew, origPut
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var o s3.Options
		for _, fn := range optFns {
			fn(&o)
		}
		require.NotNil(t, o.BaseEndpoint)
		assert.Equal(t, "http://127.0.0.1:9000", *o.BaseEndpoint)
		return &s3.Client{}
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		if err := put(in); err != nil {
			return nil, err
		}
		return &s3.PutObjectOutput{}, nil
	}
}

func testOptions() S3Options {
	return S3Options{
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		BaseEndpoint: "http://127.0.0.1:9000",
		Bucket:       "solcraft",
	}
}

func TestS3Publisher_Publish(t *testing.T) {
	var got *s3.PutObjectInput
	var body []byte
	stubS3(t, func(in *s3.PutObjectInput) error {
		got = in
		var err error
		body, err = io.ReadAll(in.Body)
		return err
	})

	p, err := NewS3Publisher(context.Background(), testOptions())
	require.NoError(t, err)

	md := &Metadata{Mint: pubkey.TokenProgramID, Data: Data{Name: "Gold", Symbol: "G"}}
	require.NoError(t, p.Publish(context.Background(), md))

	require.NotNil(t, got)
	assert.Equal(t, "solcraft", aws.ToString(got.Bucket))
	assert.Equal(t, "metadata/"+pubkey.TokenProgramID.String()+".json", aws.ToString(got.Key))

	var doc Metadata
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, *md, doc)
}

func TestS3Publisher_PublishError(t *testing.T) {
	stubS3(t, func(*s3.PutObjectInput) error { return errors.New("bucket gone") })

	p, err := NewS3Publisher(context.Background(), testOptions())
	require.NoError(t, err)
	require.Error(t, p.Publish(context.Background(), &Metadata{}))
}

func TestNewS3Publisher_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Publisher(context.Background(), testOptions())
	require.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	require.NoError(t, NopPublisher{}.Publish(context.Background(), &Metadata{}))
}
