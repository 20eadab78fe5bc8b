package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orderstore/internal/common"
	"orderstore/internal/server/models"
)

type fakeMinter struct {
	paths   []string
	actions []string
	asset   *models.Asset
	err     error
}

func (f *fakeMinter) Mint(ctx context.Context, resourcePaths []string, actions []string) (*models.Asset, error) {
	f.paths = resourcePaths
	f.actions = actions
	return f.asset, f.err
}

func stubAWSSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origClient := newS3ClientFromConfig
	origPresign := newS3PresignClient
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origClient
		newS3PresignClient = origPresign
	})
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return nil
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return nil
	}
}

func mintedAsset() *models.Asset {
	return &models.Asset{
		STS: models.STSSession{Credentials: models.Credentials{
			AccessKeyId:     "AKID",
			SecretAccessKey: "SECRET",
			SessionToken:    "TOKEN",
		}},
		Region: "us-east-1",
		Bucket: "order-assets",
	}
}

func TestIssueUpload_PinsKeyAndCapsSize(t *testing.T) {
	stubAWSSeams(t)

	var gotInput *s3.PutObjectInput
	var gotOpts s3.PresignPostOptions

	origPost := presignPostObject
	t.Cleanup(func() { presignPostObject = origPost })
	presignPostObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error) {
		gotInput = in
		for _, fn := range optFns {
			fn(&gotOpts)
		}
		return &s3.PresignedPostRequest{
			URL:    "https://order-assets.s3.amazonaws.com",
			Values: map[string]string{"key": *in.Key},
		}, nil
	}

	minter := &fakeMinter{asset: mintedAsset()}
	s := NewUploadService(minter, testConfig())

	upload, err := s.IssueUpload(context.Background(), "orders/o1/image.png")
	require.NoError(t, err)

	// credential scoped to exactly the object, read+write
	assert.Equal(t, []string{"orders/o1/image.png"}, minter.paths)
	assert.Equal(t, []string{ActionGetObject, ActionPutObject}, minter.actions)

	// key pinned in both the presign input and the returned form fields
	require.NotNil(t, gotInput)
	assert.Equal(t, "order-assets", *gotInput.Bucket)
	assert.Equal(t, "orders/o1/image.png", *gotInput.Key)
	assert.Equal(t, "orders/o1/image.png", upload.Fields["key"])
	assert.NotEmpty(t, upload.URL)

	// ticket constraints
	assert.Equal(t, 10*time.Minute, gotOpts.Expires)
	require.Len(t, gotOpts.Conditions, 1)
	assert.Equal(t, []interface{}{"content-length-range", 0, 10485760}, gotOpts.Conditions[0])
}

func TestIssueUpload_MintErrorPropagates(t *testing.T) {
	stubAWSSeams(t)

	minter := &fakeMinter{err: common.ErrCredentialMint}
	s := NewUploadService(minter, testConfig())

	_, err := s.IssueUpload(context.Background(), "orders/o1/image.png")
	require.ErrorIs(t, err, common.ErrCredentialMint)
}

func TestIssueUpload_PresignErrorWrapsMintError(t *testing.T) {
	stubAWSSeams(t)

	origPost := presignPostObject
	t.Cleanup(func() { presignPostObject = origPost })
	presignPostObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error) {
		return nil, errors.New("presign failed")
	}

	s := NewUploadService(&fakeMinter{asset: mintedAsset()}, testConfig())

	_, err := s.IssueUpload(context.Background(), "orders/o1/image.png")
	require.ErrorIs(t, err, common.ErrCredentialMint)
}
