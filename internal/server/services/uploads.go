package services

import (
	"context"
	"fmt"
	"time"

	"orderstore/internal/common"
	sc "orderstore/internal/server/config"
	"orderstore/internal/server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Upload ticket constraints. The ticket expires before the underlying
// credential does, and the signed policy caps the payload at 10 MiB, a
// constraint the credential's policy language cannot express.
const (
	uploadExpiry       = 10 * time.Minute
	uploadMaxSizeBytes = 10485760
)

// Seams for testing AWS client construction.
var (
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPostObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error) {
		return pc.PresignPostObject(ctx, in, optFns...)
	}
)

// UploadService derives single-object upload tickets from minted
// credentials. Tickets let the upload go directly client → store while the
// server still pins the object key and payload size.
type UploadService struct {
	minter CredentialMinter
	config *sc.Config
}

// NewUploadService constructs the issuer on top of a credential minter.
func NewUploadService(minter CredentialMinter, config *sc.Config) *UploadService {
	return &UploadService{minter: minter, config: config}
}

// IssueUpload mints a credential scoped to read+write on exactly objectPath
// and presigns a POST against it. The form fields pin the object key, so a
// client cannot redirect the upload to a different key than intended.
func (s *UploadService) IssueUpload(ctx context.Context, objectPath string) (*models.PresignedUpload, error) {
	asset, err := s.minter.Mint(ctx, []string{objectPath}, []string{ActionGetObject, ActionPutObject})
	if err != nil {
		return nil, err
	}

	// The presign must run under the minted session so the ticket can
	// never outlive or outreach the credential it was derived from.
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(asset.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			asset.STS.Credentials.AccessKeyId,
			asset.STS.Credentials.SecretAccessKey,
			asset.STS.Credentials.SessionToken,
		)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCredentialMint, err)
	}

	presignClient := newS3PresignClient(newS3ClientFromConfig(cfg))

	req, err := presignPostObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: aws.String(asset.Bucket),
		Key:    aws.String(objectPath),
	}, func(o *s3.PresignPostOptions) {
		o.Expires = uploadExpiry
		o.Conditions = []interface{}{
			[]interface{}{"content-length-range", 0, uploadMaxSizeBytes},
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCredentialMint, err)
	}

	return &models.PresignedUpload{URL: req.URL, Fields: req.Values}, nil
}
