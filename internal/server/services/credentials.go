// Package services implements the order service's access-material layer:
// scoped credential minting, presigned upload tickets and asset lifecycle
// against the object store.
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"orderstore/internal/common"
	"orderstore/internal/logging"
	sc "orderstore/internal/server/config"
	"orderstore/internal/server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Session constants sent with every AssumeRole call. Fixed values: the
// session is identified by the composed inline policy, not by who asks.
const (
	assumeRoleExternalID  = "WebSiteRetrieveRequest"
	assumeRoleSessionName = "WebSiteAssumeRoleSession"
)

// AssetKeyPrefix is the root all order assets live under.
const AssetKeyPrefix = "orders/"

// AssetKey composes the full storage key for an order's asset. Keeping the
// order id in the path prevents key conflicts between orders. Note the key
// carries no leading slash; a doubled slash after the bucket would presign
// a different object than the policy grants.
func AssetKey(orderID, s3Key string) string {
	return AssetKeyPrefix + orderID + "/" + s3Key
}

// S3 actions requested on mint.
const (
	ActionGetObject = "s3:GetObject"
	ActionPutObject = "s3:PutObject"
)

type policyStatement struct {
	Sid      string   `json:"Sid"`
	Effect   string   `json:"Effect"`
	Action   []string `json:"Action"`
	Resource []string `json:"Resource"`
}

type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

// STSAPI is the subset of the token service client used by the minter.
type STSAPI interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

// Seams for testing AWS client construction.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newSTSClientFromConfig = func(cfg aws.Config, optFns ...func(*sts.Options)) STSAPI {
		return sts.NewFromConfig(cfg, optFns...)
	}
)

// CredentialMinter mints short-lived, action-and-resource-restricted access
// grants. Implemented by CredentialService; the interface exists for fakes.
type CredentialMinter interface {
	Mint(ctx context.Context, resourcePaths []string, actions []string) (*models.Asset, error)
}

// CredentialService builds least-privilege inline policies and requests
// sessions from the security token service. Credentials are minted per
// request and never cached.
type CredentialService struct {
	config *sc.Config
	logger logging.Logger
	sts    STSAPI
}

// NewCredentialService constructs the minter with a token service client
// for the configured region.
func NewCredentialService(ctx context.Context, config *sc.Config, logger logging.Logger) (*CredentialService, error) {
	cfg, err := loadDefaultAWSConfig(ctx, awsconfig.WithRegion(config.Region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return &CredentialService{
		config: config,
		logger: logger,
		sts:    newSTSClientFromConfig(cfg),
	}, nil
}

// composePolicy builds the inline policy: exactly the requested actions on
// exactly the fully-qualified resource paths, plus the fixed KMS grant the
// bucket's default encryption requires. Without the KMS statement every
// object operation fails against an encrypted bucket.
func (s *CredentialService) composePolicy(resourcePaths, actions []string) (string, error) {
	resources := make([]string, 0, len(resourcePaths))
	for _, p := range resourcePaths {
		resources = append(resources, s.config.BucketARN+"/"+p)
	}

	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{
			{
				Sid:      "InlineAssumeRoleS3Policy",
				Effect:   "Allow",
				Action:   actions,
				Resource: resources,
			},
			{
				Sid:      "InlineAssumeRoleKMSPolicy",
				Effect:   "Allow",
				Action:   []string{"kms:Decrypt", "kms:GenerateDataKey"},
				Resource: []string{s.config.BucketEncryptionKeyARN},
			},
		},
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Mint requests a session restricted to the given resource paths and
// actions. The effective permission set is the intersection of the inline
// policy and the base role, so the inline policy can only narrow. Any token
// service failure wraps common.ErrCredentialMint; a partially-scoped
// credential is never returned.
func (s *CredentialService) Mint(ctx context.Context, resourcePaths []string, actions []string) (*models.Asset, error) {
	if len(resourcePaths) == 0 || len(actions) == 0 {
		return nil, fmt.Errorf("%w: mint requires at least one resource and action", common.ErrValidation)
	}

	policy, err := s.composePolicy(resourcePaths, actions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCredentialMint, err)
	}

	// No hard cap is enforced on the serialized size; the page-size
	// constant keeps it below the token service's policy ceiling.
	s.logger.Debug(ctx, "composed inline policy", "bytes", len(policy), "resources", len(resourcePaths))

	out, err := s.sts.AssumeRole(ctx, &sts.AssumeRoleInput{
		ExternalId:      aws.String(assumeRoleExternalID),
		Policy:          aws.String(policy),
		RoleArn:         aws.String(s.config.BaseRoleARN),
		RoleSessionName: aws.String(assumeRoleSessionName),
		DurationSeconds: aws.Int32(int32(s.config.TokenDuration.Seconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCredentialMint, err)
	}
	if out.Credentials == nil || out.Credentials.AccessKeyId == nil ||
		out.Credentials.SecretAccessKey == nil || out.Credentials.SessionToken == nil {
		return nil, fmt.Errorf("%w: token service returned incomplete credentials", common.ErrCredentialMint)
	}

	asset := &models.Asset{
		STS: models.STSSession{
			Credentials: models.Credentials{
				AccessKeyId:     *out.Credentials.AccessKeyId,
				SecretAccessKey: *out.Credentials.SecretAccessKey,
				SessionToken:    *out.Credentials.SessionToken,
			},
		},
		Region: s.config.Region,
		Bucket: s.config.BucketName(),
		Policy: policy,
	}
	if out.Credentials.Expiration != nil {
		asset.STS.Credentials.Expiration = *out.Credentials.Expiration
	}
	return asset, nil
}
