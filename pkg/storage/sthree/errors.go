package sthree

import (
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/oneconcern/refmat/pkg/errors"
	"github.com/oneconcern/refmat/pkg/storage/status"
)

// filterErrNotExists discards errors about absent keys or buckets
func filterErrNotExists(err error) error {
	if errors.Is(err, status.ErrNotExists) || errors.Is(err, status.ErrNotFound) {
		return nil
	}
	return err
}

// toSentinelErrors maps S3 API errors to the sentinel errors defined by the
// status package.
// See https://docs.aws.amazon.com/AmazonS3/latest/API/ErrorResponses.html#ErrorCodeList
func toSentinelErrors(err error) error {
	if err == nil {
		return nil
	}
	reqErr, ok := err.(awserr.RequestFailure)
	if !ok {
		return err
	}
	switch reqErr.StatusCode() {
	case 400:
		if reqErr.Code() == "InvalidBucketName" {
			return status.ErrInvalidResource.Wrap(err)
		}
		return status.ErrStorageAPI.Wrap(err)
	case 401:
		return status.ErrUnauthorized.Wrap(err)
	case 403:
		return status.ErrForbidden.Wrap(err)
	case 404:
		switch reqErr.Code() {
		case "NoSuchKey", "NoSuchBucket", "NotFound": // NotFound is a code produced by minio and not an official AWS code
			return status.ErrNotExists.Wrap(err)
		default:
			return status.ErrNotFound.Wrap(err)
		}
	default:
		return status.ErrStorageAPI.Wrap(err)
	}
}
