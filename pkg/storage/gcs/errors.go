package gcs

import (
	"strings"

	"github.com/oneconcern/refmat/pkg/storage/status"
	"google.golang.org/api/googleapi"
)

// toSentinelErrors maps errors from the google API client to the sentinel
// errors defined by the status package
func toSentinelErrors(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "object doesn't exist") {
		return status.ErrNotExists.Wrap(err)
	}
	apiErr, ok := err.(*googleapi.Error)
	if !ok {
		return err
	}
	switch apiErr.Code {
	case 400:
		if strings.Contains(apiErr.Body, "bucket is not valid") {
			return status.ErrInvalidResource.Wrap(err)
		}
		return status.ErrStorageAPI.Wrap(err)
	case 401:
		return status.ErrUnauthorized.Wrap(err)
	case 403:
		return status.ErrForbidden.Wrap(err)
	case 404:
		return status.ErrNotFound.Wrap(err)
	default:
		return status.ErrStorageAPI.Wrap(err)
	}
}
