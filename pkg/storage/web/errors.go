package web

import (
	"fmt"
	"net/http"

	"github.com/oneconcern/refmat/pkg/storage/status"
)

func toSentinelErrors(code int, url string) error {
	// return sentinel errors defined by the status package
	cause := fmt.Errorf("%s: %s", url, http.StatusText(code))
	switch code {
	case http.StatusUnauthorized:
		return status.ErrUnauthorized.Wrap(cause)
	case http.StatusForbidden:
		return status.ErrForbidden.Wrap(cause)
	case http.StatusNotFound, http.StatusGone:
		return status.ErrNotExists.Wrap(cause)
	default:
		return status.ErrStorageAPI.Wrap(cause)
	}
}
