package sthree

import (
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/oneconcern/refmat/pkg/errors"
	"github.com/oneconcern/refmat/pkg/storage/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func s3Failure(code string, statusCode int) awserr.RequestFailure {
	return awserr.NewRequestFailure(awserr.New(code, "test failure", nil), statusCode, "req-1")
}

func TestSentinelErrors(t *testing.T) {
	for _, toPin := range []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "nil stays nil",
			err:      nil,
			expected: nil,
		},
		{
			name:     "missing key",
			err:      s3Failure("NoSuchKey", 404),
			expected: status.ErrNotExists,
		},
		{
			name:     "missing bucket",
			err:      s3Failure("NoSuchBucket", 404),
			expected: status.ErrNotExists,
		},
		{
			name:     "head on missing object",
			err:      s3Failure("NotFound", 404),
			expected: status.ErrNotExists,
		},
		{
			name:     "generic 404",
			err:      s3Failure("SomethingElse", 404),
			expected: status.ErrNotFound,
		},
		{
			name:     "unauthorized",
			err:      s3Failure("InvalidAccessKeyId", 401),
			expected: status.ErrUnauthorized,
		},
		{
			name:     "forbidden",
			err:      s3Failure("AccessDenied", 403),
			expected: status.ErrForbidden,
		},
		{
			name:     "invalid bucket name",
			err:      s3Failure("InvalidBucketName", 400),
			expected: status.ErrInvalidResource,
		},
		{
			name:     "server error",
			err:      s3Failure("InternalError", 500),
			expected: status.ErrStorageAPI,
		},
	} {
		testcase := toPin
		t.Run(testcase.name, func(t *testing.T) {
			mapped := toSentinelErrors(testcase.err)
			if testcase.expected == nil {
				require.NoError(t, mapped)
				return
			}
			require.Error(t, mapped)
			assert.True(t, errors.Is(mapped, testcase.expected))
		})
	}
}

func TestFilterErrNotExists(t *testing.T) {
	assert.NoError(t, filterErrNotExists(toSentinelErrors(s3Failure("NoSuchKey", 404))))
	assert.NoError(t, filterErrNotExists(toSentinelErrors(s3Failure("Whatever", 404))))

	err := fmt.Errorf("some other failure")
	assert.Equal(t, err, filterErrNotExists(err))
}
