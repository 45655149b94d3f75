package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCpconfigError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *CpconfigError
		want string
	}{
		{
			name: "without wrapped error",
			err:  New(ErrInvalidInput, "bad path"),
			want: "[INVALID_INPUT] bad path",
		},
		{
			name: "with wrapped error",
			err:  Wrap(errors.New("permission denied"), ErrFileAccess, "cannot read file"),
			want: "[FILE_ACCESS] cannot read file: permission denied",
		},
		{
			name: "formatted message",
			err:  Newf(ErrDuplicatePath, "path %q declared twice", "a.json"),
			want: `[DUPLICATE_PATH] path "a.json" declared twice`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrFileAccess, "should be nil"))
	assert.Nil(t, Wrapf(nil, ErrFileAccess, "should be %s", "nil"))
}

func TestErrorCode_Matching(t *testing.T) {
	base := New(ErrSentinelMissing, "sentinel not in contents")
	wrapped := fmt.Errorf("sync failed: %w", base)

	assert.True(t, IsErrorCode(wrapped, ErrSentinelMissing))
	assert.False(t, IsErrorCode(wrapped, ErrFileAccess))
	assert.Equal(t, ErrSentinelMissing, GetErrorCode(wrapped))
	assert.Equal(t, ErrUnknown, GetErrorCode(errors.New("plain")))
}

func TestErrorIs_ComparesCodes(t *testing.T) {
	err := Wrap(errors.New("io"), ErrFileWrite, "write failed")
	assert.ErrorIs(t, err, New(ErrFileWrite, "other message"))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrPathEscape, "escapes root").WithDetail("path", "../../etc/passwd")
	assert.Equal(t, "../../etc/passwd", err.Details["path"])
}
