package media

import (
	"context"
	"strings"
	"testing"
	"time"

	"lms_backend/platform/apperr"
	"lms_backend/platform/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContentType(t *testing.T) {
	assert.NoError(t, ValidateContentType("video/mp4"))
	assert.NoError(t, ValidateContentType("Image/PNG; charset=binary"))

	err := ValidateContentType("application/x-msdownload")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, GetAllowedContentTypes(), appErr.Details)
}

func TestValidateFileSize(t *testing.T) {
	assert.NoError(t, validateFileSize(10, 10))
	assert.Error(t, validateFileSize(0, 10))
	assert.Error(t, validateFileSize(11, 10))
}

func TestObjectKeyKeepsExtensionAndFolder(t *testing.T) {
	key := ObjectKey("/educators/user_1/", "../lecture 01.mp4")

	assert.True(t, strings.HasPrefix(key, "educators/user_1/lecture 01_"), key)
	assert.True(t, strings.HasSuffix(key, ".mp4"), key)
	assert.NotEqual(t, key, ObjectKey("/educators/user_1/", "../lecture 01.mp4"))
}

func TestObjectKeyCarriesFullUUID(t *testing.T) {
	key := ObjectKey("educators/user_1", "intro.mp4")

	name := strings.TrimSuffix(strings.TrimPrefix(key, "educators/user_1/intro_"), ".mp4")
	_, err := uuid.Parse(name)
	assert.NoError(t, err, key)
}

func TestObjectKeyFallsBackForEmptyName(t *testing.T) {
	key := ObjectKey("thumbs", "")
	assert.True(t, strings.HasPrefix(key, "thumbs/file_"), key)
}

func TestGetAllowedContentTypesIsSorted(t *testing.T) {
	types := GetAllowedContentTypes()
	require.NotEmpty(t, types)
	for i := 1; i < len(types); i++ {
		assert.Less(t, types[i-1], types[i])
	}
}

func TestConnectFailsForUnreachableHost(t *testing.T) {
	cfg := &config.Config{
		MediaEndpoint:  "127.0.0.1:1",
		MediaAccessKey: "minio",
		MediaSecretKey: "minio123",
		MediaBucket:    "lms-media",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	svc, err := Connect(ctx, cfg)
	require.Error(t, err)
	assert.Nil(t, svc)
}
