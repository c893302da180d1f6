package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"shoplist/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const overrideYAML = `locales: [en]
categories: [snacks]
products:
  - category: snacks
    names: {en: [popcorn]}
`

func TestLoadTable_UsesOverride(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "bucket", "catalog/products.yaml", mock.Anything).
		Return(io.NopCloser(bytes.NewBufferString(overrideYAML)), nil)

	table, origin, err := LoadTable(context.Background(), client, "bucket", "catalog/products.yaml", zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, OriginStorage, origin)
	require.Len(t, table.Products, 1)
	assert.Equal(t, "snacks", table.Products[0].Category)
	client.AssertExpectations(t)
}

func TestLoadTable_FallsBack(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *mocks.Client)
	}{
		{
			name: "object missing",
			setup: func(c *mocks.Client) {
				c.On("GetObject", mock.Anything, "bucket", "obj", mock.Anything).
					Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})
			},
		},
		{
			name: "storage down",
			setup: func(c *mocks.Client) {
				c.On("GetObject", mock.Anything, "bucket", "obj", mock.Anything).
					Return(nil, errors.New("connection refused"))
			},
		},
		{
			name: "invalid override",
			setup: func(c *mocks.Client) {
				c.On("GetObject", mock.Anything, "bucket", "obj", mock.Anything).
					Return(io.NopCloser(bytes.NewBufferString("locales: []")), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mocks.Client)
			tt.setup(client)

			table, origin, err := LoadTable(context.Background(), client, "bucket", "obj", zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, OriginEmbedded, origin)
			assert.Greater(t, len(table.Products), 100)
		})
	}
}

func TestLoadTable_NoClient(t *testing.T) {
	_, origin, err := LoadTable(context.Background(), nil, "", "", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, OriginEmbedded, origin)
}

func TestPublishTable(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "bucket").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "bucket", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "bucket", "obj", mock.Anything, int64(len(overrideYAML)), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	table, err := PublishTable(context.Background(), client, "bucket", "obj", []byte(overrideYAML))
	require.NoError(t, err)
	assert.Len(t, table.Products, 1)
	client.AssertExpectations(t)
}

func TestPublishTable_RejectsInvalid(t *testing.T) {
	client := new(mocks.Client)

	_, err := PublishTable(context.Background(), client, "bucket", "obj", []byte("products: []"))
	assert.ErrorIs(t, err, ErrInvalidTable)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishTable_UploadError(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "bucket").Return(true, nil)
	client.On("PutObject", mock.Anything, "bucket", "obj", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("denied"))

	_, err := PublishTable(context.Background(), client, "bucket", "obj", []byte(overrideYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload catalog")
}
