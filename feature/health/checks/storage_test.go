package checks

import (
	"context"
	"errors"
	"testing"

	"shoplist/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCheckBucket(t *testing.T) {
	tests := []struct {
		name    string
		exists  bool
		err     error
		wantErr string
	}{
		{name: "Present", exists: true},
		{name: "Absent", exists: false, wantErr: "does not exist"},
		{name: "Unreachable", err: errors.New("dial tcp"), wantErr: "failed to check bucket existence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mocks.Client)
			client.On("BucketExists", mock.Anything, "shoplist").Return(tt.exists, tt.err)

			err := CheckBucket(context.Background(), client, "shoplist")
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestCheckObject(t *testing.T) {
	ctx := context.Background()

	t.Run("Present", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("StatObject", mock.Anything, "shoplist", "catalog/products.yaml", mock.Anything).Return(minio.ObjectInfo{Key: "catalog/products.yaml"}, nil)

		ok, err := CheckObject(ctx, client, "shoplist", "catalog/products.yaml")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("StatObject", mock.Anything, "shoplist", "catalog/products.yaml", mock.Anything).Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

		ok, err := CheckObject(ctx, client, "shoplist", "catalog/products.yaml")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("StatObject", mock.Anything, "shoplist", "catalog/products.yaml", mock.Anything).Return(minio.ObjectInfo{}, errors.New("timeout"))

		_, err := CheckObject(ctx, client, "shoplist", "catalog/products.yaml")
		assert.ErrorContains(t, err, "timeout")
	})
}
