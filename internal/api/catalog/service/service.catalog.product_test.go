// Package catalogsvc - Test các nhánh phân giải định danh không chạm storage.
package catalogsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price_pulse/internal/common"
)

func TestFindByAnyID_EmptyIDRejectedUpFront(t *testing.T) {
	// Service không có collection: định danh rỗng phải bị chặn trước khi chạm storage
	s := &ProductService{}

	_, err := s.FindByAnyID(context.Background(), "")
	require.Error(t, err)

	var customErr *common.Error
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, common.StatusBadRequest, customErr.StatusCode)
}

func TestByNativeID_SkipsInvalidObjectID(t *testing.T) {
	// Chuỗi không phải ObjectID hex: chiến lược _id bỏ qua mà không truy vấn
	s := &ProductService{}

	_, found, err := s.byNativeID(context.Background(), "iphone-15-pro-256")
	assert.NoError(t, err)
	assert.False(t, found, "khóa ứng dụng không được thử như _id gốc")
}
