// Package utility - Test các hàm chuyển đổi định dạng.
package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestString2ObjectID(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid, String2ObjectID(oid.Hex()))
	assert.Equal(t, primitive.NilObjectID, String2ObjectID("không hợp lệ"))
	assert.Equal(t, primitive.NilObjectID, String2ObjectID(""))
}

func TestEscapeRegex(t *testing.T) {
	// Chuỗi người dùng nhập chứa metacharacter không được làm hỏng regex tìm kiếm
	assert.Equal(t, `iphone \(256gb\)`, EscapeRegex("iphone (256gb)"))
	assert.Equal(t, `c\+\+`, EscapeRegex("c++"))
	assert.Equal(t, "iphone", EscapeRegex("iphone"))
}

func TestP2Float64(t *testing.T) {
	assert.Equal(t, 128000.5, P2Float64("128000.5"))
	assert.Equal(t, 0.0, P2Float64("abc"))
	assert.Equal(t, 0.0, P2Float64(""))
}

func TestP2Int64(t *testing.T) {
	assert.Equal(t, int64(42), P2Int64("42"))
	assert.Equal(t, int64(0), P2Int64("4.5"))
	assert.Equal(t, int64(0), P2Int64(""))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
	assert.False(t, Contains([]int{}, 1))
}
