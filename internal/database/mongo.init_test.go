// Package database - Test phân tích tag index trên model.
package database

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmodels "price_pulse/internal/api/catalog/models"
)

func TestParseOrder(t *testing.T) {
	assert.Equal(t, 1, parseOrder("single:1"))
	assert.Equal(t, 1, parseOrder("unique"))
	assert.Equal(t, -1, parseOrder("single:1,order:-1"))
	assert.Equal(t, -1, parseOrder("compound:productId_timestamp,order:-1"))
}

func TestParseIndexTag_SingleEntry(t *testing.T) {
	entries := parseIndexTag("text")
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "text")
}

func TestParseIndexTag_UniqueSparseSameEntry(t *testing.T) {
	// unique và sparse phải nằm chung một cấu hình mới tạo được sparse index;
	// dấu ';' tách thành các cấu hình độc lập
	entries := parseIndexTag("unique,sparse")
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "unique")
	assert.Contains(t, entries[0], "sparse", "sparse phải đi cùng entry với unique")

	split := parseIndexTag("unique;sparse")
	require.Len(t, split, 2)
	assert.NotContains(t, split[0], "sparse")
}

func TestProductIDIndexTag_SparseAppliesToUnique(t *testing.T) {
	// Collection products trước migration có document thiếu field id;
	// index unique trên id bắt buộc phải sparse để tạo được index khi khởi động
	field, ok := reflect.TypeOf(catalogmodels.Product{}).FieldByName("ProductID")
	require.True(t, ok)

	entries := parseIndexTag(field.Tag.Get("index"))
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "unique")
	assert.Contains(t, entries[0], "sparse")
}

func TestParseIndexTag_KeyValueAndGroups(t *testing.T) {
	entries := parseIndexTag("compound:productId_timestamp,order:-1;single:1,order:-1")
	require.Len(t, entries, 2)

	assert.Equal(t, "productId_timestamp", entries[0]["compound"])
	assert.Equal(t, "-1", entries[0]["order"])
	assert.Equal(t, "1", entries[1]["single"])
	assert.Equal(t, "-1", entries[1]["order"])
}

func TestParseIndexTag_TTL(t *testing.T) {
	entries := parseIndexTag("ttl:3600")
	require.Len(t, entries, 1)
	assert.Equal(t, "3600", entries[0]["ttl"])
}

func TestBsonFieldName(t *testing.T) {
	type sample struct {
		Plain   string `bson:"plain"`
		Options string `bson:"withOptions,omitempty"`
		Skipped string `bson:"-"`
		NoTag   string
	}
	st := reflect.TypeOf(sample{})

	field := func(name string) reflect.StructField {
		f, ok := st.FieldByName(name)
		require.True(t, ok)
		return f
	}

	assert.Equal(t, "plain", bsonFieldName(field("Plain")))
	assert.Equal(t, "withOptions", bsonFieldName(field("Options")), "option bson phải bị cắt bỏ")
	assert.Equal(t, "", bsonFieldName(field("Skipped")))
	assert.Equal(t, "", bsonFieldName(field("NoTag")))
}
