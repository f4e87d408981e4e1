// Package catalogsvc - Test chuẩn hóa tài liệu sản phẩm thô về biểu diễn canonical.
package catalogsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	catalogmodels "price_pulse/internal/api/catalog/models"
)

func TestNormalize_EmptyDocument(t *testing.T) {
	// Tài liệu rỗng hoàn toàn vẫn phải ra sản phẩm hợp lệ, không panic, không thiếu trường
	result := Normalize(map[string]interface{}{})

	assert.NotEmpty(t, result.Product.ProductID, "id phải được sinh khi tài liệu không có định danh")
	assert.Equal(t, DefaultProductName, result.Product.Name)
	assert.Equal(t, DefaultProductDescription, result.Product.Description)
	assert.Equal(t, DefaultProductCategory, result.Product.Category)
	assert.NotNil(t, result.Product.Images, "images phải là slice rỗng, không phải nil")
	assert.NotNil(t, result.Product.Specifications, "specifications phải là map rỗng, không phải nil")
	assert.NotNil(t, result.Offers, "offers phải là slice rỗng, không phải nil")
	assert.Empty(t, result.Offers)
}

func TestNormalize_ResolveIDOrder(t *testing.T) {
	oid := primitive.NewObjectID()

	// Trường "id" được ưu tiên trước "_id"
	result := Normalize(map[string]interface{}{"id": "iphone-15-pro", "_id": oid})
	assert.Equal(t, "iphone-15-pro", result.Product.ProductID)

	// Không có "id" thì dùng hex của "_id"
	result = Normalize(map[string]interface{}{"_id": oid})
	assert.Equal(t, oid.Hex(), result.Product.ProductID)

	// "_id" dạng chuỗi cũng chấp nhận
	result = Normalize(map[string]interface{}{"_id": "legacy-string-id"})
	assert.Equal(t, "legacy-string-id", result.Product.ProductID)

	// "id" rỗng bị bỏ qua như khi vắng mặt
	result = Normalize(map[string]interface{}{"id": "", "_id": oid})
	assert.Equal(t, oid.Hex(), result.Product.ProductID)
}

func TestNormalize_LegacyStoresShape(t *testing.T) {
	raw := map[string]interface{}{
		"id":   "sp-001",
		"name": "Tai nghe mẫu",
		"stores": []interface{}{
			map[string]interface{}{
				"name":        "Amazon",
				"type":        "online",
				"website":     "https://www.amazon.in",
				"price":       26990.0,
				"inStock":     true,
				"lastUpdated": 1717243200000.0,
			},
			map[string]interface{}{
				"name":     "Sangeetha Mobiles",
				"type":     "local",
				"location": "Dwaraka Nagar",
				"price":    27500.0,
				"inStock":  true,
			},
			// Mục thiếu tên bị bỏ qua, không làm hỏng các mục khác
			map[string]interface{}{"price": 100.0},
		},
	}

	result := Normalize(raw)
	require.Len(t, result.Offers, 2)

	online := result.Offers[0]
	assert.Equal(t, "Amazon", online.StoreName)
	assert.Equal(t, catalogmodels.StoreTypeOnline, online.StoreType)
	assert.Equal(t, catalogmodels.PriceSourceAmazon, online.Source)
	assert.Equal(t, "https://www.amazon.in", online.Website)
	assert.Equal(t, int64(1717243200000), online.Timestamp)

	local := result.Offers[1]
	assert.Equal(t, catalogmodels.PriceSourceLocal, local.Source)
	assert.Equal(t, "Dwaraka Nagar", local.StoreBranch, "chi nhánh cửa hàng vật lý suy ra từ location")
	assert.Equal(t, "Dwaraka Nagar", local.Address)
	assert.Equal(t, int64(0), local.Timestamp, "mục không có lastUpdated giữ timestamp 0")
}

func TestNormalize_MarketplaceShape(t *testing.T) {
	raw := map[string]interface{}{
		"id": "sp-002",
		"prices": map[string]interface{}{
			"amazon": map[string]interface{}{
				"price":   131900.0,
				"inStock": true,
				"url":     "https://www.amazon.in/dp/x",
			},
			"flipkart": map[string]interface{}{
				"price":   129999.0,
				"inStock": false,
			},
			"localStores": []interface{}{
				map[string]interface{}{
					"name":    "Aptronix",
					"branch":  "Rama Talkies",
					"address": "Rama Talkies Road",
					"price":   128000.0,
					"inStock": true,
				},
			},
		},
	}

	result := Normalize(raw)
	require.Len(t, result.Offers, 3)

	assert.Equal(t, "Amazon", result.Offers[0].StoreName)
	assert.Equal(t, catalogmodels.PriceSourceAmazon, result.Offers[0].Source)
	assert.Equal(t, "Flipkart", result.Offers[1].StoreName)
	assert.False(t, result.Offers[1].InStock)
	assert.Equal(t, "Aptronix", result.Offers[2].StoreName)
	assert.Equal(t, "Rama Talkies", result.Offers[2].StoreBranch)
	assert.Equal(t, catalogmodels.PriceSourceLocal, result.Offers[2].Source)
}

func TestNormalize_ScalarShape(t *testing.T) {
	raw := map[string]interface{}{
		"id":            "sp-003",
		"name":          "Sản phẩm đã chuẩn hóa",
		"currentPrice":  999.0,
		"originalPrice": 1299.0,
		"reviews": map[string]interface{}{
			"rating": 4.5,
			"count":  120.0,
		},
	}

	result := Normalize(raw)
	assert.Equal(t, 999.0, result.Product.CurrentPrice)
	assert.Equal(t, 1299.0, result.Product.OriginalPrice)
	assert.Equal(t, 4.5, result.Product.Reviews.Rating)
	assert.Equal(t, int64(120), result.Product.Reviews.Count)
	assert.Empty(t, result.Offers)
}

func TestNormalize_MalformedEntries(t *testing.T) {
	// Kiểu dữ liệu sai ở mọi chỗ đều được bỏ qua thay vì panic
	raw := map[string]interface{}{
		"id":             "sp-004",
		"stores":         "không phải mảng",
		"images":         []interface{}{"a.jpg", 42, "b.jpg"},
		"specifications": map[string]interface{}{"ram": "8GB", "rác": 99},
	}

	result := Normalize(raw)
	assert.Empty(t, result.Offers)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, result.Product.Images, "phần tử không phải chuỗi bị loại")
	assert.Equal(t, map[string]string{"ram": "8GB"}, result.Product.Specifications)
}

func TestSourceForMarketplace(t *testing.T) {
	assert.Equal(t, catalogmodels.PriceSourceAmazon, sourceForMarketplace("Amazon"))
	assert.Equal(t, catalogmodels.PriceSourceAmazon, sourceForMarketplace("amazon"))
	assert.Equal(t, catalogmodels.PriceSourceFlipkart, sourceForMarketplace("Flipkart"))
	assert.Equal(t, catalogmodels.PriceSourceLocal, sourceForMarketplace("Cửa hàng lạ"))
}
