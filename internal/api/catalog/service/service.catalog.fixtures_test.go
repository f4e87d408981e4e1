// Package catalogsvc - Test dữ liệu fixture và bản tổng hợp giá tính trên fixture.
package catalogsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtureCatalog_WellFormed(t *testing.T) {
	catalog := FixtureCatalog()
	require.NotEmpty(t, catalog)

	seen := map[string]bool{}
	for _, item := range catalog {
		assert.NotEmpty(t, item.Product.ProductID)
		assert.NotEmpty(t, item.Product.Name)
		assert.False(t, seen[item.Product.ProductID], "id fixture bị trùng: %s", item.Product.ProductID)
		seen[item.Product.ProductID] = true

		require.NotEmpty(t, item.Offers, "mỗi sản phẩm fixture phải có ít nhất một mục giá")
		for _, offer := range item.Offers {
			assert.NotEmpty(t, offer.StoreName)
			assert.Greater(t, offer.Price, 0.0)
			assert.Greater(t, offer.Timestamp, int64(0))
		}
	}
}

func TestFixtureProductsWithViews_LowestPriceWins(t *testing.T) {
	item := FixtureProductWithView("iphone-15-pro-256")
	require.NotNil(t, item)

	// Cửa hàng địa phương 128000 rẻ hơn Amazon 131900 nên phải thắng
	require.NotNil(t, item.View.BestStore)
	assert.Equal(t, "Aptronix", item.View.BestStore.StoreName)
	assert.Equal(t, "Rama Talkies", item.View.BestStore.StoreBranch)
	assert.Equal(t, 128000.0, item.View.BestStore.Price)

	require.NotNil(t, item.View.CurrentPrice)
	assert.Equal(t, 128000.0, *item.View.CurrentPrice)
	assert.Equal(t, 128000.0, item.Product.CurrentPrice)

	assert.Len(t, item.View.PerStoreLatest, 2)
}

func TestFixtureProductsWithViews_QueryFilter(t *testing.T) {
	all := FixtureProductsWithViews("")
	require.NotEmpty(t, all)

	// Lọc không phân biệt hoa thường trên name/brand/category/description
	matched := FixtureProductsWithViews("sony")
	require.Len(t, matched, 1)
	assert.Equal(t, "sony-wh-1000xm5", matched[0].Product.ProductID)

	assert.Empty(t, FixtureProductsWithViews("không tồn tại chắc chắn"))
}

func TestFixtureProductWithView_UnknownID(t *testing.T) {
	assert.Nil(t, FixtureProductWithView("id-khong-ton-tai"))
}

func TestFixtureHistory(t *testing.T) {
	// "all" lấy toàn bộ điểm giá của sản phẩm
	points := FixtureHistory("iphone-15-pro-256", PeriodAll)
	require.NotEmpty(t, points)
	for _, point := range points {
		assert.NotEmpty(t, point.StoreName)
		assert.Greater(t, point.Price, 0.0)
	}

	assert.Empty(t, FixtureHistory("id-khong-ton-tai", PeriodAll))
}
