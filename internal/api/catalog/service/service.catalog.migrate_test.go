// Package catalogsvc - Test bước extract của migration: tập cửa hàng duy nhất, thứ tự xác định.
package catalogsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	catalogmodels "price_pulse/internal/api/catalog/models"
)

func migrationInput() []NormalizedProduct {
	return []NormalizedProduct{
		{
			Product: catalogmodels.Product{ProductID: "sp-a"},
			Offers: []NormalizedOffer{
				{StoreName: "Amazon", StoreType: catalogmodels.StoreTypeOnline, Website: "https://www.amazon.in"},
				{StoreName: "Aptronix", StoreBranch: "Rama Talkies", StoreType: catalogmodels.StoreTypeLocal, Address: "Rama Talkies Road"},
			},
		},
		{
			Product: catalogmodels.Product{ProductID: "sp-b"},
			Offers: []NormalizedOffer{
				// Trùng (name, branch) với sp-a, chỉ được tính một lần
				{StoreName: "Amazon", StoreType: catalogmodels.StoreTypeOnline},
				{StoreName: "Aptronix", StoreBranch: "CMR Central", StoreType: catalogmodels.StoreTypeLocal},
			},
		},
	}
}

func TestExtractStores_DedupeByNameAndBranch(t *testing.T) {
	stores := extractStores(migrationInput())
	require.Len(t, stores, 3, "Amazon xuất hiện ở hai sản phẩm nhưng chỉ được một cửa hàng")

	// Kết quả sắp theo (name, branch)
	assert.Equal(t, "Amazon", stores[0].Name)
	assert.Equal(t, "Aptronix", stores[1].Name)
	assert.Equal(t, "CMR Central", stores[1].Branch)
	assert.Equal(t, "Aptronix", stores[2].Name)
	assert.Equal(t, "Rama Talkies", stores[2].Branch)
}

func TestExtractStores_FirstSeenWinsOnDuplicate(t *testing.T) {
	// Bản gặp trước giữ metadata, bản trùng sau không ghi đè
	stores := extractStores(migrationInput())
	assert.Equal(t, "https://www.amazon.in", stores[0].Website)
}

func TestExtractStores_DeterministicUnderPermutation(t *testing.T) {
	input := migrationInput()
	reversed := []NormalizedProduct{input[1], input[0]}

	original := extractStores(input)
	permuted := extractStores(reversed)

	require.Equal(t, len(original), len(permuted))
	for i := range original {
		assert.Equal(t, original[i].Name, permuted[i].Name, "thứ tự đầu ra không được phụ thuộc thứ tự input")
		assert.Equal(t, original[i].Branch, permuted[i].Branch)
	}
}

func TestExtractStores_Empty(t *testing.T) {
	stores := extractStores(nil)
	assert.NotNil(t, stores)
	assert.Empty(t, stores)
}

func TestBuildPriceRecords_ObservedAndSynthetic(t *testing.T) {
	const now = int64(1748736000000) // 2025-06-01 00:00:00 UTC
	input := []NormalizedProduct{
		{
			Product: catalogmodels.Product{ProductID: "sp-a"},
			Offers: []NormalizedOffer{
				{StoreName: "Amazon", Source: catalogmodels.PriceSourceAmazon, Price: 1000, InStock: true, Timestamp: now - 1000},
			},
		},
	}

	// Perturb cố định 0.5: lùi đúng 1.5 tháng, giá cao hơn đúng 5%
	records, byProduct := buildPriceRecords(input, now, func() float64 { return 0.5 })
	require.Len(t, records, 2, "mỗi mục giá sinh một bản quan sát và một bản synthetic")

	observed := records[0]
	assert.False(t, observed.Synthetic)
	assert.Equal(t, 1000.0, observed.Price)
	assert.Equal(t, now-1000, observed.Timestamp)

	monthMillis := int64(30 * 24 * 60 * 60 * 1000)
	synthetic := records[1]
	assert.True(t, synthetic.Synthetic, "bản ghi lịch sử phát sinh phải mang cờ synthetic")
	assert.InDelta(t, 1050.0, synthetic.Price, 1e-9)
	assert.Equal(t, observed.Timestamp-monthMillis-monthMillis/2, synthetic.Timestamp)
	assert.Less(t, synthetic.Timestamp, observed.Timestamp)

	require.Contains(t, byProduct, "sp-a")
	assert.Len(t, byProduct["sp-a"], 2)
}

func TestBuildPriceRecords_ZeroTimestampUsesNow(t *testing.T) {
	const now = int64(1748736000000)
	input := []NormalizedProduct{
		{
			Product: catalogmodels.Product{ProductID: "sp-a"},
			Offers:  []NormalizedOffer{{StoreName: "Amazon", Price: 100}},
		},
	}

	records, _ := buildPriceRecords(input, now, func() float64 { return 0 })
	require.Len(t, records, 2)
	assert.Equal(t, now, records[0].Timestamp, "mục không ghi thời điểm quan sát dùng now")
}

func TestBuildPriceRecords_DeterministicUnderFixedSeams(t *testing.T) {
	const now = int64(1748736000000)
	input := migrationInput()
	for i := range input {
		for j := range input[i].Offers {
			input[i].Offers[j].Price = 100
		}
	}

	first, _ := buildPriceRecords(input, now, func() float64 { return 0.25 })
	second, _ := buildPriceRecords(input, now, func() float64 { return 0.25 })
	assert.Equal(t, first, second, "cùng seam thời gian và ngẫu nhiên phải cho cùng kết quả")
}

func TestNativeIDFilter_MatchesStoredIDShape(t *testing.T) {
	// _id legacy dạng hex phải được khớp bằng ObjectID, chuỗi thô khớp nguyên văn;
	// tuyệt đối không được rơi về NilObjectID vì sẽ không khớp tài liệu nào
	hex := "665f1e2a9b3c4d5e6f708192"
	objID, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"_id": objID}, nativeIDFilter(hex))

	assert.Equal(t, bson.M{"_id": "legacy-raw-id"}, nativeIDFilter("legacy-raw-id"))
	assert.NotEqual(t, bson.M{"_id": primitive.NilObjectID}, nativeIDFilter("legacy-raw-id"))
}
