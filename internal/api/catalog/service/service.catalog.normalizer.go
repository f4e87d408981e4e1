package catalogsvc

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	catalogmodels "price_pulse/internal/api/catalog/models"
	"price_pulse/internal/logger"
)

// Giá trị mặc định cho các trường bắt buộc khi tài liệu nguồn thiếu dữ liệu
const (
	DefaultProductName        = "Sản phẩm chưa đặt tên"
	DefaultProductDescription = "Chưa có mô tả"
	DefaultProductCategory    = "Chưa phân loại"
)

// NormalizedOffer là một mục giá đi kèm tài liệu sản phẩm thô, sau khi đã chuẩn hóa.
// Migration và luồng seed dữ liệu dùng danh sách này để phát sinh PriceRecord.
type NormalizedOffer struct {
	StoreName   string
	StoreBranch string
	StoreType   string // "online" hoặc "local"
	Address     string
	Website     string
	Source      string // "amazon", "flipkart" hoặc "local"
	Price       float64
	InStock     bool
	Timestamp   int64 // Unix milliseconds; 0 nếu nguồn không ghi thời điểm
}

// NormalizedProduct là kết quả chuẩn hóa: sản phẩm canonical kèm danh sách giá đã tách
type NormalizedProduct struct {
	Product catalogmodels.Product
	Offers  []NormalizedOffer
}

// Normalize chuyển một tài liệu sản phẩm thô, định dạng lỏng lẻo, thành một biểu diễn
// canonical với đầy đủ các trường bắt buộc. Hàm thuần, không I/O, không trả lỗi —
// thiếu dữ liệu được thay bằng giá trị mặc định thay vì thất bại.
//
// Ba dạng đầu vào được nhận diện, xét theo thứ tự:
//  1. dạng legacy nhúng cửa hàng: {stores: [{name, type, location, price, inStock, lastUpdated}]}
//  2. dạng marketplace: {prices: {amazon, flipkart, localStores}}
//  3. dạng đã chuẩn hóa: {currentPrice, originalPrice} vô hướng
//
// Đảm bảo đầu ra: id luôn là chuỗi khác rỗng (lấy trường "id" → hex của "_id" → sinh mới,
// nhánh sinh mới được log warning chứ không im lặng); name/description/category luôn có
// placeholder; images/specifications/offers luôn là container rỗng thay vì vắng mặt.
func Normalize(raw map[string]interface{}) NormalizedProduct {
	product := catalogmodels.Product{
		ProductID:      resolveID(raw),
		Name:           stringOr(raw, "name", DefaultProductName),
		Description:    stringOr(raw, "description", DefaultProductDescription),
		Category:       stringOr(raw, "category", DefaultProductCategory),
		Brand:          stringOr(raw, "brand", ""),
		Images:         stringSliceOf(raw, "images"),
		Specifications: stringMapOf(raw, "specifications"),
	}

	if reviews, ok := raw["reviews"].(map[string]interface{}); ok {
		product.Reviews = catalogmodels.ProductReviews{
			Rating: floatOf(reviews, "rating"),
			Count:  int64(floatOf(reviews, "count")),
		}
	}

	offers := []NormalizedOffer{}
	switch {
	case hasKey(raw, "stores"):
		offers = normalizeLegacyStores(raw["stores"])
	case hasKey(raw, "prices"):
		offers = normalizeMarketplaceShape(raw["prices"])
	}

	// Dạng đã chuẩn hóa: giá vô hướng nằm sẵn trên tài liệu
	product.CurrentPrice = floatOf(raw, "currentPrice")
	product.OriginalPrice = floatOf(raw, "originalPrice")

	return NormalizedProduct{Product: product, Offers: offers}
}

// resolveID xác định khóa định danh theo thứ tự: trường "id" → hex của "_id" → sinh mới
func resolveID(raw map[string]interface{}) string {
	if id, ok := raw["id"].(string); ok && id != "" {
		return id
	}
	switch v := raw["_id"].(type) {
	case primitive.ObjectID:
		if !v.IsZero() {
			return v.Hex()
		}
	case string:
		if v != "" {
			return v
		}
	}
	// Nhánh ngoại lệ: tài liệu không có bất kỳ định danh nào
	generated := primitive.NewObjectID().Hex()
	logger.GetAppLogger().Warnf("Tài liệu sản phẩm không có id lẫn _id, sinh định danh mới: %s", generated)
	return generated
}

// normalizeLegacyStores xử lý dạng legacy {stores: [{name, type, location, price, inStock, lastUpdated}]}
func normalizeLegacyStores(value interface{}) []NormalizedOffer {
	entries, ok := value.([]interface{})
	if !ok {
		return []NormalizedOffer{}
	}

	offers := make([]NormalizedOffer, 0, len(entries))
	for _, entry := range entries {
		store, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		name := stringOr(store, "name", "")
		if name == "" {
			continue
		}

		storeType := stringOr(store, "type", catalogmodels.StoreTypeLocal)
		location := stringOr(store, "location", "")
		offer := NormalizedOffer{
			StoreName: name,
			StoreType: storeType,
			Price:     floatOf(store, "price"),
			InStock:   boolOf(store, "inStock"),
			Timestamp: int64(floatOf(store, "lastUpdated")),
		}
		if storeType == catalogmodels.StoreTypeOnline {
			offer.Source = sourceForMarketplace(name)
			offer.Website = stringOr(store, "website", "")
		} else {
			// Chi nhánh của cửa hàng vật lý suy ra từ địa chỉ
			offer.Source = catalogmodels.PriceSourceLocal
			offer.StoreBranch = location
			offer.Address = location
		}
		offers = append(offers, offer)
	}
	return offers
}

// normalizeMarketplaceShape xử lý dạng {prices: {amazon, flipkart, localStores}}
func normalizeMarketplaceShape(value interface{}) []NormalizedOffer {
	prices, ok := value.(map[string]interface{})
	if !ok {
		return []NormalizedOffer{}
	}

	offers := []NormalizedOffer{}
	if amazon, ok := prices["amazon"].(map[string]interface{}); ok {
		offers = append(offers, NormalizedOffer{
			StoreName: "Amazon",
			StoreType: catalogmodels.StoreTypeOnline,
			Website:   stringOr(amazon, "url", ""),
			Source:    catalogmodels.PriceSourceAmazon,
			Price:     floatOf(amazon, "price"),
			InStock:   boolOf(amazon, "inStock"),
			Timestamp: int64(floatOf(amazon, "lastUpdated")),
		})
	}
	if flipkart, ok := prices["flipkart"].(map[string]interface{}); ok {
		offers = append(offers, NormalizedOffer{
			StoreName: "Flipkart",
			StoreType: catalogmodels.StoreTypeOnline,
			Website:   stringOr(flipkart, "url", ""),
			Source:    catalogmodels.PriceSourceFlipkart,
			Price:     floatOf(flipkart, "price"),
			InStock:   boolOf(flipkart, "inStock"),
			Timestamp: int64(floatOf(flipkart, "lastUpdated")),
		})
	}
	if localStores, ok := prices["localStores"].([]interface{}); ok {
		for _, entry := range localStores {
			store, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			name := stringOr(store, "name", "")
			if name == "" {
				continue
			}
			offers = append(offers, NormalizedOffer{
				StoreName:   name,
				StoreBranch: stringOr(store, "branch", ""),
				StoreType:   catalogmodels.StoreTypeLocal,
				Address:     stringOr(store, "address", ""),
				Source:      catalogmodels.PriceSourceLocal,
				Price:       floatOf(store, "price"),
				InStock:     boolOf(store, "inStock"),
				Timestamp:   int64(floatOf(store, "lastUpdated")),
			})
		}
	}
	return offers
}

// sourceForMarketplace ánh xạ tên sàn online về mã nguồn quan sát
func sourceForMarketplace(name string) string {
	switch name {
	case "Amazon", "amazon":
		return catalogmodels.PriceSourceAmazon
	case "Flipkart", "flipkart":
		return catalogmodels.PriceSourceFlipkart
	default:
		return catalogmodels.PriceSourceLocal
	}
}

func hasKey(m map[string]interface{}, key string) bool {
	_, ok := m[key]
	return ok
}

func stringOr(m map[string]interface{}, key string, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// floatOf đọc một giá trị số dưới mọi kiểu JSON/BSON decode ra được
func floatOf(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		if n, ok := m[key].(interface{ Float64() (float64, error) }); ok {
			if f, err := n.Float64(); err == nil {
				return f
			}
		}
		return 0
	}
}

func boolOf(m map[string]interface{}, key string) bool {
	v, ok := m[key].(bool)
	return ok && v
}

func stringSliceOf(m map[string]interface{}, key string) []string {
	result := []string{}
	entries, ok := m[key].([]interface{})
	if !ok {
		return result
	}
	for _, entry := range entries {
		if s, ok := entry.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

func stringMapOf(m map[string]interface{}, key string) map[string]string {
	result := map[string]string{}
	entries, ok := m[key].(map[string]interface{})
	if !ok {
		return result
	}
	for k, v := range entries {
		if s, ok := v.(string); ok {
			result[k] = s
		}
	}
	return result
}
