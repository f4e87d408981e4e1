package catalogsvc

import (
	"strings"
	"time"

	catalogdto "price_pulse/internal/api/catalog/dto"
	catalogmodels "price_pulse/internal/api/catalog/models"
)

// Dữ liệu fixture xác định, dùng làm fallback cho môi trường development và
// làm dữ liệu seed khi INITMODE bật. Thay thế cho scraper thật (ngoài phạm vi).

// fixtureTime trả về timestamp Unix milliseconds của một mốc cố định
func fixtureTime(month time.Month, day, hour, minute int) int64 {
	return time.Date(2025, month, day, hour, minute, 0, 0, time.UTC).UnixMilli()
}

// FixtureCatalog trả về danh mục sản phẩm mẫu kèm các quan sát giá.
// Mỗi lần gọi trả về một bản sao mới để caller thay đổi thoải mái.
func FixtureCatalog() []NormalizedProduct {
	return []NormalizedProduct{
		{
			Product: catalogmodels.Product{
				ProductID:   "iphone-15-pro-256",
				Name:        "iPhone 15 Pro 256GB",
				Description: "Điện thoại Apple iPhone 15 Pro bản 256GB, khung titanium",
				Brand:       "Apple",
				Category:    "Điện thoại",
				Images:      []string{"https://images.example.com/iphone-15-pro.jpg"},
				Specifications: map[string]string{
					"màn hình": "6.1 inch Super Retina XDR",
					"chip":     "A17 Pro",
					"bộ nhớ":   "256GB",
				},
				Reviews: catalogmodels.ProductReviews{Rating: 4.7, Count: 1834},
			},
			Offers: []NormalizedOffer{
				{
					StoreName: "Amazon",
					StoreType: catalogmodels.StoreTypeOnline,
					Website:   "https://www.amazon.in",
					Source:    catalogmodels.PriceSourceAmazon,
					Price:     131900,
					InStock:   true,
					Timestamp: fixtureTime(time.June, 1, 12, 0),
				},
				{
					StoreName:   "Aptronix",
					StoreBranch: "Rama Talkies",
					StoreType:   catalogmodels.StoreTypeLocal,
					Address:     "Rama Talkies Road, Visakhapatnam",
					Source:      catalogmodels.PriceSourceLocal,
					Price:       128000,
					InStock:     true,
					Timestamp:   fixtureTime(time.June, 1, 11, 30),
				},
			},
		},
		{
			Product: catalogmodels.Product{
				ProductID:   "samsung-galaxy-s24-ultra",
				Name:        "Samsung Galaxy S24 Ultra",
				Description: "Samsung Galaxy S24 Ultra 512GB kèm bút S Pen",
				Brand:       "Samsung",
				Category:    "Điện thoại",
				Images:      []string{"https://images.example.com/galaxy-s24-ultra.jpg"},
				Specifications: map[string]string{
					"màn hình": "6.8 inch Dynamic AMOLED 2X",
					"bộ nhớ":   "512GB",
				},
				Reviews: catalogmodels.ProductReviews{Rating: 4.6, Count: 1212},
			},
			Offers: []NormalizedOffer{
				{
					StoreName: "Flipkart",
					StoreType: catalogmodels.StoreTypeOnline,
					Website:   "https://www.flipkart.com",
					Source:    catalogmodels.PriceSourceFlipkart,
					Price:     129999,
					InStock:   true,
					Timestamp: fixtureTime(time.June, 2, 9, 15),
				},
				{
					StoreName: "Amazon",
					StoreType: catalogmodels.StoreTypeOnline,
					Website:   "https://www.amazon.in",
					Source:    catalogmodels.PriceSourceAmazon,
					Price:     132490,
					InStock:   false,
					Timestamp: fixtureTime(time.June, 2, 10, 0),
				},
				{
					StoreName:   "Bajaj Electronics",
					StoreBranch: "CMR Central",
					StoreType:   catalogmodels.StoreTypeLocal,
					Address:     "CMR Central Mall, Maddilapalem, Visakhapatnam",
					Source:      catalogmodels.PriceSourceLocal,
					Price:       127500,
					InStock:     true,
					Timestamp:   fixtureTime(time.June, 2, 8, 45),
				},
			},
		},
		{
			Product: catalogmodels.Product{
				ProductID:   "sony-wh-1000xm5",
				Name:        "Sony WH-1000XM5",
				Description: "Tai nghe chống ồn Sony WH-1000XM5",
				Brand:       "Sony",
				Category:    "Tai nghe",
				Images:      []string{"https://images.example.com/sony-wh-1000xm5.jpg"},
				Specifications: map[string]string{
					"pin":       "30 giờ",
					"kết nối":   "Bluetooth 5.2",
					"chống ồn":  "có",
				},
				Reviews: catalogmodels.ProductReviews{Rating: 4.8, Count: 967},
			},
			Offers: []NormalizedOffer{
				{
					StoreName: "Amazon",
					StoreType: catalogmodels.StoreTypeOnline,
					Website:   "https://www.amazon.in",
					Source:    catalogmodels.PriceSourceAmazon,
					Price:     26990,
					InStock:   true,
					Timestamp: fixtureTime(time.June, 3, 14, 20),
				},
				{
					StoreName:   "Sangeetha Mobiles",
					StoreBranch: "Dwaraka Nagar",
					StoreType:   catalogmodels.StoreTypeLocal,
					Address:     "Dwaraka Nagar Main Road, Visakhapatnam",
					Source:      catalogmodels.PriceSourceLocal,
					Price:       27500,
					InStock:     true,
					Timestamp:   fixtureTime(time.June, 3, 13, 0),
				},
			},
		},
	}
}

// fixtureRecords phát sinh bản ghi giá từ danh sách offer của một fixture
func fixtureRecords(p NormalizedProduct) []catalogmodels.PriceRecord {
	records := make([]catalogmodels.PriceRecord, 0, len(p.Offers))
	for _, offer := range p.Offers {
		records = append(records, catalogmodels.PriceRecord{
			ProductID:   p.Product.ProductID,
			StoreName:   offer.StoreName,
			StoreBranch: offer.StoreBranch,
			Source:      offer.Source,
			Price:       offer.Price,
			InStock:     offer.InStock,
			Timestamp:   offer.Timestamp,
		})
	}
	return records
}

// FixtureProductsWithViews trả về danh mục fixture kèm bản tổng hợp giá tính
// bằng reducer in-memory, lọc theo từ khóa nếu có. Dùng làm fallback cho
// tìm kiếm và trang chủ ở môi trường development.
func FixtureProductsWithViews(query string) []catalogdto.ProductWithView {
	results := []catalogdto.ProductWithView{}
	lowered := strings.ToLower(query)

	for _, p := range FixtureCatalog() {
		if lowered != "" {
			haystack := strings.ToLower(p.Product.Name + " " + p.Product.Description + " " + p.Product.Brand + " " + p.Product.Category)
			if !strings.Contains(haystack, lowered) {
				continue
			}
		}

		latest := reduceLatestPerStore(fixtureRecords(p))
		view := catalogdto.AggregatedView{PerStoreLatest: latest}
		if best := LowestOf(latest); best != nil {
			view.BestStore = best
			view.CurrentPrice = &best.Price
			p.Product.CurrentPrice = best.Price
		}
		results = append(results, catalogdto.ProductWithView{Product: p.Product, View: view})
	}
	return results
}

// FixtureProductWithView trả về một sản phẩm fixture theo định danh, nil nếu không có
func FixtureProductWithView(id string) *catalogdto.ProductWithView {
	for _, item := range FixtureProductsWithViews("") {
		if item.Product.ProductID == id {
			result := item
			return &result
		}
	}
	return nil
}

// FixtureHistory trả về đường giá fixture của một sản phẩm trong khoảng thời gian
func FixtureHistory(id string, period string) []catalogdto.HistoryPoint {
	floor := PeriodFloor(period, time.Now())
	points := []catalogdto.HistoryPoint{}
	for _, p := range FixtureCatalog() {
		if p.Product.ProductID != id {
			continue
		}
		for _, r := range fixtureRecords(p) {
			if r.Timestamp >= floor {
				points = append(points, catalogdto.HistoryPoint{
					Source:      r.Source,
					StoreName:   r.StoreName,
					StoreBranch: r.StoreBranch,
					Price:       r.Price,
					Timestamp:   r.Timestamp,
				})
			}
		}
	}
	return points
}
