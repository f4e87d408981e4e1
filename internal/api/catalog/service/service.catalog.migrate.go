package catalogsvc

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	catalogmodels "price_pulse/internal/api/catalog/models"
	"price_pulse/internal/common"
	"price_pulse/internal/logger"
	"price_pulse/internal/utility"
)

// MigrationReport là kết quả của một lần chạy migration
type MigrationReport struct {
	StoresWritten     int64 `json:"storesWritten"`
	RecordsWritten    int64 `json:"recordsWritten"`
	ProductsRewritten int64 `json:"productsRewritten"`
	StartedAt         int64 `json:"startedAt"`
	FinishedAt        int64 `json:"finishedAt"`
}

// storeIdentity là khóa duy nhất của một cửa hàng trong bước Extract
type storeIdentity struct {
	Name   string
	Branch string
}

// Migrator chuyển đổi một lần từ tài liệu sản phẩm legacy (cửa hàng nhúng trong
// mảng stores[]) sang lược đồ chuẩn hóa Product / Store / PriceRecord.
//
// Pipeline bốn bước, bước trước phải xong mới tới bước sau:
// Extract → Load Stores → Load Price Records → Rewrite Products.
// Bước 2 và 3 xóa rồi nạp lại toàn bộ (clear-and-reload) nên chạy lại migration
// trên dữ liệu bẩn không để lại cửa hàng trùng hay mồ côi; đổi lại, các quan sát
// thật ghi giữa hai lần chạy sẽ bị loại bỏ — đánh đổi có chủ đích, không phải bug.
// Bất kỳ lỗi nào cũng hủy toàn bộ lần chạy; lần chạy hỏng phải chạy lại từ đầu,
// không resume.
//
// Now và Perturb là seam để test kiểm soát thời gian và độ nhiễu ngẫu nhiên.
type Migrator struct {
	storeService   *StoreService
	priceService   *PriceRecordService
	productService *ProductService

	// Now trả về thời điểm hiện tại (Unix milliseconds)
	Now func() int64
	// Perturb trả về giá trị trong [0, 1); dùng sinh bản ghi lịch sử synthetic
	Perturb func() float64
}

// NewMigrator tạo mới Migrator với nguồn thời gian và ngẫu nhiên mặc định
func NewMigrator() (*Migrator, error) {
	storeService, err := NewStoreService()
	if err != nil {
		return nil, err
	}
	priceService, err := NewPriceRecordService()
	if err != nil {
		return nil, err
	}
	productService, err := NewProductService()
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Migrator{
		storeService:   storeService,
		priceService:   priceService,
		productService: productService,
		Now:            utility.CurrentTimeInMilli,
		Perturb:        rng.Float64,
	}, nil
}

// Run thực hiện toàn bộ migration trên các tài liệu sản phẩm legacy hiện có
// trong collection products. Đây là thao tác bảo trì chạy với quyền truy cập
// độc quyền, không chạy song song với ghi dữ liệu khác.
func (m *Migrator) Run(ctx context.Context) (*MigrationReport, error) {
	log := logger.GetAppLogger()
	report := &MigrationReport{StartedAt: m.Now()}

	// Đọc toàn bộ tài liệu legacy ở dạng thô để Normalizer xử lý mọi biến thể shape
	rawProducts, err := m.loadRawProducts(ctx)
	if err != nil {
		return report, fmt.Errorf("đọc tài liệu sản phẩm legacy thất bại: %w", err)
	}
	log.Infof("Migration: đọc được %d tài liệu sản phẩm legacy", len(rawProducts))

	normalized := make([]NormalizedProduct, 0, len(rawProducts))
	for _, raw := range rawProducts {
		normalized = append(normalized, Normalize(raw))
	}

	// Bước 1: Extract — tập (name, branch) duy nhất, thứ tự ổn định không phụ thuộc input
	stores := extractStores(normalized)
	log.Infof("Migration: extract được %d cửa hàng duy nhất", len(stores))

	// Bước 2: Load Stores — xóa sạch registry rồi nạp lại
	storesWritten, err := m.loadStores(ctx, stores)
	if err != nil {
		return report, fmt.Errorf("nạp registry cửa hàng thất bại: %w", err)
	}
	report.StoresWritten = storesWritten

	// Bước 3: Load Price Records — mỗi mục giá một bản ghi quan sát kèm một bản ghi
	// lịch sử synthetic để đường giá không trống
	recordsWritten, recordsByProduct, err := m.loadPriceRecords(ctx, normalized)
	if err != nil {
		return report, fmt.Errorf("nạp bản ghi giá thất bại: %w", err)
	}
	report.RecordsWritten = recordsWritten

	// Bước 4: Rewrite Products — tính lại giá vô hướng và gỡ hẳn mảng stores nhúng
	productsRewritten, err := m.rewriteProducts(ctx, normalized, recordsByProduct)
	if err != nil {
		return report, fmt.Errorf("ghi lại tài liệu sản phẩm thất bại: %w", err)
	}
	report.ProductsRewritten = productsRewritten

	report.FinishedAt = m.Now()
	log.Infof("Migration hoàn tất: %d cửa hàng, %d bản ghi giá, %d sản phẩm",
		report.StoresWritten, report.RecordsWritten, report.ProductsRewritten)
	return report, nil
}

// loadRawProducts đọc toàn bộ collection products dưới dạng map thô
func (m *Migrator) loadRawProducts(ctx context.Context) ([]map[string]interface{}, error) {
	cursor, err := m.productService.Collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []map[string]interface{}{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// extractStores tính tập (name, branch) duy nhất trên toàn bộ mục giá.
// Kết quả sắp xếp theo (name, branch) nên xác định với mọi thứ tự input.
func extractStores(products []NormalizedProduct) []catalogmodels.Store {
	seen := map[storeIdentity]catalogmodels.Store{}
	for _, p := range products {
		for _, offer := range p.Offers {
			key := storeIdentity{Name: offer.StoreName, Branch: offer.StoreBranch}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = catalogmodels.Store{
				Name:    offer.StoreName,
				Branch:  offer.StoreBranch,
				Type:    offer.StoreType,
				Address: offer.Address,
				Website: offer.Website,
			}
		}
	}

	keys := make([]storeIdentity, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].Branch < keys[j].Branch
	})

	stores := make([]catalogmodels.Store, 0, len(keys))
	for _, key := range keys {
		stores = append(stores, seen[key])
	}
	return stores
}

// loadStores xóa sạch registry cửa hàng rồi nạp lại tập đã extract
func (m *Migrator) loadStores(ctx context.Context, stores []catalogmodels.Store) (int64, error) {
	if _, err := m.storeService.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, err
	}
	if len(stores) == 0 {
		return 0, nil
	}
	inserted, err := m.storeService.InsertMany(ctx, stores)
	if err != nil {
		return 0, err
	}
	return int64(len(inserted)), nil
}

// loadPriceRecords xóa sạch log giá rồi phát sinh bản ghi cho từng mục giá nhúng:
// một bản ghi tại thời điểm quan sát, cộng một bản ghi synthetic lùi 1-2 tháng với
// giá cao hơn 0-10% để đường giá lịch sử có hình dạng. Bản ghi synthetic mang cờ
// synthetic=true để dọn được khi có dữ liệu lịch sử thật.
func (m *Migrator) loadPriceRecords(ctx context.Context, products []NormalizedProduct) (int64, map[string][]catalogmodels.PriceRecord, error) {
	if _, err := m.priceService.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, nil, err
	}

	records, byProduct := buildPriceRecords(products, m.Now(), m.Perturb)

	if len(records) == 0 {
		return 0, byProduct, nil
	}
	inserted, err := m.priceService.InsertMany(ctx, records)
	if err != nil {
		return 0, nil, err
	}
	return int64(len(inserted)), byProduct, nil
}

// buildPriceRecords phát sinh bản ghi giá cho từng mục giá đã chuẩn hóa: một bản
// quan sát (timestamp 0 thay bằng now) và một bản synthetic lùi 1-2 tháng với giá
// cao hơn 0-10%. Hàm thuần trên (now, perturb) nên cùng seam cho cùng kết quả.
func buildPriceRecords(products []NormalizedProduct, now int64, perturb func() float64) ([]catalogmodels.PriceRecord, map[string][]catalogmodels.PriceRecord) {
	records := []catalogmodels.PriceRecord{}
	byProduct := map[string][]catalogmodels.PriceRecord{}

	for _, p := range products {
		for _, offer := range p.Offers {
			observedAt := offer.Timestamp
			if observedAt == 0 {
				observedAt = now
			}

			observed := catalogmodels.PriceRecord{
				ProductID:   p.Product.ProductID,
				StoreName:   offer.StoreName,
				StoreBranch: offer.StoreBranch,
				Source:      offer.Source,
				Price:       offer.Price,
				InStock:     offer.InStock,
				Timestamp:   observedAt,
			}

			// Lùi 1-2 tháng, giá cao hơn 0-10%
			monthMillis := int64(30 * 24 * time.Hour / time.Millisecond)
			backShift := monthMillis + int64(perturb()*float64(monthMillis))
			synthetic := catalogmodels.PriceRecord{
				ProductID:   p.Product.ProductID,
				StoreName:   offer.StoreName,
				StoreBranch: offer.StoreBranch,
				Source:      offer.Source,
				Price:       offer.Price * (1 + perturb()*0.10),
				InStock:     offer.InStock,
				Timestamp:   observedAt - backShift,
				Synthetic:   true,
			}

			records = append(records, observed, synthetic)
			byProduct[p.Product.ProductID] = append(byProduct[p.Product.ProductID], observed, synthetic)
		}
	}

	return records, byProduct
}

// nativeIDFilter dựng filter theo _id gốc; _id legacy có thể là ObjectID
// hoặc chuỗi thô nên phải khớp đúng dạng lưu trong collection
func nativeIDFilter(id string) bson.M {
	if objID := utility.String2ObjectID(id); objID != primitive.NilObjectID {
		return bson.M{"_id": objID}
	}
	return bson.M{"_id": id}
}

// rewriteProducts tính lại currentPrice (min) và originalPrice (max) trên các bản ghi
// vừa ghi cho từng sản phẩm, rồi $unset mảng stores nhúng
func (m *Migrator) rewriteProducts(ctx context.Context, products []NormalizedProduct, recordsByProduct map[string][]catalogmodels.PriceRecord) (int64, error) {
	var rewritten int64
	for _, p := range products {
		records := recordsByProduct[p.Product.ProductID]

		update := bson.M{
			"$unset": bson.M{"stores": "", "prices": ""},
		}
		if len(records) > 0 {
			minPrice := records[0].Price
			maxPrice := records[0].Price
			for _, r := range records[1:] {
				if r.Price < minPrice {
					minPrice = r.Price
				}
				if r.Price > maxPrice {
					maxPrice = r.Price
				}
			}
			update["$set"] = bson.M{
				"id":            p.Product.ProductID,
				"currentPrice":  minPrice,
				"originalPrice": maxPrice,
			}
		} else {
			// Sản phẩm không có mục giá nhúng: chỉ đảm bảo khóa ứng dụng tồn tại
			update["$set"] = bson.M{"id": p.Product.ProductID}
		}

		result, err := m.productService.Collection().UpdateOne(ctx, bson.M{"id": p.Product.ProductID}, update)
		if err != nil {
			return rewritten, common.ConvertMongoError(err)
		}
		if result.MatchedCount == 0 {
			// Tài liệu chưa có khóa ứng dụng: khớp theo _id gốc
			result, err = m.productService.Collection().UpdateOne(ctx, nativeIDFilter(p.Product.ProductID), update)
			if err != nil {
				return rewritten, common.ConvertMongoError(err)
			}
			if result.MatchedCount == 0 {
				logger.GetAppLogger().Warnf("Skipped rewriting product without matching document: %s", p.Product.ProductID)
				continue
			}
		}
		rewritten++
	}
	return rewritten, nil
}
