package catalogsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "price_pulse/internal/api/base/service"
	catalogdto "price_pulse/internal/api/catalog/dto"
	catalogmodels "price_pulse/internal/api/catalog/models"
	"price_pulse/internal/common"
	"price_pulse/internal/global"
	"price_pulse/internal/utility"
)

// Giới hạn kích thước kết quả tìm kiếm
const (
	SearchLimitBlankQuery = 10 // Tìm kiếm không có từ khóa (duyệt danh mục)
	SearchLimitWithQuery  = 20 // Tìm kiếm có từ khóa
	TrendingLimit         = 8  // Số sản phẩm trên feed trang chủ
)

// ProductSearchFilter là điều kiện tìm kiếm sản phẩm đã được parse
type ProductSearchFilter struct {
	Query    string
	Brand    string
	Category string
	MinPrice float64 // 0 nghĩa là không giới hạn dưới
	MaxPrice float64 // 0 nghĩa là không giới hạn trên
}

// ProductService là cấu trúc chứa các phương thức liên quan đến sản phẩm
type ProductService struct {
	*basesvc.BaseServiceMongoImpl[catalogmodels.Product]
	priceService *PriceRecordService
}

// NewProductService tạo mới ProductService
func NewProductService() (*ProductService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Products)
	if !exist {
		return nil, fmt.Errorf("failed to get products collection: %v", common.ErrNotFound)
	}
	priceService, err := NewPriceRecordService()
	if err != nil {
		return nil, fmt.Errorf("failed to create price_record service: %v", err)
	}
	return &ProductService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[catalogmodels.Product](coll),
		priceService:         priceService,
	}, nil
}

// resolutionStrategy là một chiến lược tra cứu sản phẩm theo định danh.
// Trả về (product, true, nil) khi tìm thấy; (_, false, nil) khi không khớp
// để chiến lược tiếp theo được thử.
type resolutionStrategy func(ctx context.Context, id string) (catalogmodels.Product, bool, error)

// FindByAnyID tìm sản phẩm theo định danh, thử lần lượt từng chiến lược:
//  1. khóa ứng dụng (trường "id" dạng chuỗi)
//  2. _id gốc của MongoDB (chỉ thử khi chuỗi là ObjectID hex hợp lệ)
//
// Định danh rỗng bị từ chối ngay, không chạm tới storage.
func (s *ProductService) FindByAnyID(ctx context.Context, id string) (catalogmodels.Product, error) {
	if id == "" {
		return catalogmodels.Product{}, common.NewError(
			common.ErrCodeValidationInput,
			"Định danh sản phẩm không được để trống",
			common.StatusBadRequest,
			nil,
		)
	}

	strategies := []resolutionStrategy{
		s.byAppKey,
		s.byNativeID,
	}
	for _, strategy := range strategies {
		product, found, err := strategy(ctx, id)
		if err != nil {
			return catalogmodels.Product{}, err
		}
		if found {
			return product, nil
		}
	}
	return catalogmodels.Product{}, common.ErrNotFound
}

// byAppKey tra cứu theo khóa ứng dụng (trường "id")
func (s *ProductService) byAppKey(ctx context.Context, id string) (catalogmodels.Product, bool, error) {
	product, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"id": id}, nil)
	if err != nil {
		if isNotFound(err) {
			return catalogmodels.Product{}, false, nil
		}
		return catalogmodels.Product{}, false, err
	}
	return product, true, nil
}

// byNativeID tra cứu theo _id gốc; bỏ qua khi chuỗi không phải ObjectID hex hợp lệ
func (s *ProductService) byNativeID(ctx context.Context, id string) (catalogmodels.Product, bool, error) {
	if !primitive.IsValidObjectID(id) {
		return catalogmodels.Product{}, false, nil
	}
	product, err := s.BaseServiceMongoImpl.FindOneById(ctx, utility.String2ObjectID(id))
	if err != nil {
		if isNotFound(err) {
			return catalogmodels.Product{}, false, nil
		}
		return catalogmodels.Product{}, false, err
	}
	return product, true, nil
}

// AggregatedViewOf tính bản tổng hợp giá của sản phẩm trên mỗi lần đọc
func (s *ProductService) AggregatedViewOf(ctx context.Context, productID string) (catalogdto.AggregatedView, error) {
	latest, err := s.priceService.LatestPricePerStore(ctx, productID)
	if err != nil {
		return catalogdto.AggregatedView{}, err
	}

	view := catalogdto.AggregatedView{PerStoreLatest: latest}
	if best := LowestOf(latest); best != nil {
		view.BestStore = best
		view.CurrentPrice = &best.Price
	}
	return view, nil
}

// FetchWithView trả về sản phẩm canonical kèm bản tổng hợp giá
func (s *ProductService) FetchWithView(ctx context.Context, id string) (catalogdto.ProductWithView, error) {
	product, err := s.FindByAnyID(ctx, id)
	if err != nil {
		return catalogdto.ProductWithView{}, err
	}
	view, err := s.AggregatedViewOf(ctx, product.ProductID)
	if err != nil {
		return catalogdto.ProductWithView{}, err
	}
	return catalogdto.ProductWithView{Product: product, View: view}, nil
}

// Search tìm sản phẩm theo từ khóa và các bộ lọc tùy chọn.
// Từ khóa được so khớp regex không phân biệt hoa thường trên name/description/category/brand;
// minPrice/maxPrice áp lên currentPrice. Kết quả kèm bản tổng hợp giá từng sản phẩm.
func (s *ProductService) Search(ctx context.Context, filter ProductSearchFilter) ([]catalogdto.ProductWithView, error) {
	query := bson.M{}

	if filter.Query != "" {
		regex := primitive.Regex{Pattern: utility.EscapeRegex(filter.Query), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"description": regex},
			bson.M{"category": regex},
			bson.M{"brand": regex},
		}
	}
	if filter.Brand != "" {
		query["brand"] = primitive.Regex{Pattern: "^" + utility.EscapeRegex(filter.Brand) + "$", Options: "i"}
	}
	if filter.Category != "" {
		query["category"] = primitive.Regex{Pattern: "^" + utility.EscapeRegex(filter.Category) + "$", Options: "i"}
	}

	priceRange := bson.M{}
	if filter.MinPrice > 0 {
		priceRange["$gte"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		priceRange["$lte"] = filter.MaxPrice
	}
	if len(priceRange) > 0 {
		query["currentPrice"] = priceRange
	}

	limit := int64(SearchLimitBlankQuery)
	if filter.Query != "" {
		limit = SearchLimitWithQuery
	}

	opts := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "currentPrice", Value: 1}})
	products, err := s.BaseServiceMongoImpl.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	return s.attachViews(ctx, products)
}

// Trending trả về các sản phẩm nổi bật cho trang chủ, xếp theo điểm đánh giá giảm dần
func (s *ProductService) Trending(ctx context.Context) ([]catalogdto.ProductWithView, error) {
	opts := options.Find().
		SetLimit(TrendingLimit).
		SetSort(bson.D{{Key: "reviews.rating", Value: -1}, {Key: "reviews.count", Value: -1}})
	products, err := s.BaseServiceMongoImpl.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return s.attachViews(ctx, products)
}

// attachViews tính bản tổng hợp giá cho từng sản phẩm trong danh sách
func (s *ProductService) attachViews(ctx context.Context, products []catalogmodels.Product) ([]catalogdto.ProductWithView, error) {
	results := make([]catalogdto.ProductWithView, 0, len(products))
	for _, product := range products {
		view, err := s.AggregatedViewOf(ctx, product.ProductID)
		if err != nil {
			return nil, err
		}
		results = append(results, catalogdto.ProductWithView{Product: product, View: view})
	}
	return results, nil
}

// RecomputePrices cập nhật lại currentPrice/originalPrice của sản phẩm từ các bản ghi
// giá mới nhất theo từng cửa hàng, giữ bất biến currentPrice = min(latest-per-store).
// Sản phẩm chưa có bản ghi giá nào thì giữ nguyên, không ghi giá 0 giả.
func (s *ProductService) RecomputePrices(ctx context.Context, productID string) error {
	latest, err := s.priceService.LatestPricePerStore(ctx, productID)
	if err != nil {
		return err
	}
	if len(latest) == 0 {
		return nil
	}

	minPrice := latest[0].Price
	maxPrice := latest[0].Price
	for _, p := range latest[1:] {
		if p.Price < minPrice {
			minPrice = p.Price
		}
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
	}

	update := bson.M{"$set": bson.M{
		"currentPrice":  minPrice,
		"originalPrice": maxPrice,
	}}
	_, err = s.BaseServiceMongoImpl.UpdateOne(ctx, bson.M{"id": productID}, update, nil)
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// RecordObservation ghi nhận một quan sát giá mới rồi cập nhật ngay giá của sản phẩm
func (s *ProductService) RecordObservation(ctx context.Context, record catalogmodels.PriceRecord) (catalogmodels.PriceRecord, error) {
	saved, err := s.priceService.AppendObservation(ctx, record)
	if err != nil {
		return catalogmodels.PriceRecord{}, err
	}
	if err := s.RecomputePrices(ctx, saved.ProductID); err != nil {
		return catalogmodels.PriceRecord{}, err
	}
	return saved, nil
}

// PriceService cho handler và migration truy cập trực tiếp tầng bản ghi giá
func (s *ProductService) PriceService() *PriceRecordService {
	return s.priceService
}
