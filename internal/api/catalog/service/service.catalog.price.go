package catalogsvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	basesvc "price_pulse/internal/api/base/service"
	catalogdto "price_pulse/internal/api/catalog/dto"
	catalogmodels "price_pulse/internal/api/catalog/models"
	"price_pulse/internal/common"
	"price_pulse/internal/global"
	"price_pulse/internal/utility"
)

// Các khoảng thời gian được hỗ trợ cho lịch sử giá
const (
	PeriodOneMonth    = "1m"
	PeriodThreeMonths = "3m"
	PeriodSixMonths   = "6m"
	PeriodOneYear     = "1y"
	PeriodAll         = "all"

	// DefaultPeriod dùng khi client gửi period rỗng hoặc không hợp lệ
	DefaultPeriod = PeriodSixMonths
)

// PriceRecordService là cấu trúc chứa các phương thức tổng hợp giá trên log quan sát giá.
// Các phép đọc là truy vấn thuần trên log append-only nên chạy song song không cần khóa.
type PriceRecordService struct {
	*basesvc.BaseServiceMongoImpl[catalogmodels.PriceRecord]
}

// NewPriceRecordService tạo mới PriceRecordService
func NewPriceRecordService() (*PriceRecordService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.PriceRecords)
	if !exist {
		return nil, fmt.Errorf("failed to get price_records collection: %v", common.ErrNotFound)
	}
	return &PriceRecordService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[catalogmodels.PriceRecord](coll),
	}, nil
}

// PeriodFloor tính mốc timestamp (Unix milliseconds) thấp nhất của một khoảng thời gian.
// "all" trả về 0 (mốc epoch) thay vì bỏ filter, để đường truy vấn luôn đồng nhất.
// Period rỗng hoặc không hợp lệ dùng DefaultPeriod.
func PeriodFloor(period string, now time.Time) int64 {
	switch period {
	case PeriodOneMonth:
		return now.AddDate(0, -1, 0).UnixMilli()
	case PeriodThreeMonths:
		return now.AddDate(0, -3, 0).UnixMilli()
	case PeriodSixMonths:
		return now.AddDate(0, -6, 0).UnixMilli()
	case PeriodOneYear:
		return now.AddDate(-1, 0, 0).UnixMilli()
	case PeriodAll:
		return 0
	default:
		return now.AddDate(0, -6, 0).UnixMilli()
	}
}

// LatestPricePerStore trả về giá mới nhất của sản phẩm theo từng cửa hàng, sắp xếp theo giá tăng dần.
// Pipeline: $match theo productId → $sort timestamp giảm dần → $group theo (storeName, storeBranch)
// lấy $first → $lookup sang registry cửa hàng (left join, không khớp vẫn chấp nhận) → $sort theo giá.
// Chạy trên cursor, không nạp toàn bộ lịch sử vào bộ nhớ.
// Sản phẩm chưa có bản ghi giá trả về danh sách rỗng, không phải lỗi.
func (s *PriceRecordService) LatestPricePerStore(ctx context.Context, productID string) ([]catalogdto.StorePrice, error) {
	if productID == "" {
		return nil, common.ErrInvalidInput
	}

	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"productId": productID}}},
		{{Key: "$sort", Value: bson.M{"timestamp": -1}}},
		{{Key: "$group", Value: bson.M{
			"_id":       bson.M{"storeName": "$storeName", "storeBranch": "$storeBranch"},
			"storeName": bson.M{"$first": "$storeName"},
			"storeBranch": bson.M{"$first": "$storeBranch"},
			"source":    bson.M{"$first": "$source"},
			"price":     bson.M{"$first": "$price"},
			"inStock":   bson.M{"$first": "$inStock"},
			"timestamp": bson.M{"$first": "$timestamp"},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from": global.MongoDB_ColNames.Stores,
			"let":  bson.M{"name": "$storeName", "branch": "$storeBranch"},
			"pipeline": mongo.Pipeline{
				{{Key: "$match", Value: bson.M{"$expr": bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$name", "$$name"}},
					bson.M{"$eq": bson.A{"$branch", "$$branch"}},
				}}}}},
			},
			"as": "storeInfo",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"storeType": bson.M{"$arrayElemAt": bson.A{"$storeInfo.type", 0}},
			"address":   bson.M{"$arrayElemAt": bson.A{"$storeInfo.address", 0}},
			"website":   bson.M{"$arrayElemAt": bson.A{"$storeInfo.website", 0}},
		}}},
		{{Key: "$project", Value: bson.M{"_id": 0, "storeInfo": 0}}},
		{{Key: "$sort", Value: bson.M{"price": 1}}},
	}

	cursor, err := s.Collection().Aggregate(ctx, pipe)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []catalogdto.StorePrice{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// CurrentLowestPrice trả về giá thấp nhất hiện tại của sản phẩm và cửa hàng bán.
// Trả về (nil, nil) khi sản phẩm chưa có bản ghi giá nào — caller phải phân biệt
// "chưa có giá" với giá bằng 0, không được hiển thị giá 0 giả.
func (s *PriceRecordService) CurrentLowestPrice(ctx context.Context, productID string) (*catalogdto.StorePrice, error) {
	latest, err := s.LatestPricePerStore(ctx, productID)
	if err != nil {
		return nil, err
	}
	return LowestOf(latest), nil
}

// PriceHistory trả về các điểm giá trong khoảng thời gian, sắp xếp tăng dần theo timestamp.
// Bao gồm cả các bản ghi synthetic do migration tổng hợp (chúng tồn tại chính là để vẽ đường giá).
func (s *PriceRecordService) PriceHistory(ctx context.Context, productID string, period string) ([]catalogdto.HistoryPoint, error) {
	if productID == "" {
		return nil, common.ErrInvalidInput
	}

	floor := PeriodFloor(period, time.Now())
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"productId": productID,
			"timestamp": bson.M{"$gte": floor},
		}}},
		{{Key: "$sort", Value: bson.M{"timestamp": 1}}},
		{{Key: "$project", Value: bson.M{
			"_id":         0,
			"source":      1,
			"storeName":   1,
			"storeBranch": 1,
			"price":       1,
			"timestamp":   1,
		}}},
	}

	cursor, err := s.Collection().Aggregate(ctx, pipe)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []catalogdto.HistoryPoint{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// AppendObservation ghi nhận một quan sát giá mới và trả về bản ghi đã lưu.
// Bản ghi là bất biến sau khi ghi; hiệu chỉnh giá là một quan sát mới với timestamp mới hơn.
func (s *PriceRecordService) AppendObservation(ctx context.Context, record catalogmodels.PriceRecord) (catalogmodels.PriceRecord, error) {
	if record.ProductID == "" || record.StoreName == "" {
		return catalogmodels.PriceRecord{}, common.ErrInvalidInput
	}
	if record.Price <= 0 {
		return catalogmodels.PriceRecord{}, common.NewError(
			common.ErrCodeValidationInput,
			"Giá quan sát phải là số dương",
			common.StatusBadRequest,
			nil,
		)
	}
	if record.Timestamp == 0 {
		record.Timestamp = utility.CurrentTimeInMilli()
	}
	return s.BaseServiceMongoImpl.InsertOne(ctx, record)
}

// reduceLatestPerStore là bản thuần in-memory của LatestPricePerStore, dùng cho dữ liệu
// fixture và cho các phép tính trên tập bản ghi đã nằm sẵn trong bộ nhớ (ví dụ migration).
// Giữ nguyên ngữ nghĩa pipeline: với mỗi (storeName, storeBranch) lấy bản ghi có timestamp
// lớn nhất; timestamp bằng nhau thì bản ghi gặp trước thắng (thứ tự ổn định theo input).
func reduceLatestPerStore(records []catalogmodels.PriceRecord) []catalogdto.StorePrice {
	type storeKey struct {
		name   string
		branch string
	}

	latest := map[storeKey]catalogmodels.PriceRecord{}
	order := []storeKey{}
	for _, r := range records {
		key := storeKey{name: r.StoreName, branch: r.StoreBranch}
		current, seen := latest[key]
		if !seen {
			latest[key] = r
			order = append(order, key)
			continue
		}
		if r.Timestamp > current.Timestamp {
			latest[key] = r
		}
	}

	results := make([]catalogdto.StorePrice, 0, len(order))
	for _, key := range order {
		r := latest[key]
		results = append(results, catalogdto.StorePrice{
			StoreName:   r.StoreName,
			StoreBranch: r.StoreBranch,
			Source:      r.Source,
			Price:       r.Price,
			InStock:     r.InStock,
			Timestamp:   r.Timestamp,
		})
	}
	return results
}

// LowestOf trả về phần tử giá thấp nhất trong danh sách, nil nếu danh sách rỗng
func LowestOf(prices []catalogdto.StorePrice) *catalogdto.StorePrice {
	if len(prices) == 0 {
		return nil
	}
	best := prices[0]
	for _, p := range prices[1:] {
		if p.Price < best.Price {
			best = p
		}
	}
	return &best
}
