package cataloghdl

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	basehdl "price_pulse/internal/api/base/handler"
	catalogdto "price_pulse/internal/api/catalog/dto"
	catalogmodels "price_pulse/internal/api/catalog/models"
	catalogsvc "price_pulse/internal/api/catalog/service"
	"price_pulse/internal/common"
	"price_pulse/internal/global"
	"price_pulse/internal/utility"
)

// errEmptyProductID lỗi khi URL thiếu định danh sản phẩm
func errEmptyProductID() error {
	return common.NewError(
		common.ErrCodeValidationInput,
		"Định danh sản phẩm không được để trống",
		common.StatusBadRequest,
		nil,
	)
}

// errProductNotFound lỗi khi không tìm thấy sản phẩm theo định danh
func errProductNotFound(id string) error {
	return common.NewError(
		common.ErrCodeDatabaseQuery,
		fmt.Sprintf("Không tìm thấy sản phẩm với định danh '%s'", id),
		common.StatusNotFound,
		nil,
	)
}

// ProductHandler xử lý các route liên quan đến sản phẩm.
// Mọi đường đọc đều đi qua wrapper chống treo: đua với timeout, khi lỗi hoặc
// quá hạn thì môi trường development trả về dữ liệu fixture, môi trường
// production trả về kết quả rỗng — không bao giờ đẩy lỗi storage ra client.
type ProductHandler struct {
	*basehdl.BaseHandler[catalogmodels.Product, catalogdto.PriceObservationInput, catalogdto.PriceObservationInput]
	ProductService *catalogsvc.ProductService
}

// NewProductHandler tạo ProductHandler mới
func NewProductHandler() (*ProductHandler, error) {
	service, err := catalogsvc.NewProductService()
	if err != nil {
		return nil, fmt.Errorf("failed to create product service: %v", err)
	}
	hdl := &ProductHandler{ProductService: service}
	hdl.BaseHandler = basehdl.NewBaseHandler[catalogmodels.Product, catalogdto.PriceObservationInput, catalogdto.PriceObservationInput](service.BaseServiceMongoImpl)
	return hdl, nil
}

// readTimeout lấy ngưỡng chờ cho một phép đọc từ cấu hình
func readTimeout() time.Duration {
	if cfg := global.MongoDB_ServerConfig; cfg != nil && cfg.QueryTimeoutSeconds > 0 {
		return time.Duration(cfg.QueryTimeoutSeconds) * time.Second
	}
	return catalogsvc.DefaultReadTimeout
}

// fallbackPolicy chọn chính sách fallback theo môi trường chạy
func fallbackPolicy() catalogsvc.FallbackPolicy {
	if cfg := global.MongoDB_ServerConfig; cfg != nil && cfg.IsProduction() {
		return catalogsvc.FallbackToEmpty
	}
	return catalogsvc.FallbackToFixtures
}

// HandleSearch tìm kiếm sản phẩm theo từ khóa và bộ lọc tùy chọn.
// GET /api/v1/products/search?q=&brand=&category=&minPrice=&maxPrice=
func (h *ProductHandler) HandleSearch(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var query catalogdto.ProductSearchQuery
		if err := h.ParseRequestQuery(c, &query); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		filter := catalogsvc.ProductSearchFilter{
			Query:    query.Query,
			Brand:    query.Brand,
			Category: query.Category,
			MinPrice: utility.P2Float64(query.MinPrice),
			MaxPrice: utility.P2Float64(query.MaxPrice),
		}

		results := catalogsvc.RunWithFallback(c.Context(), "product_search", readTimeout(), fallbackPolicy(),
			func(ctx context.Context) ([]catalogdto.ProductWithView, error) {
				return h.ProductService.Search(ctx, filter)
			},
			func() []catalogdto.ProductWithView {
				return catalogsvc.FixtureProductsWithViews(filter.Query)
			},
		)
		if results == nil {
			results = []catalogdto.ProductWithView{}
		}
		h.HandleResponse(c, results, nil)
		return nil
	})
}

// HandleTrending trả về các sản phẩm nổi bật cho trang chủ.
// GET /api/v1/products/trending
func (h *ProductHandler) HandleTrending(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		results := catalogsvc.RunWithFallback(c.Context(), "product_trending", readTimeout(), fallbackPolicy(),
			func(ctx context.Context) ([]catalogdto.ProductWithView, error) {
				return h.ProductService.Trending(ctx)
			},
			func() []catalogdto.ProductWithView {
				return catalogsvc.FixtureProductsWithViews("")
			},
		)
		if results == nil {
			results = []catalogdto.ProductWithView{}
		}
		h.HandleResponse(c, results, nil)
		return nil
	})
}

// HandleFetch trả về sản phẩm canonical kèm bản tổng hợp giá.
// Định danh thử lần lượt khóa ứng dụng rồi _id gốc.
// GET /api/v1/products/:id
func (h *ProductHandler) HandleFetch(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := c.Params("id")
		if id == "" {
			h.HandleResponse(c, nil, errEmptyProductID())
			return nil
		}

		result := catalogsvc.RunWithFallback(c.Context(), "product_fetch", readTimeout(), fallbackPolicy(),
			func(ctx context.Context) (*catalogdto.ProductWithView, error) {
				item, err := h.ProductService.FetchWithView(ctx, id)
				if err != nil {
					return nil, err
				}
				return &item, nil
			},
			func() *catalogdto.ProductWithView {
				return catalogsvc.FixtureProductWithView(id)
			},
		)
		if result == nil {
			h.HandleResponse(c, nil, errProductNotFound(id))
			return nil
		}
		h.HandleResponse(c, result, nil)
		return nil
	})
}

// HandlePriceHistory trả về đường giá lịch sử của sản phẩm trong khoảng thời gian.
// Period không hợp lệ hoặc vắng mặt dùng mặc định 6 tháng.
// GET /api/v1/products/:id/price-history?period=1m|3m|6m|1y|all
func (h *ProductHandler) HandlePriceHistory(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := c.Params("id")
		if id == "" {
			h.HandleResponse(c, nil, errEmptyProductID())
			return nil
		}

		// Period không hợp lệ dùng mặc định thay vì trả lỗi
		var query catalogdto.PriceHistoryQuery
		period := catalogsvc.DefaultPeriod
		if err := h.ParseRequestQuery(c, &query); err == nil && query.Period != "" {
			period = query.Period
		}

		points := catalogsvc.RunWithFallback(c.Context(), "price_history", readTimeout(), fallbackPolicy(),
			func(ctx context.Context) ([]catalogdto.HistoryPoint, error) {
				product, err := h.ProductService.FindByAnyID(ctx, id)
				if err != nil {
					return nil, err
				}
				return h.ProductService.PriceService().PriceHistory(ctx, product.ProductID, period)
			},
			func() []catalogdto.HistoryPoint {
				return catalogsvc.FixtureHistory(id, period)
			},
		)
		if points == nil {
			points = []catalogdto.HistoryPoint{}
		}
		h.HandleResponse(c, fiber.Map{"period": period, "points": points}, nil)
		return nil
	})
}

// HandleUpsertPrice ghi nhận một quan sát giá mới và cập nhật ngay giá sản phẩm.
// Đường ghi không đi qua wrapper fallback: lỗi ghi phải trả về cho client.
// POST /api/v1/products/upsert-price
func (h *ProductHandler) HandleUpsertPrice(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input catalogdto.PriceObservationInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		record := catalogmodels.PriceRecord{
			ProductID:   input.ProductID,
			StoreName:   input.StoreName,
			StoreBranch: input.StoreBranch,
			Source:      input.Source,
			Price:       input.Price,
			InStock:     input.InStock,
			Timestamp:   input.Timestamp,
		}
		saved, err := h.ProductService.RecordObservation(c.Context(), record)
		h.HandleResponse(c, saved, err)
		return nil
	})
}
