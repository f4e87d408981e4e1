package catalogdto

// ProductSearchQuery dữ liệu đầu vào cho endpoint tìm kiếm sản phẩm
type ProductSearchQuery struct {
	Query    string `query:"q" json:"q" validate:"omitempty,no_xss,max=200"`
	Brand    string `query:"brand" json:"brand" validate:"omitempty,no_xss,max=100"`
	Category string `query:"category" json:"category" validate:"omitempty,no_xss,max=100"`
	MinPrice string `query:"minPrice" json:"minPrice" validate:"omitempty,numeric"`
	MaxPrice string `query:"maxPrice" json:"maxPrice" validate:"omitempty,numeric"`
}

// PriceHistoryQuery dữ liệu đầu vào cho endpoint lịch sử giá
type PriceHistoryQuery struct {
	Period string `query:"period" json:"period" validate:"period"` // 1m | 3m | 6m | 1y | all; rỗng dùng mặc định 6m
}

// PriceObservationInput dữ liệu đầu vào khi ghi nhận một quan sát giá mới
type PriceObservationInput struct {
	ProductID   string  `json:"productId" validate:"required,max=100"`
	StoreName   string  `json:"storeName" validate:"required,max=200"`
	StoreBranch string  `json:"storeBranch" validate:"omitempty,max=200"` // Rỗng với nguồn online
	Source      string  `json:"source" validate:"required,oneof=amazon flipkart local"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	InStock     bool    `json:"inStock"`
	Timestamp   int64   `json:"timestamp" validate:"omitempty,gte=0"` // Unix milliseconds; 0 nghĩa là dùng thời điểm hiện tại
}
