package catalogdto

import (
	catalogmodels "price_pulse/internal/api/catalog/models"
)

// StorePrice là giá mới nhất của một sản phẩm tại một cửa hàng.
// Các trường StoreType/Address/Website được join từ registry cửa hàng nếu có;
// khi registry không khớp thì tên/chi nhánh nhúng trong bản ghi giá vẫn là
// dữ liệu hiển thị chính thức.
type StorePrice struct {
	StoreName   string  `json:"storeName" bson:"storeName"`
	StoreBranch string  `json:"storeBranch" bson:"storeBranch"`
	Source      string  `json:"source" bson:"source"`
	Price       float64 `json:"price" bson:"price"`
	InStock     bool    `json:"inStock" bson:"inStock"`
	Timestamp   int64   `json:"timestamp" bson:"timestamp"`
	StoreType   string  `json:"storeType,omitempty" bson:"storeType,omitempty"`
	Address     string  `json:"address,omitempty" bson:"address,omitempty"`
	Website     string  `json:"website,omitempty" bson:"website,omitempty"`
}

// HistoryPoint là một điểm trên đường giá lịch sử của sản phẩm
type HistoryPoint struct {
	Source      string  `json:"source" bson:"source"`
	StoreName   string  `json:"storeName" bson:"storeName"`
	StoreBranch string  `json:"storeBranch" bson:"storeBranch"`
	Price       float64 `json:"price" bson:"price"`
	Timestamp   int64   `json:"timestamp" bson:"timestamp"`
}

// AggregatedView là bản tổng hợp giá của một sản phẩm, tính lại trên mỗi lần đọc.
// CurrentPrice nil nghĩa là "chưa có giá" — phân biệt với giá bằng 0.
type AggregatedView struct {
	CurrentPrice   *float64     `json:"currentPrice"`
	BestStore      *StorePrice  `json:"bestStore"`
	PerStoreLatest []StorePrice `json:"perStoreLatest"`
}

// ProductWithView là sản phẩm chuẩn hóa kèm bản tổng hợp giá
type ProductWithView struct {
	Product catalogmodels.Product `json:"product"`
	View    AggregatedView        `json:"view"`
}
