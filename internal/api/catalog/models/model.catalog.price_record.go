package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các nguồn quan sát giá được hỗ trợ
const (
	PriceSourceAmazon   = "amazon"
	PriceSourceFlipkart = "flipkart"
	PriceSourceLocal    = "local"
)

// PriceRecord là một quan sát giá bất biến của một sản phẩm tại một cửa hàng.
// Log dạng append-only: không bao giờ update hay delete — mọi hiệu chỉnh là
// một bản ghi mới với timestamp mới hơn. Với mỗi cặp (productId, cửa hàng),
// bản ghi có timestamp lớn nhất là giá "hiện tại" của cửa hàng đó.
// Collection: price_records
type PriceRecord struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProductID   string             `json:"productId" bson:"productId" index:"compound:productId_timestamp"` // Tham chiếu Product.ProductID (khóa ứng dụng)
	StoreName   string             `json:"storeName" bson:"storeName"`                                      // Tên cửa hàng tại thời điểm quan sát (giữ nguyên kể cả khi registry đổi tên)
	StoreBranch string             `json:"storeBranch" bson:"storeBranch"`                                  // Chuỗi rỗng với nguồn online
	Source      string             `json:"source" bson:"source"`                                            // "amazon", "flipkart" hoặc "local"
	Price       float64            `json:"price" bson:"price"`                                              // Luôn dương
	InStock     bool               `json:"inStock" bson:"inStock"`
	Timestamp   int64              `json:"timestamp" bson:"timestamp" index:"compound:productId_timestamp,order:-1;single:1,order:-1"` // Unix milliseconds
	Synthetic   bool               `json:"synthetic,omitempty" bson:"synthetic,omitempty"`                                      // true với bản ghi lịch sử do migration tổng hợp, để có thể dọn sau này
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}
