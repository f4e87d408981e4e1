package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductReviews chứa thông tin đánh giá tổng hợp của sản phẩm
type ProductReviews struct {
	Rating float64 `json:"rating" bson:"rating"` // Điểm đánh giá trung bình (0-5)
	Count  int64   `json:"count" bson:"count"`   // Số lượng đánh giá
}

// Product lưu thông tin sản phẩm đã được chuẩn hóa
// Collection: products
type Product struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProductID      string             `json:"productId" bson:"id" index:"unique,sparse"` // Khóa định danh ổn định ở mức ứng dụng (khác _id của MongoDB)
	Name           string             `json:"name" bson:"name" index:"text"`
	Description    string             `json:"description" bson:"description"`
	Brand          string             `json:"brand" bson:"brand" index:"single:1"`
	Category       string             `json:"category" bson:"category" index:"single:1"`
	Images         []string           `json:"images" bson:"images"`
	Specifications map[string]string  `json:"specifications" bson:"specifications"`
	Reviews        ProductReviews     `json:"reviews" bson:"reviews"`
	CurrentPrice   float64            `json:"currentPrice" bson:"currentPrice" index:"single:1"` // Luôn bằng min(price) trên các bản ghi giá mới nhất theo từng cửa hàng
	OriginalPrice  float64            `json:"originalPrice" bson:"originalPrice"`                // Giá gốc (max trên cùng tập bản ghi)
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}
