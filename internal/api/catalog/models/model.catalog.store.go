package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các loại cửa hàng được hỗ trợ
const (
	StoreTypeOnline = "online" // Sàn thương mại điện tử
	StoreTypeLocal  = "local"  // Cửa hàng vật lý
)

// Store lưu thông tin nguồn bán hàng (sàn online hoặc chi nhánh cửa hàng vật lý)
// Cặp (name, branch) là duy nhất: hai bản ghi cùng tên và chi nhánh là cùng một cửa hàng
// Collection: stores
type Store struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" index:"compound:name_branch_unique"`
	Branch    string             `json:"branch" bson:"branch" index:"compound:name_branch_unique"` // Chuỗi rỗng với cửa hàng online
	Type      string             `json:"type" bson:"type" index:"single:1"`                        // "online" hoặc "local"
	Address   string             `json:"address,omitempty" bson:"address,omitempty"`               // Bắt buộc với cửa hàng local
	Website   string             `json:"website,omitempty" bson:"website,omitempty"`               // Bắt buộc với cửa hàng online
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
