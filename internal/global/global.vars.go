package global

import (
	"price_pulse/config"
	"price_pulse/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_Catalog_CollectionName chứa tên các collection trong MongoDB
type MongoDB_Catalog_CollectionName struct {
	Products     string // Tên collection cho sản phẩm
	Stores       string // Tên collection cho cửa hàng
	PriceRecords string // Tên collection cho lịch sử giá
}

// Các biến toàn cục
var Validate *validator.Validate                                                          // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                                         // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration                                            // Cấu hình của server
var MongoDB_ColNames MongoDB_Catalog_CollectionName = *new(MongoDB_Catalog_CollectionName) // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
