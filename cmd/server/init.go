package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"price_pulse/config"
	catalogmodels "price_pulse/internal/api/catalog/models"
	"price_pulse/internal/database"
	"price_pulse/internal/global"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Products = "products"
	global.MongoDB_ColNames.Stores = "stores"
	global.MongoDB_ColNames.PriceRecords = "price_records"

	logrus.Info("Initialized collection names")
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators: no_xss, period, object_id)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database.
// Kết nối được quản lý qua LazyClient: một slot duy nhất cho cả process,
// các goroutine gọi đồng thời trong lúc đang kết nối sẽ đợi chung một lần
// kết nối in-flight. Startup là "first use" nên kết nối mở ngay tại đây.
func initDatabase_MongoDB() {
	lazy := database.NewLazyClient(global.MongoDB_ServerConfig, nil)
	database.SetDefaultLazyClient(lazy)

	var err error
	global.MongoDB_Session, err = lazy.GetClient(context.Background())
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Khởi tạo các db và collections nếu chưa có
	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	// Khởi tạo các index cho các collection
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	for _, target := range []struct {
		name  string
		model interface{}
	}{
		{global.MongoDB_ColNames.Products, catalogmodels.Product{}},
		{global.MongoDB_ColNames.Stores, catalogmodels.Store{}},
		{global.MongoDB_ColNames.PriceRecords, catalogmodels.PriceRecord{}},
	} {
		if err := database.CreateIndexes(context.TODO(), db.Collection(target.name), target.model); err != nil {
			logrus.Fatalf("Failed to create indexes for %s: %v", target.name, err)
		}
	}
	logrus.Info("Created indexes")
}
