package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"price_pulse/config"
	catalogsvc "price_pulse/internal/api/catalog/service"
	"price_pulse/internal/database"
	"price_pulse/internal/global"
	"price_pulse/internal/logger"
)

// Binary migrate chạy migration cấu trúc một lần: chuyển tài liệu sản phẩm
// legacy (cửa hàng và giá nhúng trong document) sang lược đồ chuẩn hóa
// Product / Store / PriceRecord. Chạy một lần rồi thoát; exit code khác 0
// nếu migration thất bại.
func main() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	log := logger.GetAppLogger()

	initGlobal()

	migrator, err := catalogsvc.NewMigrator()
	if err != nil {
		log.Errorf("Failed to create migrator: %v", err)
		os.Exit(1)
	}

	report, err := migrator.Run(context.Background())
	if err != nil {
		log.WithError(err).Error("Migration failed")
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"stores":     report.StoresWritten,
		"records":    report.RecordsWritten,
		"products":   report.ProductsRewritten,
		"durationMs": report.FinishedAt - report.StartedAt,
	}).Info("Migration completed")

	if err := database.DefaultLazyClient().Close(); err != nil {
		log.Warnf("Failed to close database connection: %v", err)
	}
}

// initGlobal khởi tạo config, kết nối database và registry cho binary migrate
func initGlobal() {
	global.MongoDB_ColNames.Products = "products"
	global.MongoDB_ColNames.Stores = "stores"
	global.MongoDB_ColNames.PriceRecords = "price_records"

	global.InitValidator()

	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}

	lazy := database.NewLazyClient(global.MongoDB_ServerConfig, nil)
	database.SetDefaultLazyClient(lazy)

	var err error
	global.MongoDB_Session, err = lazy.GetClient(context.Background())
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}

	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}

	db := global.MongoDB_Session.Database(global.MongoDB_ServerConfig.MongoDB_DBName)
	for _, name := range []string{
		global.MongoDB_ColNames.Products,
		global.MongoDB_ColNames.Stores,
		global.MongoDB_ColNames.PriceRecords,
	} {
		if _, err := global.RegistryCollections.Register(name, db.Collection(name)); err != nil {
			logrus.Fatalf("Failed to register collection %s: %v", name, err)
		}
	}
}
