package main

import (
	"github.com/sirupsen/logrus"

	"price_pulse/internal/global"
)

// Hàm khởi tạo các registry
func InitRegistry() {
	initCollections()
}

// Hàm đăng ký các collection vào registry để các service lấy ra dùng
func initCollections() {
	db := global.MongoDB_Session.Database(global.MongoDB_ServerConfig.MongoDB_DBName)

	if _, err := global.RegistryDatabase.Register(global.MongoDB_ServerConfig.MongoDB_DBName, db); err != nil {
		logrus.Fatalf("Failed to register database: %v", err)
	}

	for _, name := range []string{
		global.MongoDB_ColNames.Products,
		global.MongoDB_ColNames.Stores,
		global.MongoDB_ColNames.PriceRecords,
	} {
		if _, err := global.RegistryCollections.Register(name, db.Collection(name)); err != nil {
			logrus.Fatalf("Failed to register collection %s: %v", name, err)
		}
	}

	logrus.Info("Registered collections")
}
