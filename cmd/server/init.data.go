package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	catalogmodels "price_pulse/internal/api/catalog/models"
	catalogsvc "price_pulse/internal/api/catalog/service"
	"price_pulse/internal/global"
)

// Hàm khởi tạo dữ liệu mặc định.
// Chỉ chạy khi INITMODE bật (môi trường development): nạp danh mục fixture
// vào database để có dữ liệu thử ngay. Bỏ qua sản phẩm đã tồn tại nên chạy
// lại nhiều lần không tạo bản ghi trùng.
func InitDefaultData() {
	if global.MongoDB_ServerConfig == nil || !global.MongoDB_ServerConfig.InitMode {
		return
	}

	ctx := context.Background()

	productService, err := catalogsvc.NewProductService()
	if err != nil {
		logrus.Fatalf("Failed to create product service: %v", err)
	}
	storeService, err := catalogsvc.NewStoreService()
	if err != nil {
		logrus.Fatalf("Failed to create store service: %v", err)
	}

	seeded := 0
	for _, item := range catalogsvc.FixtureCatalog() {
		exists, err := productService.DocumentExists(ctx, bson.M{"id": item.Product.ProductID})
		if err != nil {
			logrus.Fatalf("Failed to check product %s: %v", item.Product.ProductID, err)
		}
		if exists {
			continue
		}

		product := item.Product
		if _, err := productService.InsertOne(ctx, product); err != nil {
			logrus.Fatalf("Failed to insert product %s: %v", product.ProductID, err)
		}

		for _, offer := range item.Offers {
			if _, err := storeService.EnsureStore(ctx, catalogmodels.Store{
				Name:    offer.StoreName,
				Branch:  offer.StoreBranch,
				Type:    offer.StoreType,
				Address: offer.Address,
				Website: offer.Website,
			}); err != nil {
				logrus.Fatalf("Failed to ensure store %s: %v", offer.StoreName, err)
			}

			if _, err := productService.RecordObservation(ctx, catalogmodels.PriceRecord{
				ProductID:   product.ProductID,
				StoreName:   offer.StoreName,
				StoreBranch: offer.StoreBranch,
				Source:      offer.Source,
				Price:       offer.Price,
				InStock:     offer.InStock,
				Timestamp:   offer.Timestamp,
			}); err != nil {
				logrus.Fatalf("Failed to record price for %s at %s: %v", product.ProductID, offer.StoreName, err)
			}
		}
		seeded++
	}

	logrus.Infof("Initialized default data, seeded %d products", seeded)
}
