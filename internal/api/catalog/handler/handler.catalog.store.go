package cataloghdl

import (
	"fmt"

	basehdl "price_pulse/internal/api/base/handler"
	catalogmodels "price_pulse/internal/api/catalog/models"
	catalogsvc "price_pulse/internal/api/catalog/service"
)

// StoreHandler xử lý các route liên quan đến registry cửa hàng.
// Chỉ expose các operation đọc qua CRUD chung: registry do migration và
// luồng quan sát giá ghi, không sửa tay qua API.
type StoreHandler struct {
	*basehdl.BaseHandler[catalogmodels.Store, catalogmodels.Store, catalogmodels.Store]
	StoreService *catalogsvc.StoreService
}

// NewStoreHandler tạo StoreHandler mới
func NewStoreHandler() (*StoreHandler, error) {
	service, err := catalogsvc.NewStoreService()
	if err != nil {
		return nil, fmt.Errorf("failed to create store service: %v", err)
	}
	hdl := &StoreHandler{StoreService: service}
	hdl.BaseHandler = basehdl.NewBaseHandler[catalogmodels.Store, catalogmodels.Store, catalogmodels.Store](service.BaseServiceMongoImpl)
	return hdl, nil
}
