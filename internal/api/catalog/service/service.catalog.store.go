package catalogsvc

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	catalogmodels "price_pulse/internal/api/catalog/models"
	basesvc "price_pulse/internal/api/base/service"
	"price_pulse/internal/common"
	"price_pulse/internal/global"
)

// StoreService là cấu trúc chứa các phương thức liên quan đến registry cửa hàng
type StoreService struct {
	*basesvc.BaseServiceMongoImpl[catalogmodels.Store]
}

// NewStoreService tạo mới StoreService
func NewStoreService() (*StoreService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Stores)
	if !exist {
		return nil, fmt.Errorf("failed to get stores collection: %v", common.ErrNotFound)
	}
	return &StoreService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[catalogmodels.Store](coll),
	}, nil
}

// FindByNameAndBranch tìm cửa hàng theo cặp khóa (name, branch).
// Trả về common.ErrNotFound nếu chưa có cửa hàng nào khớp.
func (s *StoreService) FindByNameAndBranch(ctx context.Context, name string, branch string) (catalogmodels.Store, error) {
	filter := bson.M{"name": name, "branch": branch}
	return s.BaseServiceMongoImpl.FindOne(ctx, filter, nil)
}

// EnsureStore đảm bảo cửa hàng (name, branch) tồn tại trong registry.
// Cửa hàng được tạo lần đầu khi quan sát thấy một cặp (name, branch) mới;
// sau khi tạo thì không sửa đổi trong luồng bình thường.
func (s *StoreService) EnsureStore(ctx context.Context, store catalogmodels.Store) (catalogmodels.Store, error) {
	existing, err := s.FindByNameAndBranch(ctx, store.Name, store.Branch)
	if err == nil {
		return existing, nil
	}
	if !isNotFound(err) {
		return catalogmodels.Store{}, err
	}
	return s.BaseServiceMongoImpl.InsertOne(ctx, store)
}

// isNotFound kiểm tra lỗi có phải là not-found hay không
func isNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}
