package catalogsvc

import (
	"context"
	"time"

	"price_pulse/internal/logger"
)

// DefaultReadTimeout là ngưỡng chờ mặc định cho một phép đọc
const DefaultReadTimeout = 5 * time.Second

// FallbackPolicy quyết định hành vi khi phép đọc thất bại hoặc quá hạn
type FallbackPolicy int

const (
	// FallbackToFixtures trả về dữ liệu fixture xác định (cấu hình development)
	FallbackToFixtures FallbackPolicy = iota
	// FallbackToEmpty trả về giá trị rỗng trung tính (cấu hình production)
	FallbackToEmpty
)

// opResult gom kết quả của phép đọc để đẩy qua channel
type opResult[T any] struct {
	value T
	err   error
}

// RunWithFallback chạy phép đọc op đua với timeout. Khi op lỗi hoặc quá hạn:
// policy FallbackToFixtures trả về fallback(), policy FallbackToEmpty trả về
// giá trị zero của T. Caller không bao giờ nhận lỗi qua biên này và không bao
// giờ bị treo quá timeout cộng chi phí của nhánh fallback.
//
// Channel kết quả có buffer 1 nên op bị bỏ rơi vẫn chạy xong ở nền rồi kết thúc
// goroutine bình thường, kết quả bị vứt — không tích tụ goroutine kẹt gửi.
// Timeout là cuộc đua theo từng lần gọi, không truyền cancel xuống driver storage.
func RunWithFallback[T any](ctx context.Context, name string, timeout time.Duration, policy FallbackPolicy, op func(ctx context.Context) (T, error), fallback func() T) T {
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}

	resultChan := make(chan opResult[T], 1)
	go func() {
		value, err := op(ctx)
		resultChan <- opResult[T]{value: value, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-resultChan:
		if result.err == nil {
			return result.value
		}
		logger.GetAppLogger().WithError(result.err).Warnf("Phép đọc %s thất bại, chuyển sang fallback", name)
	case <-timer.C:
		logger.GetAppLogger().Warnf("Phép đọc %s quá hạn %s, chuyển sang fallback", name, timeout)
	case <-ctx.Done():
		logger.GetAppLogger().Warnf("Phép đọc %s bị hủy bởi caller, chuyển sang fallback", name)
	}

	if policy == FallbackToFixtures && fallback != nil {
		return fallback()
	}
	var empty T
	return empty
}
