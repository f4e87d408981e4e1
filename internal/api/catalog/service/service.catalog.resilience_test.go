// Package catalogsvc - Test lớp chống chịu lỗi bọc các phép đọc.
package catalogsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunWithFallback_SuccessPassesThrough(t *testing.T) {
	result := RunWithFallback(context.Background(), "test_op", time.Second, FallbackToFixtures,
		func(ctx context.Context) ([]string, error) {
			return []string{"a", "b"}, nil
		},
		func() []string { return []string{"fallback"} },
	)
	assert.Equal(t, []string{"a", "b"}, result)
}

func TestRunWithFallback_ErrorUsesFixtures(t *testing.T) {
	result := RunWithFallback(context.Background(), "test_op", time.Second, FallbackToFixtures,
		func(ctx context.Context) ([]string, error) {
			return nil, errors.New("database down")
		},
		func() []string { return []string{"fallback"} },
	)
	assert.Equal(t, []string{"fallback"}, result, "policy fixtures phải trả về dữ liệu fallback khi op lỗi")
}

func TestRunWithFallback_ErrorWithEmptyPolicy(t *testing.T) {
	result := RunWithFallback(context.Background(), "test_op", time.Second, FallbackToEmpty,
		func(ctx context.Context) ([]string, error) {
			return nil, errors.New("database down")
		},
		func() []string { return []string{"fallback"} },
	)
	assert.Nil(t, result, "policy empty phải trả về giá trị zero, bỏ qua hàm fallback")
}

func TestRunWithFallback_TimeoutBoundsLatency(t *testing.T) {
	blocked := make(chan struct{})
	defer close(blocked)

	start := time.Now()
	result := RunWithFallback(context.Background(), "test_op", 50*time.Millisecond, FallbackToFixtures,
		func(ctx context.Context) (string, error) {
			<-blocked // op treo vô hạn
			return "never", nil
		},
		func() string { return "fallback" },
	)
	elapsed := time.Since(start)

	assert.Equal(t, "fallback", result)
	assert.Less(t, elapsed, time.Second, "caller không được treo quá timeout cộng chi phí fallback")
}

func TestRunWithFallback_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	blocked := make(chan struct{})
	defer close(blocked)

	result := RunWithFallback(ctx, "test_op", time.Minute, FallbackToFixtures,
		func(ctx context.Context) (int, error) {
			<-blocked
			return 42, nil
		},
		func() int { return -1 },
	)
	assert.Equal(t, -1, result, "ctx bị hủy phải rơi sang fallback, không đợi hết timeout")
}

func TestRunWithFallback_NilFallbackReturnsZero(t *testing.T) {
	result := RunWithFallback[[]string](context.Background(), "test_op", time.Second, FallbackToFixtures,
		func(ctx context.Context) ([]string, error) {
			return nil, errors.New("boom")
		},
		nil,
	)
	assert.Nil(t, result)
}

func TestRunWithFallback_ZeroTimeoutUsesDefault(t *testing.T) {
	// timeout <= 0 dùng DefaultReadTimeout thay vì chuyển thẳng sang fallback
	result := RunWithFallback(context.Background(), "test_op", 0, FallbackToEmpty,
		func(ctx context.Context) (string, error) {
			return "ok", nil
		},
		nil,
	)
	assert.Equal(t, "ok", result)
}
