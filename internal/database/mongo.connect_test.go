// Package database - Test vòng đời kết nối lười: single-flight, trạng thái Failed dính, Reset.
package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"price_pulse/config"
)

func testConfig() *config.Configuration {
	return &config.Configuration{
		MongoDB_ConnectionURI: "mongodb://localhost:27017",
		MongoDB_DBName:        "price_pulse_test",
	}
}

func TestLazyClient_SingleFlight(t *testing.T) {
	var attempts int32
	release := make(chan struct{})

	lazy := NewLazyClient(testConfig(), func(c *config.Configuration) (*mongo.Client, error) {
		atomic.AddInt32(&attempts, 1)
		<-release // giữ kết nối in-flight để các goroutine khác dồn vào đợi
		return &mongo.Client{}, nil
	})

	const callers = 20
	var wg sync.WaitGroup
	results := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = lazy.GetClient(context.Background())
		}(i)
	}

	// Đợi tất cả caller vào trạng thái chờ rồi mới thả kết nối
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StateConnecting, lazy.State())
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "nhiều goroutine đồng thời chỉ được mở một lần kết nối")
	for i, err := range results {
		assert.NoError(t, err, "caller %d phải nhận cùng kết quả của lần kết nối duy nhất", i)
	}
	assert.Equal(t, StateConnected, lazy.State())
}

func TestLazyClient_ConnectedReusesClient(t *testing.T) {
	var attempts int32
	lazy := NewLazyClient(testConfig(), func(c *config.Configuration) (*mongo.Client, error) {
		atomic.AddInt32(&attempts, 1)
		return &mongo.Client{}, nil
	})

	first, err := lazy.GetClient(context.Background())
	require.NoError(t, err)
	second, err := lazy.GetClient(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestLazyClient_FailedStateIsSticky(t *testing.T) {
	var attempts int32
	connErr := errors.New("connection refused")
	lazy := NewLazyClient(testConfig(), func(c *config.Configuration) (*mongo.Client, error) {
		atomic.AddInt32(&attempts, 1)
		return nil, connErr
	})

	_, err := lazy.GetClient(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, lazy.State())

	// Trạng thái Failed dính: gọi lại trả về lỗi đã cache, không thử kết nối lại
	_, err = lazy.GetClient(context.Background())
	require.Error(t, err)
	assert.Equal(t, connErr, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestLazyClient_ResetAllowsRetry(t *testing.T) {
	var attempts int32
	lazy := NewLazyClient(testConfig(), func(c *config.Configuration) (*mongo.Client, error) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return nil, errors.New("tạm thời không kết nối được")
		}
		return &mongo.Client{}, nil
	})

	_, err := lazy.GetClient(context.Background())
	require.Error(t, err)

	assert.True(t, lazy.Reset(), "Reset ở trạng thái Failed phải trả về true")
	assert.Equal(t, StateUninitialized, lazy.State())
	assert.False(t, lazy.Reset(), "Reset khi không ở trạng thái Failed phải trả về false")

	client, err := lazy.GetClient(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestLazyClient_CallerContextCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	lazy := NewLazyClient(testConfig(), func(c *config.Configuration) (*mongo.Client, error) {
		<-release
		return &mongo.Client{}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := lazy.GetClient(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "caller hủy giữa chừng nhận lỗi ctx, không treo theo kết nối")
}

func TestLazyClient_CloseWithoutClient(t *testing.T) {
	lazy := NewLazyClient(testConfig(), func(c *config.Configuration) (*mongo.Client, error) {
		return nil, errors.New("boom")
	})

	_, err := lazy.GetClient(context.Background())
	require.Error(t, err)

	// Close sau lần kết nối thất bại đưa về trạng thái ban đầu, không có client để đóng
	assert.NoError(t, lazy.Close())
	assert.Equal(t, StateUninitialized, lazy.State())
}

func TestDefaultLazyClientSlot(t *testing.T) {
	prev := DefaultLazyClient()
	defer SetDefaultLazyClient(prev)

	lazy := NewLazyClient(testConfig(), func(c *config.Configuration) (*mongo.Client, error) {
		return &mongo.Client{}, nil
	})
	SetDefaultLazyClient(lazy)
	assert.Same(t, lazy, DefaultLazyClient())
}
