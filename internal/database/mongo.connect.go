package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"price_pulse/config"
	"price_pulse/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetInstance initializes and returns a *mongo.Client object.
// This function uses the database connection URL from the provided configuration.
//
// Parameters:
// - c: Pointer to the config.Configuration object containing configuration information.
//
// Returns:
// - *mongo.Client: The connected MongoDB client object.
//
// Notes:
// - This function will log and return an error if there is an issue during connection or connection check.
func GetInstance(c *config.Configuration) (*mongo.Client, error) {
	if c.MongoDB_ConnectionURI == "" {
		return nil, fmt.Errorf("database connection URL is empty")
	}

	// Cài đặt các options cho client
	clientOptions := options.Client().ApplyURI(c.MongoDB_ConnectionURI).
		SetMaxPoolSize(50).                 // Giới hạn tối đa 50 connections
		SetMinPoolSize(10).                 // Giữ tối thiểu 10 connections trong pool
		SetConnectTimeout(5 * time.Second). // Timeout khi kết nối
		SetSocketTimeout(10 * time.Second)  // Timeout khi gửi nhận dữ liệu

	// Kết nối thử với MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tạo client
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Kiểm tra kết nối
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelPing()

	err = client.Ping(ctxPing, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.GetAppLogger().Info("Successfully connected to MongoDB")
	return client, nil
}

// CloseInstance closes the MongoDB client connection.
func CloseInstance(client *mongo.Client) error {
	if err := client.Disconnect(context.TODO()); err != nil {
		logger.GetAppLogger().WithError(err).Error("Failed to disconnect MongoDB client")
		return err
	}
	logger.GetAppLogger().Info("Successfully disconnected from MongoDB")
	return nil
}

// ==========================================================================
// Lazy connection — kết nối MongoDB chỉ được mở khi có request đầu tiên cần
// tới database, và nhiều goroutine cùng yêu cầu sẽ chia sẻ một lần kết nối.
// ==========================================================================

// ConnState là trạng thái vòng đời của LazyClient
type ConnState int32

const (
	StateUninitialized ConnState = iota // Chưa có lần kết nối nào
	StateConnecting                     // Đang có một lần kết nối in-flight
	StateConnected                      // Đã kết nối thành công
	StateFailed                         // Lần kết nối gần nhất thất bại (giữ nguyên đến khi Reset)
)

// String trả về tên trạng thái để ghi log
func (s ConnState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ConnectFunc là hàm mở kết nối thực sự. Tách ra để test có thể inject
// một hàm giả lập thay vì kết nối MongoDB thật.
type ConnectFunc func(c *config.Configuration) (*mongo.Client, error)

// LazyClient quản lý một *mongo.Client được khởi tạo lười (lazy).
// Goroutine đầu tiên gọi GetClient sẽ khởi động kết nối; các goroutine
// khác gọi trong lúc đang kết nối sẽ đợi chung kết quả thay vì mở thêm
// kết nối mới (single-flight).
//
// Thread-safety: Safe for concurrent use
type LazyClient struct {
	mu      sync.Mutex
	state   ConnState
	client  *mongo.Client
	err     error
	done    chan struct{} // Đóng khi lần kết nối in-flight hoàn tất
	connect ConnectFunc
	cfg     *config.Configuration
}

// NewLazyClient tạo LazyClient mới. Nếu connect là nil, dùng GetInstance.
func NewLazyClient(cfg *config.Configuration, connect ConnectFunc) *LazyClient {
	if connect == nil {
		connect = GetInstance
	}
	return &LazyClient{
		state:   StateUninitialized,
		connect: connect,
		cfg:     cfg,
	}
}

// State trả về trạng thái hiện tại (dùng cho health check)
func (l *LazyClient) State() ConnState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// GetClient trả về client đã kết nối, khởi động kết nối nếu cần.
// Nếu trạng thái là Failed, trả về lỗi đã cache mà không thử kết nối lại
// (gọi Reset để cho phép thử lại).
func (l *LazyClient) GetClient(ctx context.Context) (*mongo.Client, error) {
	l.mu.Lock()

	switch l.state {
	case StateConnected:
		client := l.client
		l.mu.Unlock()
		return client, nil

	case StateFailed:
		err := l.err
		l.mu.Unlock()
		return nil, err

	case StateUninitialized:
		// Goroutine này là goroutine khởi động kết nối
		l.state = StateConnecting
		l.done = make(chan struct{})
		done := l.done
		l.mu.Unlock()

		// Chạy kết nối trong goroutine riêng để caller vẫn tôn trọng ctx.
		// Lần kết nối không gắn với ctx của một caller cụ thể: caller hủy
		// giữa chừng không được làm hỏng kết quả cho các caller khác.
		go func() {
			client, err := l.connect(l.cfg)

			l.mu.Lock()
			if err != nil {
				l.state = StateFailed
				l.err = err
				logger.GetAppLogger().WithError(err).Error("Lazy MongoDB connection failed")
			} else {
				l.state = StateConnected
				l.client = client
			}
			l.mu.Unlock()

			close(done)
		}()

		return l.waitForResult(ctx, done)

	default: // StateConnecting
		done := l.done
		l.mu.Unlock()
		return l.waitForResult(ctx, done)
	}
}

// waitForResult đợi lần kết nối in-flight hoàn tất hoặc ctx bị hủy
func (l *LazyClient) waitForResult(ctx context.Context, done chan struct{}) (*mongo.Client, error) {
	select {
	case <-done:
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.state == StateConnected {
			return l.client, nil
		}
		return nil, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reset xóa trạng thái Failed để lần GetClient tiếp theo thử kết nối lại.
// Trả về true nếu trạng thái đã được reset, false nếu không ở trạng thái Failed.
func (l *LazyClient) Reset() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateFailed {
		return false
	}

	l.state = StateUninitialized
	l.err = nil
	l.done = nil
	return true
}

// defaultLazy là slot kết nối lười dùng chung cho cả process: tạo một lần
// khi khởi động, các tầng khác truy cập qua DefaultLazyClient.
var (
	defaultLazy   *LazyClient
	defaultLazyMu sync.Mutex
)

// SetDefaultLazyClient đặt LazyClient dùng chung cho process
func SetDefaultLazyClient(l *LazyClient) {
	defaultLazyMu.Lock()
	defer defaultLazyMu.Unlock()
	defaultLazy = l
}

// DefaultLazyClient trả về LazyClient dùng chung, nil nếu chưa được đặt
func DefaultLazyClient() *LazyClient {
	defaultLazyMu.Lock()
	defer defaultLazyMu.Unlock()
	return defaultLazy
}

// Close đóng client nếu đã kết nối và đưa LazyClient về trạng thái ban đầu
func (l *LazyClient) Close() error {
	l.mu.Lock()
	client := l.client
	l.state = StateUninitialized
	l.client = nil
	l.err = nil
	l.done = nil
	l.mu.Unlock()

	if client != nil {
		return CloseInstance(client)
	}
	return nil
}
