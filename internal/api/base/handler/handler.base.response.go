package basehdl

import (
	"errors"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"

	"price_pulse/internal/common"
)

// JSONResponse ghi response dạng JSON với charset utf-8
func (h *BaseHandler[T, CreateInput, UpdateInput]) JSONResponse(c fiber.Ctx, statusCode int, data fiber.Map) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// SafeHandler bọc các thao tác trong handler với recover để xử lý panic
func (h *BaseHandler[T, CreateInput, UpdateInput]) SafeHandler(c fiber.Ctx, fn func() error) error {
	defer func() {
		if r := recover(); r != nil {
			// Log stack trace để phục vụ điều tra lỗi
			debug.PrintStack()
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				common.MsgInternalError,
				common.StatusInternalServerError,
				nil,
			))
		}
	}()
	return fn()
}

// SafeHandlerWrapper tạo một Fiber handler được bọc SafeHandler sẵn
func (h *BaseHandler[T, CreateInput, UpdateInput]) SafeHandlerWrapper(fn func(c fiber.Ctx) error) fiber.Handler {
	return func(c fiber.Ctx) error {
		return h.SafeHandler(c, func() error {
			return fn(c)
		})
	}
}

// HandleResponse xử lý và trả về response thống nhất cho client.
// Nếu có lỗi, trả về envelope lỗi với mã lỗi và thông điệp tương ứng.
// Nếu thành công, trả về envelope thành công với dữ liệu.
func (h *BaseHandler[T, CreateInput, UpdateInput]) HandleResponse(c fiber.Ctx, data interface{}, err error) error {
	if err != nil {
		var customErr *common.Error
		if errors.As(err, &customErr) {
			return h.JSONResponse(c, customErr.StatusCode, fiber.Map{
				"code":    customErr.Code.Code,
				"message": customErr.Message,
				"details": customErr.Details,
				"status":  "error",
			})
		}

		// Lỗi không xác định
		return h.JSONResponse(c, common.StatusInternalServerError, fiber.Map{
			"code":    common.ErrCodeInternalServer.Code,
			"message": common.MsgInternalError,
			"details": err.Error(),
			"status":  "error",
		})
	}

	return h.JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}
