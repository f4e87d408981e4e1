package cataloghdl

import (
	"github.com/gofiber/fiber/v3"

	"price_pulse/internal/common"
	"price_pulse/internal/database"
	"price_pulse/internal/global"
)

// HandleHealth trả về trạng thái của service và kết nối database.
// GET /api/v1/health
func HandleHealth(c fiber.Ctx) error {
	dbState := "unconfigured"
	if lazy := database.DefaultLazyClient(); lazy != nil {
		dbState = lazy.State().String()
	}

	environment := ""
	if cfg := global.MongoDB_ServerConfig; cfg != nil {
		environment = cfg.Environment
	}

	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(common.StatusOK).JSON(fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data": fiber.Map{
			"status":      "ok",
			"environment": environment,
			"database":    dbState,
		},
		"status": "success",
	})
}
