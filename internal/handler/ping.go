// File: internal/handler/ping.go
package handler

import (
	"net/http"

	"cafe-finder/internal/api"
	"cafe-finder/internal/cache"
	"cafe-finder/internal/database"

	"github.com/labstack/echo/v4"
)

// PingResponse 健康檢查回應模型
// swagger:model PingResponse
type PingResponse struct {
	// 回應訊息
	Message string `json:"message" example:"pong"`
}

// PingHandler 健康檢查
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫（與已設定的 Redis）連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} PingResponse
// @Failure     503 {object} api.ErrorResponse
// @Router      /healthz [get]
func PingHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "database unhealthy"})
		}
		if cch != nil {
			if err := cch.Ping(ctx).Err(); err != nil {
				return c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "cache unhealthy"})
			}
		}
		return c.JSON(http.StatusOK, PingResponse{Message: "pong"})
	}
}
