// Package likes 提供按讚相關的 JSON API
package likes

import (
	"errors"
	"net/http"

	"cafe-finder/internal/api"
	"cafe-finder/internal/database"
	"cafe-finder/internal/metrics"
	"cafe-finder/internal/model"
	"cafe-finder/internal/session"
	"cafe-finder/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	getLike    = store.GetLike
	createLike = store.CreateLike
	deleteLike = store.DeleteLike
	withTx     = database.WithTx
)

// bindCafeID 取得目前使用者與請求中的 cafe_id；錯誤時已寫出回應
func bindCafeID(c echo.Context) (*model.User, int, bool, error) {
	user, ok := session.CurrentUser(c)
	if !ok {
		return nil, 0, false, c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not logged in"})
	}
	var req api.CafeIDRequest
	if err := c.Bind(&req); err != nil || req.CafeID <= 0 {
		return nil, 0, false, c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid cafe_id"})
	}
	return user, req.CafeID, true, nil
}

// CheckLikeHandler 查詢目前使用者是否已按讚
// @Summary     Check like status
// @Description 回傳目前登入者是否對指定咖啡廳按讚
// @Tags        likes
// @Produce     json
// @Param       cafe_id query int true "咖啡廳 ID"
// @Success     200 {object} api.LikesResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /api/likes [get]
func CheckLikeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, cafeID, ok, err := bindCafeID(c)
		if !ok {
			return err
		}
		_, err = getLike(c.Request().Context(), db, user.ID, cafeID)
		switch {
		case err == nil:
			return c.JSON(http.StatusOK, api.LikesResponse{Likes: true})
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusOK, api.LikesResponse{Likes: false})
		default:
			return err
		}
	}
}

// LikeHandler 對咖啡廳按讚，重複按讚不會新增第二筆
// @Summary     Like a cafe
// @Tags        likes
// @Accept      json
// @Produce     json
// @Param       body body api.CafeIDRequest true "目標咖啡廳"
// @Success     200 {object} api.LikedResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /api/like [post]
func LikeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, cafeID, ok, err := bindCafeID(c)
		if !ok {
			return err
		}
		ctx := c.Request().Context()
		err = withTx(ctx, db, func(q database.Querier) error {
			return createLike(ctx, q, user.ID, cafeID)
		})
		if errors.Is(err, store.ErrReference) {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Cafe not found"})
		}
		if err != nil {
			return err
		}
		metrics.RecordLike("like")
		return c.JSON(http.StatusOK, api.LikedResponse{Liked: cafeID})
	}
}

// UnlikeHandler 取消按讚；原本沒按讚也視為成功
// @Summary     Unlike a cafe
// @Tags        likes
// @Accept      json
// @Produce     json
// @Param       body body api.CafeIDRequest true "目標咖啡廳"
// @Success     200 {object} api.UnlikedResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /api/unlike [post]
func UnlikeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, cafeID, ok, err := bindCafeID(c)
		if !ok {
			return err
		}
		ctx := c.Request().Context()
		if err := withTx(ctx, db, func(q database.Querier) error {
			return deleteLike(ctx, q, user.ID, cafeID)
		}); err != nil {
			return err
		}
		metrics.RecordLike("unlike")
		return c.JSON(http.StatusOK, api.UnlikedResponse{Unliked: cafeID})
	}
}
