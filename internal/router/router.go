// File: internal/router/router.go
package router

import (
	"net/http"

	"cafe-finder/internal/cache"
	"cafe-finder/internal/database"
	"cafe-finder/internal/handler"
	"cafe-finder/internal/handler/auth"
	"cafe-finder/internal/handler/cafes"
	"cafe-finder/internal/handler/likes"
	"cafe-finder/internal/handler/users"
	"cafe-finder/internal/metrics"
	"cafe-finder/internal/middleware"
	"cafe-finder/web"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type Options struct {
	// 開啟後只有管理員能新增、編輯咖啡廳
	RequireAdminForCafeEdits bool
	// CSRF cookie 只經 HTTPS 傳送
	SecureCookies bool
}

var getPost = []string{http.MethodGet, http.MethodPost}

// Setup 註冊所有路由與中介層；cch 可為 nil
func Setup(e *echo.Echo, db database.DB, cch cache.Cache, opts Options) {
	// 表單與按讚 API 的 POST 都需帶 token
	e.Use(middleware.CSRF(opts.SecureCookies))

	// 維運
	e.GET("/healthz", handler.PingHandler(db, cch))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.StaticFS("/static", echo.MustSubFS(web.Static, "static"))

	e.GET("/", handler.HomeHandler())

	// 咖啡廳
	var editGuard []echo.MiddlewareFunc
	if opts.RequireAdminForCafeEdits {
		editGuard = append(editGuard, middleware.RequireAdmin)
	}
	e.GET("/cafes", cafes.ListHandler(db))
	e.Match(getPost, "/cafes/new", cafes.AddHandler(db), editGuard...)
	e.GET("/cafes/:id", cafes.DetailHandler(db))
	e.Match(getPost, "/cafes/:id/edit", cafes.EditHandler(db), editGuard...)

	// 帳號
	e.Match(getPost, "/signup", auth.SignupHandler(db))
	e.Match(getPost, "/login", auth.LoginHandler(db))
	e.POST("/logout", auth.LogoutHandler())

	// 個人資料（需登入）
	e.GET("/profile", users.ProfileHandler(db), middleware.RequireUser)
	e.Match(getPost, "/profile/edit", users.EditProfileHandler(db), middleware.RequireUser)

	// 按讚 API（需登入，未登入回 JSON 錯誤）
	api := e.Group("/api", middleware.RequireUserJSON)
	api.GET("/likes", likes.CheckLikeHandler(db))
	api.POST("/like", likes.LikeHandler(db))
	api.POST("/unlike", likes.UnlikeHandler(db))
}
