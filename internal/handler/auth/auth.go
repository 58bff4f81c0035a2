// Package auth 處理註冊、登入與登出頁面
package auth

import (
	"errors"
	"fmt"
	"net/http"

	"cafe-finder/internal/database"
	"cafe-finder/internal/forms"
	"cafe-finder/internal/logger"
	"cafe-finder/internal/metrics"
	"cafe-finder/internal/model"
	"cafe-finder/internal/service"
	"cafe-finder/internal/session"
	"cafe-finder/internal/store"

	"github.com/labstack/echo/v4"
)

// 測試可覆寫
var (
	getUserByUsername = store.GetUserByUsername
	createUser        = store.CreateUser
	hashPassword      = service.HashPassword
	authenticateUser  = service.AuthenticateUser
	withTx            = database.WithTx
)

const (
	signupTemplate = "auth/signup-form.html"
	loginTemplate  = "auth/login-form.html"
)

type signupPage struct {
	Form   forms.SignupForm
	Errors forms.Errors
}

type loginPage struct {
	Form   forms.LoginForm
	Errors forms.Errors
}

func bindForm(c echo.Context, form any) (forms.Errors, error) {
	if err := c.Bind(form); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	return forms.Check(c, form), nil
}

// SignupHandler 顯示註冊表單；POST 驗證後建立帳號並直接登入
func SignupHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Method != http.MethodPost {
			return c.Render(http.StatusOK, signupTemplate, signupPage{})
		}

		var form forms.SignupForm
		errs, err := bindForm(c, &form)
		if err != nil {
			return err
		}
		// 密碼不回填
		page := signupPage{Form: form, Errors: errs}
		page.Form.Password = ""
		if errs.Any() {
			return c.Render(http.StatusOK, signupTemplate, page)
		}

		ctx := c.Request().Context()
		taken := func() error {
			session.AddFlash(c, "danger", fmt.Sprintf("%s is already taken.", form.Username))
			return c.Render(http.StatusOK, signupTemplate, page)
		}

		_, err = getUserByUsername(ctx, db, form.Username)
		switch {
		case err == nil:
			return taken()
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		hash, err := hashPassword(form.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		var user *model.User
		err = withTx(ctx, db, func(q database.Querier) error {
			var err error
			user, err = createUser(ctx, q, form.User(hash))
			return err
		})
		if errors.Is(err, store.ErrConflict) {
			// 同名帳號在檢查後才被建立
			return taken()
		}
		if err != nil {
			return err
		}

		session.Login(c, user)
		metrics.RecordSignup()
		logger.Log.Infow("user signed up", "user_id", user.ID, "username", user.Username)
		session.AddFlash(c, "success", "You are signed up and logged in.")
		return c.Redirect(http.StatusFound, "/cafes")
	}
}

// LoginHandler 顯示登入表單；POST 驗證帳密後建立 session
func LoginHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Method != http.MethodPost {
			return c.Render(http.StatusOK, loginTemplate, loginPage{})
		}

		var form forms.LoginForm
		errs, err := bindForm(c, &form)
		if err != nil {
			return err
		}
		page := loginPage{Form: forms.LoginForm{Username: form.Username}, Errors: errs}
		if errs.Any() {
			return c.Render(http.StatusOK, loginTemplate, page)
		}

		user, err := authenticateUser(c.Request().Context(), db, form.Username, form.Password)
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.RecordLogin(false)
			page.Errors = forms.Errors{}
			page.Errors.Add("username", "Invalid credentials")
			return c.Render(http.StatusOK, loginTemplate, page)
		}
		if err != nil {
			return err
		}

		session.Login(c, user)
		metrics.RecordLogin(true)
		session.AddFlash(c, "success", fmt.Sprintf("Hello, %s!", user.FullName()))
		return c.Redirect(http.StatusFound, "/cafes")
	}
}

// LogoutHandler 只接受 POST，清除 session 後回首頁
func LogoutHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := session.Logout(c); err != nil {
			// cookie 已清除，撤銷失敗只記錄
			logger.Log.Warnw("revoke session", "error", err)
		}
		session.AddFlash(c, "success", "You have successfully logged out.")
		return c.Redirect(http.StatusFound, "/")
	}
}
