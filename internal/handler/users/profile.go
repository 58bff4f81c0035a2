// Package users 提供目前登入者的個人頁面與編輯
package users

import (
	"net/http"

	"cafe-finder/internal/database"
	"cafe-finder/internal/forms"
	"cafe-finder/internal/model"
	"cafe-finder/internal/session"
	"cafe-finder/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	listLikedCafes    = store.ListLikedCafes
	updateUserProfile = store.UpdateUserProfile
	withTx            = database.WithTx
)

type profilePage struct {
	Profile *model.User
	Liked   []model.Cafe
}

type editPage struct {
	Form   forms.ProfileForm
	Errors forms.Errors
}

// 路由已掛 RequireUser，這裡只是保險
func currentUser(c echo.Context) (*model.User, error) {
	u, ok := session.CurrentUser(c)
	if !ok {
		return nil, echo.ErrUnauthorized
	}
	return u, nil
}

// ProfileHandler 顯示個人資料與按讚的咖啡廳
func ProfileHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return err
		}
		liked, err := listLikedCafes(c.Request().Context(), db, user.ID)
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "profile/detail.html", profilePage{Profile: user, Liked: liked})
	}
}

// EditProfileHandler 顯示預填的編輯表單；POST 驗證後更新並導回個人頁
func EditProfileHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c)
		if err != nil {
			return err
		}
		if c.Request().Method != http.MethodPost {
			return c.Render(http.StatusOK, "profile/edit-form.html", editPage{Form: forms.ProfileFormFrom(*user)})
		}

		var form forms.ProfileForm
		if err := c.Bind(&form); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
		}
		if errs := forms.Check(c, &form); errs.Any() {
			return c.Render(http.StatusOK, "profile/edit-form.html", editPage{Form: form, Errors: errs})
		}

		// 失敗時不動到 context 裡的 user
		updated := *user
		form.Apply(&updated)
		ctx := c.Request().Context()
		if err := withTx(ctx, db, func(q database.Querier) error {
			return updateUserProfile(ctx, q, &updated)
		}); err != nil {
			return err
		}

		c.Set(session.ContextUserKey, &updated)
		session.AddFlash(c, "success", "Profile edited.")
		return c.Redirect(http.StatusFound, "/profile")
	}
}
