package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"cafe-finder/internal/cache"
	"cafe-finder/internal/database"
	"cafe-finder/internal/forms"
	"cafe-finder/internal/handler"
	"cafe-finder/internal/model"
	"cafe-finder/internal/render"
	"cafe-finder/internal/service"
	"cafe-finder/internal/session"
	"cafe-finder/internal/store"

	"github.com/go-resty/resty/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestSetupRoutes(t *testing.T) {
	e := echo.New()
	Setup(e, &database.FakeDB{}, &cache.FakeCache{}, Options{})

	got := map[string]struct{}{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	expected := []string{
		http.MethodGet + " /healthz",
		http.MethodGet + " /metrics",
		http.MethodGet + " /swagger/*",
		http.MethodGet + " /",
		http.MethodGet + " /cafes",
		http.MethodGet + " /cafes/new",
		http.MethodPost + " /cafes/new",
		http.MethodGet + " /cafes/:id",
		http.MethodGet + " /cafes/:id/edit",
		http.MethodPost + " /cafes/:id/edit",
		http.MethodGet + " /signup",
		http.MethodPost + " /signup",
		http.MethodGet + " /login",
		http.MethodPost + " /login",
		http.MethodPost + " /logout",
		http.MethodGet + " /profile",
		http.MethodGet + " /profile/edit",
		http.MethodPost + " /profile/edit",
		http.MethodGet + " /api/likes",
		http.MethodPost + " /api/like",
		http.MethodPost + " /api/unlike",
	}
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}
	_, ok := got[http.MethodGet+" /logout"]
	require.False(t, ok, "logout must not be reachable by GET")
}

// newServer 組出與正式環境相同的 middleware 鏈
func newServer(t *testing.T, db database.DB, opts Options, user *model.User) *resty.Client {
	t.Helper()
	e := echo.New()
	e.Validator = forms.NewValidator()
	r, err := render.New()
	require.NoError(t, err)
	e.Renderer = r
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	mgr := session.NewManager(session.Options{
		Secret: []byte("0123456789abcdef"),
		LoadUser: func(ctx context.Context, id int) (*model.User, error) {
			if user != nil && user.ID == id {
				return user, nil
			}
			return nil, store.ErrNotFound
		},
	})
	e.Use(mgr.Middleware())
	Setup(e, db, nil, opts)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return resty.New().
		SetBaseURL(srv.URL).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			// 不跟隨轉址，直接檢查 302
			return http.ErrUseLastResponse
		}))
}

func TestServer(t *testing.T) {
	db := &database.FakeDB{PingFn: func(context.Context) error { return nil }}

	t.Run("homepage renders", func(t *testing.T) {
		c := newServer(t, db, Options{}, nil)
		resp, err := c.R().Get("/")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
		require.Contains(t, resp.String(), "<html")
	})

	t.Run("healthz", func(t *testing.T) {
		c := newServer(t, db, Options{}, nil)
		resp, err := c.R().Get("/healthz")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
		require.JSONEq(t, `{"message":"pong"}`, resp.String())
	})

	t.Run("metrics", func(t *testing.T) {
		c := newServer(t, db, Options{}, nil)
		resp, err := c.R().Get("/metrics")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
	})

	t.Run("static assets", func(t *testing.T) {
		c := newServer(t, db, Options{}, nil)
		resp, err := c.R().Get("/static/js/app.js")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
		require.Contains(t, resp.String(), "/api/like")
	})

	t.Run("anonymous api call", func(t *testing.T) {
		c := newServer(t, db, Options{}, nil)
		resp, err := c.R().SetQueryParam("cafe_id", "1").Get("/api/likes")
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode())
		require.JSONEq(t, `{"error":"Not logged in"}`, resp.String())
	})

	t.Run("anonymous profile redirects to login", func(t *testing.T) {
		c := newServer(t, db, Options{}, nil)
		resp, err := c.R().Get("/profile")
		require.NoError(t, err)
		require.Equal(t, http.StatusFound, resp.StatusCode())
		require.Equal(t, "/login", resp.Header().Get(echo.HeaderLocation))
	})

	t.Run("unknown cafe id is 404 page", func(t *testing.T) {
		c := newServer(t, db, Options{}, nil)
		resp, err := c.R().Get("/cafes/abc")
		require.NoError(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode())
		require.Contains(t, resp.String(), "Cafe not found")
	})

	t.Run("logout needs post", func(t *testing.T) {
		c := newServer(t, db, Options{}, nil)
		resp, err := c.R().Get("/logout")
		require.NoError(t, err)
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode())

		tok := csrfToken(t, c)
		resp, err = c.R().SetFormData(map[string]string{"_csrf": tok}).Post("/logout")
		require.NoError(t, err)
		require.Equal(t, http.StatusFound, resp.StatusCode())
		require.Equal(t, "/", resp.Header().Get(echo.HeaderLocation))
		require.NotEmpty(t, resp.Cookies())
	})

	t.Run("post without csrf token is forbidden", func(t *testing.T) {
		c := newServer(t, db, Options{}, nil)
		resp, err := c.R().Post("/logout")
		require.NoError(t, err)
		require.Equal(t, http.StatusForbidden, resp.StatusCode())

		// 有 cookie 但表單沒帶
		csrfToken(t, c)
		resp, err = c.R().SetFormData(map[string]string{"username": "a", "password": "b"}).Post("/login")
		require.NoError(t, err)
		require.Equal(t, http.StatusForbidden, resp.StatusCode())

		resp, err = c.R().SetFormData(map[string]string{"_csrf": "forged"}).Post("/logout")
		require.NoError(t, err)
		require.Equal(t, http.StatusForbidden, resp.StatusCode())
	})

	t.Run("admin guard on cafe edits", func(t *testing.T) {
		c := newServer(t, db, Options{RequireAdminForCafeEdits: true}, nil)
		resp, err := c.R().Get("/cafes/new")
		require.NoError(t, err)
		require.Equal(t, http.StatusFound, resp.StatusCode())
		require.Equal(t, "/login", resp.Header().Get(echo.HeaderLocation))
	})
}

// csrfToken 先 GET 一個頁面取得 CSRF cookie；client 的 cookie jar 會在後續請求帶回
func csrfToken(t *testing.T, c *resty.Client) string {
	t.Helper()
	resp, err := c.R().Get("/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	for _, ck := range resp.Cookies() {
		if ck.Name == "_csrf" {
			require.Contains(t, resp.String(), `name="_csrf" value="`+ck.Value+`"`)
			return ck.Value
		}
	}
	t.Fatal("no csrf cookie issued")
	return ""
}

// row 依 dest 型別填入 vals；err 非 nil 時直接回傳
type row struct {
	vals []any
	err  error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int:
			*p = r.vals[i].(int)
		case *string:
			*p = r.vals[i].(string)
		case *bool:
			*p = r.vals[i].(bool)
		}
	}
	return nil
}

func TestSessionFlow(t *testing.T) {
	t.Run("signup then check likes", func(t *testing.T) {
		var liked []any
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, sql string, _ ...any) pgx.Row {
				// 帳號未被使用，也還沒有按讚
				return row{err: pgx.ErrNoRows}
			},
			BeginFn: func(context.Context) (pgx.Tx, error) {
				return &database.FakeTx{
					QueryRowFn: func(_ context.Context, sql string, _ ...any) pgx.Row {
						require.Contains(t, sql, "INSERT INTO users")
						return row{vals: []any{7}}
					},
					ExecFn: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
						require.Contains(t, sql, "INSERT INTO likes")
						liked = args
						return pgconn.NewCommandTag("INSERT 0 1"), nil
					},
				}, nil
			},
		}
		c := newServer(t, db, Options{}, &model.User{ID: 7, Username: "newbie"})

		tok := csrfToken(t, c)
		resp, err := c.R().SetFormData(map[string]string{
			"_csrf":      tok,
			"username":   "newbie",
			"first_name": "New",
			"last_name":  "Bie",
			"email":      "new@example.com",
			"password":   "secret123",
		}).Post("/signup")
		require.NoError(t, err)
		require.Equal(t, http.StatusFound, resp.StatusCode())
		require.Equal(t, "/cafes", resp.Header().Get(echo.HeaderLocation))

		resp, err = c.R().SetQueryParam("cafe_id", "1").Get("/api/likes")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
		require.JSONEq(t, `{"likes":false}`, resp.String())

		// API 以 header 帶 token
		resp, err = c.R().SetBody(map[string]int{"cafe_id": 1}).Post("/api/like")
		require.NoError(t, err)
		require.Equal(t, http.StatusForbidden, resp.StatusCode())
		require.Nil(t, liked)

		resp, err = c.R().
			SetHeader("X-CSRF-Token", tok).
			SetBody(map[string]int{"cafe_id": 1}).
			Post("/api/like")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
		require.JSONEq(t, `{"liked":1}`, resp.String())
		require.Equal(t, []any{7, 1}, liked)
	})

	t.Run("wrong password stays logged out", func(t *testing.T) {
		hash, err := service.HashPassword("correct-horse")
		require.NoError(t, err)
		alice := &model.User{ID: 3, Username: "alice"}
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, sql string, _ ...any) pgx.Row {
				require.Contains(t, sql, "FROM users")
				return row{vals: []any{3, "alice", false, "a@example.com", "Alice", "Liddell", "", model.DefaultUserImage, hash}}
			},
		}
		c := newServer(t, db, Options{}, alice)

		tok := csrfToken(t, c)
		resp, err := c.R().SetFormData(map[string]string{
			"_csrf":    tok,
			"username": "alice",
			"password": "wrong-horse",
		}).Post("/login")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
		require.Contains(t, resp.String(), "Invalid credentials")

		resp, err = c.R().SetQueryParam("cafe_id", "1").Get("/api/likes")
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode())
		require.JSONEq(t, `{"error":"Not logged in"}`, resp.String())
	})
}
