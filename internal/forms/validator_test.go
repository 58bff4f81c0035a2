package forms

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cafe-finder/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type errValidator struct{}

func (errValidator) Validate(interface{}) error { return errors.New("broken") }

func newCtx(v echo.Validator) echo.Context {
	e := echo.New()
	e.Validator = v
	return e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
}

func TestValidator(t *testing.T) {
	cv := NewValidator()
	type s struct {
		Name string `form:"name" validate:"required"`
	}
	require.NoError(t, cv.Validate(&s{Name: "ok"}))
	require.Error(t, cv.Validate(&s{}))
}

func TestCheckCafeForm(t *testing.T) {
	c := newCtx(NewValidator())

	errs := Check(c, &CafeForm{Name: "Cafe", Address: "1 Main", CityCode: "sf"})
	require.Nil(t, errs)
	require.False(t, errs.Any())

	errs = Check(c, &CafeForm{URL: "not a url", ImageURL: "also bad"})
	require.True(t, errs.Any())
	require.Equal(t, []string{"This field is required."}, errs["name"])
	require.Equal(t, []string{"This field is required."}, errs["address"])
	require.Equal(t, []string{"This field is required."}, errs["city_code"])
	require.Equal(t, []string{"Invalid URL."}, errs["url"])
	require.Equal(t, []string{"Invalid URL."}, errs["image_url"])
	require.NotContains(t, errs, "description")
}

func TestCheckSignupForm(t *testing.T) {
	c := newCtx(NewValidator())

	valid := SignupForm{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Password:  "secret1",
	}
	require.Nil(t, Check(c, &valid))

	bad := valid
	bad.Email = "nope"
	bad.Password = "short"
	errs := Check(c, &bad)
	require.Equal(t, []string{"Invalid email address."}, errs["email"])
	require.Equal(t, []string{"Field must be at least 6 characters long."}, errs["password"])

	long := valid
	long.Username = strings.Repeat("x", 51)
	errs = Check(c, &long)
	require.Equal(t, []string{"Field cannot be longer than 50 characters."}, errs["username"])
}

func TestCheckProfileAndLogin(t *testing.T) {
	c := newCtx(NewValidator())

	errs := Check(c, &LoginForm{})
	require.Len(t, errs, 2)

	errs = Check(c, &ProfileForm{FirstName: "A", LastName: "B", Email: "a@b.co", ImageURL: "https://img.example/p.png"})
	require.Nil(t, errs)
}

func TestCheckNonFieldError(t *testing.T) {
	errs := Check(newCtx(errValidator{}), &LoginForm{})
	require.Equal(t, []string{"broken"}, errs[FormErrorKey])
}

func TestCheckChoice(t *testing.T) {
	choices := []string{"sf", "berk"}
	require.Nil(t, CheckChoice(nil, "city_code", "sf", choices))

	errs := CheckChoice(nil, "city_code", "nyc", choices)
	require.Equal(t, []string{"Not a valid choice."}, errs["city_code"])

	errs = Errors{"city_code": {"This field is required."}}
	errs = CheckChoice(errs, "city_code", "", choices)
	require.Len(t, errs["city_code"], 1)
}

func TestFormConversions(t *testing.T) {
	cafe := model.Cafe{ID: 3, Name: "n", Address: "a", CityCode: "sf", ImageURL: "/i.jpg"}
	f := CafeFormFrom(cafe)
	got := f.Cafe(3)
	require.Equal(t, cafe.Name, got.Name)
	require.Equal(t, 3, got.ID)

	u := SignupForm{Username: "u", FirstName: "F", LastName: "L", Email: "e@x.io"}.User("hash")
	require.Equal(t, "hash", u.HashedPassword)
	require.False(t, u.Admin)

	user := model.User{ID: 1, Username: "keep", FirstName: "Old"}
	pf := ProfileFormFrom(user)
	pf.FirstName = "New"
	pf.Apply(&user)
	require.Equal(t, "New", user.FirstName)
	require.Equal(t, "keep", user.Username)
}

func TestFormFromHidesPlaceholderImage(t *testing.T) {
	f := CafeFormFrom(model.Cafe{Name: "n", ImageURL: model.DefaultCafeImage})
	require.Empty(t, f.ImageURL)

	f = CafeFormFrom(model.Cafe{ImageURL: "https://img.example/c.jpg"})
	require.Equal(t, "https://img.example/c.jpg", f.ImageURL)

	pf := ProfileFormFrom(model.User{ImageURL: model.DefaultUserImage})
	require.Empty(t, pf.ImageURL)
	pf = ProfileFormFrom(model.User{ImageURL: "https://img.example/u.png"})
	require.Equal(t, "https://img.example/u.png", pf.ImageURL)
}
