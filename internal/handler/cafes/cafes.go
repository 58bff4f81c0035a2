package cafes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"cafe-finder/internal/database"
	"cafe-finder/internal/forms"
	"cafe-finder/internal/model"
	"cafe-finder/internal/session"
	"cafe-finder/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	listCafes   = store.ListCafes
	getCafeByID = store.GetCafeByID
	createCafe  = store.CreateCafe
	updateCafe  = store.UpdateCafe
	listCities  = store.ListCities
	withTx      = database.WithTx
)

var errCafeNotFound = echo.NewHTTPError(http.StatusNotFound, "Cafe not found")

type listPage struct {
	Cafes []model.Cafe
}

type detailPage struct {
	Cafe model.Cafe
}

type formPage struct {
	Cafe   model.Cafe
	Form   forms.CafeForm
	Errors forms.Errors
	Cities []model.City
}

func parseCafeID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, errCafeNotFound
	}
	return id, nil
}

func cityCodes(cities []model.City) []string {
	codes := make([]string, 0, len(cities))
	for _, ci := range cities {
		codes = append(codes, ci.Code)
	}
	return codes
}

// bindCafeForm binds and validates the submitted form, including the city choice.
func bindCafeForm(c echo.Context, cities []model.City) (forms.CafeForm, forms.Errors, error) {
	var form forms.CafeForm
	if err := c.Bind(&form); err != nil {
		return form, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	errs := forms.Check(c, &form)
	if form.CityCode != "" {
		errs = forms.CheckChoice(errs, "city_code", form.CityCode, cityCodes(cities))
	}
	return form, errs, nil
}

// ListHandler shows every cafe ordered by name.
func ListHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		cafes, err := listCafes(c.Request().Context(), db)
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "cafe/list.html", listPage{Cafes: cafes})
	}
}

func DetailHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseCafeID(c)
		if err != nil {
			return err
		}
		cafe, err := getCafeByID(c.Request().Context(), db, id)
		if errors.Is(err, store.ErrNotFound) {
			return errCafeNotFound
		}
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "cafe/detail.html", detailPage{Cafe: *cafe})
	}
}

// AddHandler serves the add-cafe form and creates the cafe on a valid POST.
func AddHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		cities, err := listCities(ctx, db)
		if err != nil {
			return err
		}
		page := formPage{Cities: cities}
		if c.Request().Method != http.MethodPost {
			return c.Render(http.StatusOK, "cafe/add-form.html", page)
		}

		form, errs, err := bindCafeForm(c, cities)
		if err != nil {
			return err
		}
		page.Form = form
		if !errs.Any() {
			var cafe *model.Cafe
			err := withTx(ctx, db, func(q database.Querier) error {
				var err error
				cafe, err = createCafe(ctx, q, form.Cafe(0))
				return err
			})
			switch {
			case err == nil:
				session.AddFlash(c, "success", fmt.Sprintf("%s added!", cafe.Name))
				return c.Redirect(http.StatusFound, fmt.Sprintf("/cafes/%d", cafe.ID))
			case errors.Is(err, store.ErrReference):
				errs = forms.CheckChoice(errs, "city_code", "", nil)
			default:
				return err
			}
		}
		page.Errors = errs
		return c.Render(http.StatusOK, "cafe/add-form.html", page)
	}
}

// EditHandler serves the prefilled edit form and updates the cafe on a valid POST.
func EditHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := parseCafeID(c)
		if err != nil {
			return err
		}
		cafe, err := getCafeByID(ctx, db, id)
		if errors.Is(err, store.ErrNotFound) {
			return errCafeNotFound
		}
		if err != nil {
			return err
		}
		cities, err := listCities(ctx, db)
		if err != nil {
			return err
		}
		page := formPage{Cafe: *cafe, Form: forms.CafeFormFrom(*cafe), Cities: cities}
		if c.Request().Method != http.MethodPost {
			return c.Render(http.StatusOK, "cafe/edit-form.html", page)
		}

		form, errs, err := bindCafeForm(c, cities)
		if err != nil {
			return err
		}
		page.Form = form
		if !errs.Any() {
			updated := form.Cafe(cafe.ID)
			err := withTx(ctx, db, func(q database.Querier) error {
				return updateCafe(ctx, q, updated)
			})
			switch {
			case err == nil:
				session.AddFlash(c, "success", fmt.Sprintf("%s edited!", updated.Name))
				return c.Redirect(http.StatusFound, fmt.Sprintf("/cafes/%d", updated.ID))
			case errors.Is(err, store.ErrNotFound):
				return errCafeNotFound
			case errors.Is(err, store.ErrReference):
				errs = forms.CheckChoice(errs, "city_code", "", nil)
			default:
				return err
			}
		}
		page.Errors = errs
		return c.Render(http.StatusOK, "cafe/edit-form.html", page)
	}
}
