package forms

import "cafe-finder/internal/model"

type CafeForm struct {
	Name        string `form:"name" validate:"required"`
	Description string `form:"description"`
	URL         string `form:"url" validate:"omitempty,url"`
	Address     string `form:"address" validate:"required"`
	CityCode    string `form:"city_code" validate:"required"`
	ImageURL    string `form:"image_url" validate:"omitempty,url"`
}

// CafeFormFrom prefills the edit form. The placeholder image is shown as an
// empty field so resubmitting it unchanged keeps the default.
func CafeFormFrom(c model.Cafe) CafeForm {
	f := CafeForm{
		Name:        c.Name,
		Description: c.Description,
		URL:         c.URL,
		Address:     c.Address,
		CityCode:    c.CityCode,
		ImageURL:    c.ImageURL,
	}
	if f.ImageURL == model.DefaultCafeImage {
		f.ImageURL = ""
	}
	return f
}

func (f CafeForm) Cafe(id int) *model.Cafe {
	return &model.Cafe{
		ID:          id,
		Name:        f.Name,
		Description: f.Description,
		URL:         f.URL,
		Address:     f.Address,
		CityCode:    f.CityCode,
		ImageURL:    f.ImageURL,
	}
}

type SignupForm struct {
	Username    string `form:"username" validate:"required,max=50"`
	FirstName   string `form:"first_name" validate:"required"`
	LastName    string `form:"last_name" validate:"required"`
	Description string `form:"description"`
	Email       string `form:"email" validate:"required,email"`
	ImageURL    string `form:"image_url" validate:"omitempty,url"`
	Password    string `form:"password" validate:"required,min=6"`
}

// User builds the new user; the password hash is supplied by the caller.
func (f SignupForm) User(hashedPassword string) *model.User {
	return &model.User{
		Username:       f.Username,
		Email:          f.Email,
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		Description:    f.Description,
		ImageURL:       f.ImageURL,
		HashedPassword: hashedPassword,
	}
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type ProfileForm struct {
	FirstName   string `form:"first_name" validate:"required"`
	LastName    string `form:"last_name" validate:"required"`
	Description string `form:"description"`
	Email       string `form:"email" validate:"required,email"`
	ImageURL    string `form:"image_url" validate:"omitempty,url"`
}

// ProfileFormFrom 預填表單；預設頭像顯示為空白
func ProfileFormFrom(u model.User) ProfileForm {
	f := ProfileForm{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Description: u.Description,
		Email:       u.Email,
		ImageURL:    u.ImageURL,
	}
	if f.ImageURL == model.DefaultUserImage {
		f.ImageURL = ""
	}
	return f
}

// Apply copies the editable fields onto u.
func (f ProfileForm) Apply(u *model.User) {
	u.FirstName = f.FirstName
	u.LastName = f.LastName
	u.Description = f.Description
	u.Email = f.Email
	u.ImageURL = f.ImageURL
}
