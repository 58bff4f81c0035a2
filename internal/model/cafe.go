// File: internal/model/cafe.go
package model

// DefaultCafeImage 咖啡廳未提供圖片時的預設圖片
const DefaultCafeImage = "/static/images/default-cafe.jpg"

type City struct {
	Code  string `db:"code" json:"code"`
	Name  string `db:"name" json:"name"`
	State string `db:"state" json:"state"`
}

type Cafe struct {
	ID          int    `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	URL         string `db:"url" json:"url"`
	Address     string `db:"address" json:"address"`
	CityCode    string `db:"city_code" json:"city_code"`
	ImageURL    string `db:"image_url" json:"image_url"`

	// City is populated by queries that join cities.
	City City `db:"-" json:"city"`
}

// CityState returns "City, ST" for display.
func (c Cafe) CityState() string {
	return c.City.Name + ", " + c.City.State
}

type Like struct {
	UserID int `db:"user_id" json:"user_id"`
	CafeID int `db:"cafe_id" json:"cafe_id"`
}
