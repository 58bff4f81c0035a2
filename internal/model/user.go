// File: internal/model/user.go
package model

// DefaultUserImage 使用者未提供頭像時的預設圖片
const DefaultUserImage = "/static/images/default-pic.png"

type User struct {
	ID             int    `db:"id" json:"id"`
	Username       string `db:"username" json:"username"`
	Admin          bool   `db:"admin" json:"admin"`
	Email          string `db:"email" json:"email"`
	FirstName      string `db:"first_name" json:"first_name"`
	LastName       string `db:"last_name" json:"last_name"`
	Description    string `db:"description" json:"description"`
	ImageURL       string `db:"image_url" json:"image_url"`
	HashedPassword string `db:"hashed_password" json:"-"`
}

// FullName returns "first last".
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
