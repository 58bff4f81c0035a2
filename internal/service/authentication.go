// File: internal/service/authentication.go
package service

import (
	"context"
	"errors"
	"fmt"

	"cafe-finder/internal/database"
	"cafe-finder/internal/model"
	"cafe-finder/internal/store"
)

// ErrInvalidCredentials 帳號不存在或密碼錯誤時回傳，不區分兩者
var ErrInvalidCredentials = errors.New("invalid credentials")

var getUserByUsername = store.GetUserByUsername

// AuthenticateUser 依帳號查詢使用者並比對密碼，成功回傳使用者
func AuthenticateUser(ctx context.Context, db database.Querier, username, password string) (*model.User, error) {
	user, err := getUserByUsername(ctx, db, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("AuthenticateUser: %w", err)
	}
	if err := ComparePassword(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
