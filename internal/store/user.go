package store

import (
	"context"

	"cafe-finder/internal/database"
	"cafe-finder/internal/model"
)

const userSelect = `SELECT id, username, admin, email, first_name, last_name, description, image_url, hashed_password
	 FROM users`

func scanUser(s scanner) (*model.User, error) {
	u := &model.User{}
	if err := s.Scan(
		&u.ID,
		&u.Username,
		&u.Admin,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Description,
		&u.ImageURL,
		&u.HashedPassword,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func GetUserByID(ctx context.Context, db database.Querier, userID int) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx, userSelect+` WHERE id = $1`, userID))
	if err != nil {
		return nil, wrap("GetUserByID", err)
	}
	return u, nil
}

func GetUserByUsername(ctx context.Context, db database.Querier, username string) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx, userSelect+` WHERE username = $1`, username))
	if err != nil {
		return nil, wrap("GetUserByUsername", err)
	}
	return u, nil
}

// CreateUser inserts u and sets its ID. A taken username yields ErrConflict.
func CreateUser(ctx context.Context, db database.Querier, u *model.User) (*model.User, error) {
	if u.ImageURL == "" {
		u.ImageURL = model.DefaultUserImage
	}
	row := db.QueryRow(ctx,
		`INSERT INTO users (username, admin, email, first_name, last_name, description, image_url, hashed_password)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		u.Username,
		u.Admin,
		u.Email,
		u.FirstName,
		u.LastName,
		u.Description,
		u.ImageURL,
		u.HashedPassword,
	)
	if err := row.Scan(&u.ID); err != nil {
		return nil, wrap("CreateUser", err)
	}
	return u, nil
}

// UpdateUserProfile writes the profile-editable columns only.
func UpdateUserProfile(ctx context.Context, db database.Querier, u *model.User) error {
	if u.ImageURL == "" {
		u.ImageURL = model.DefaultUserImage
	}
	tag, err := db.Exec(ctx,
		`UPDATE users
		 SET first_name = $1, last_name = $2, description = $3, email = $4, image_url = $5
		 WHERE id = $6`,
		u.FirstName,
		u.LastName,
		u.Description,
		u.Email,
		u.ImageURL,
		u.ID,
	)
	if err != nil {
		return wrap("UpdateUserProfile", err)
	}
	if tag.RowsAffected() == 0 {
		return wrap("UpdateUserProfile", ErrNotFound)
	}
	return nil
}
