package store

import (
	"context"

	"cafe-finder/internal/database"
	"cafe-finder/internal/model"
)

func GetLike(ctx context.Context, db database.Querier, userID, cafeID int) (*model.Like, error) {
	row := db.QueryRow(ctx,
		`SELECT user_id, cafe_id FROM likes WHERE user_id = $1 AND cafe_id = $2`,
		userID,
		cafeID,
	)
	l := &model.Like{}
	if err := row.Scan(&l.UserID, &l.CafeID); err != nil {
		return nil, wrap("GetLike", err)
	}
	return l, nil
}

// CreateLike is idempotent: liking an already liked cafe succeeds without a
// second row. An unknown user or cafe yields ErrReference.
func CreateLike(ctx context.Context, db database.Querier, userID, cafeID int) error {
	_, err := db.Exec(ctx,
		`INSERT INTO likes (user_id, cafe_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, cafe_id) DO NOTHING`,
		userID,
		cafeID,
	)
	if err != nil {
		return wrap("CreateLike", err)
	}
	return nil
}

// DeleteLike removes the like if present; a missing like is not an error.
func DeleteLike(ctx context.Context, db database.Querier, userID, cafeID int) error {
	_, err := db.Exec(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND cafe_id = $2`,
		userID,
		cafeID,
	)
	if err != nil {
		return wrap("DeleteLike", err)
	}
	return nil
}

// ListLikedCafes returns the cafes userID likes, ordered by name.
func ListLikedCafes(ctx context.Context, db database.Querier, userID int) ([]model.Cafe, error) {
	return queryCafes(ctx, db, "ListLikedCafes",
		cafeSelect+` JOIN likes l ON l.cafe_id = c.id WHERE l.user_id = $1 ORDER BY c.name, c.id`,
		userID,
	)
}
