package store

import (
	"context"

	"cafe-finder/internal/database"
	"cafe-finder/internal/model"
)

const cafeSelect = `SELECT c.id, c.name, c.description, c.url, c.address, c.city_code, c.image_url,
		ci.code, ci.name, ci.state
	 FROM cafes c
	 JOIN cities ci ON ci.code = c.city_code`

func scanCafe(s scanner) (model.Cafe, error) {
	var c model.Cafe
	err := s.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.URL,
		&c.Address,
		&c.CityCode,
		&c.ImageURL,
		&c.City.Code,
		&c.City.Name,
		&c.City.State,
	)
	return c, err
}

func queryCafes(ctx context.Context, db database.Querier, op, sql string, args ...any) ([]model.Cafe, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var cafes []model.Cafe
	for rows.Next() {
		c, err := scanCafe(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		cafes = append(cafes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return cafes, nil
}

// ListCafes returns every cafe ordered by name.
func ListCafes(ctx context.Context, db database.Querier) ([]model.Cafe, error) {
	return queryCafes(ctx, db, "ListCafes", cafeSelect+` ORDER BY c.name, c.id`)
}

func GetCafeByID(ctx context.Context, db database.Querier, cafeID int) (*model.Cafe, error) {
	c, err := scanCafe(db.QueryRow(ctx, cafeSelect+` WHERE c.id = $1`, cafeID))
	if err != nil {
		return nil, wrap("GetCafeByID", err)
	}
	return &c, nil
}

// CreateCafe inserts c and sets its ID. An empty image URL is stored as the default.
func CreateCafe(ctx context.Context, db database.Querier, c *model.Cafe) (*model.Cafe, error) {
	if c.ImageURL == "" {
		c.ImageURL = model.DefaultCafeImage
	}
	row := db.QueryRow(ctx,
		`INSERT INTO cafes (name, description, url, address, city_code, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		c.Name,
		c.Description,
		c.URL,
		c.Address,
		c.CityCode,
		c.ImageURL,
	)
	if err := row.Scan(&c.ID); err != nil {
		return nil, wrap("CreateCafe", err)
	}
	return c, nil
}

// UpdateCafe overwrites every editable column. ErrNotFound when no row has c.ID.
func UpdateCafe(ctx context.Context, db database.Querier, c *model.Cafe) error {
	if c.ImageURL == "" {
		c.ImageURL = model.DefaultCafeImage
	}
	tag, err := db.Exec(ctx,
		`UPDATE cafes
		 SET name = $1, description = $2, url = $3, address = $4, city_code = $5, image_url = $6
		 WHERE id = $7`,
		c.Name,
		c.Description,
		c.URL,
		c.Address,
		c.CityCode,
		c.ImageURL,
		c.ID,
	)
	if err != nil {
		return wrap("UpdateCafe", err)
	}
	if tag.RowsAffected() == 0 {
		return wrap("UpdateCafe", ErrNotFound)
	}
	return nil
}
