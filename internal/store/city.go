package store

import (
	"context"

	"cafe-finder/internal/database"
	"cafe-finder/internal/model"
)

func ListCities(ctx context.Context, db database.Querier) ([]model.City, error) {
	rows, err := db.Query(ctx,
		`SELECT code, name, state FROM cities ORDER BY name`,
	)
	if err != nil {
		return nil, wrap("ListCities", err)
	}
	defer rows.Close()

	var cities []model.City
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.Code, &c.Name, &c.State); err != nil {
			return nil, wrap("ListCities", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("ListCities", err)
	}
	return cities, nil
}
