package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/tastebud/internal/model"
	"github.com/sakif/tastebud/internal/repository"
)

// compile-time check that *DB implements repository.RestaurantRepository
var _ repository.RestaurantRepository = (*DB)(nil)

// List returns the full restaurant catalogue with the delimited list
// columns expanded. The API never writes this table.
func (db *DB) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, cuisine_type, price_range, rating, address, image, dietary_options, popular_dishes
		 FROM restaurants`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := []model.Restaurant{}
	for rows.Next() {
		var r model.Restaurant
		var cuisines, dietary, dishes string
		if err := rows.Scan(
			&r.ID,
			&r.Name,
			&r.Description,
			&cuisines,
			&r.PriceRange,
			&r.Rating,
			&r.Address,
			&r.Image,
			&dietary,
			&dishes,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning restaurant row: %w", err)
		}

		r.CuisineType = splitList(cuisines)
		r.DietaryOptions = splitList(dietary)
		r.PopularDishes = splitList(dishes)
		restaurants = append(restaurants, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating restaurants: %w", err)
	}

	return restaurants, nil
}
