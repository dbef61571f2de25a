package model

// Restaurant is read-only reference data — no write endpoint exists, rows
// come from seeding. PriceRange is the 1–4 price tier ($ to $$$$), Rating is
// 0–5. The three list fields are stored comma-joined and expanded on read.
type Restaurant struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	CuisineType    []string `json:"cuisineType"`
	PriceRange     int      `json:"priceRange"`
	Rating         float64  `json:"rating"`
	Address        string   `json:"address"`
	Image          string   `json:"image"`
	DietaryOptions []string `json:"dietaryOptions"`
	PopularDishes  []string `json:"popularDishes"`
}
