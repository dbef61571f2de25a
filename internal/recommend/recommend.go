// Package recommend filters the restaurant catalogue by a user's saved
// preferences.
package recommend

import "github.com/sakif/tastebud/internal/model"

// Match reports whether a restaurant fits the given preferences:
//
//   - it serves at least one of the preferred cuisines,
//   - its dietary options cover every dietary restriction, and
//   - when a [low, high] price range is set, its price tier lies inside it.
//
// An unset price range (fewer than two bounds) doesn't constrain the match.
func Match(r model.Restaurant, prefs model.UserPreferences) bool {
	if !overlaps(r.CuisineType, prefs.CuisinePreferences) {
		return false
	}
	if !containsAll(r.DietaryOptions, prefs.DietaryRestrictions) {
		return false
	}
	if len(prefs.PriceRange) >= 2 {
		if r.PriceRange < prefs.PriceRange[0] || r.PriceRange > prefs.PriceRange[1] {
			return false
		}
	}
	return true
}

// Filter returns the restaurants matching prefs, preserving catalogue
// order. A nil prefs means the user never set any — they get the whole
// catalogue rather than an empty plate.
func Filter(restaurants []model.Restaurant, prefs *model.UserPreferences) []model.Restaurant {
	if prefs == nil {
		return restaurants
	}

	matched := []model.Restaurant{}
	for _, r := range restaurants {
		if Match(r, *prefs) {
			matched = append(matched, r)
		}
	}
	return matched
}

// overlaps reports whether any element of a appears in b.
func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// containsAll reports whether every element of want appears in have.
// Vacuously true for an empty want.
func containsAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
