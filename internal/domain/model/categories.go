package model

// Category is one entry of the fixed POI taxonomy.
type Category string

const (
	CategoryPark          Category = "park"
	CategoryRestaurant    Category = "restaurant"
	CategoryAttraction    Category = "attraction"
	CategoryCafe          Category = "cafe"
	CategoryBar           Category = "bar"
	CategoryShopping      Category = "shopping"
	CategoryLibrary       Category = "library"
	CategoryBeach         Category = "beach"
	CategoryGym           Category = "gym"
	CategoryVenue         Category = "venue"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryMisc          Category = "misc"
)

// AllCategories returns the full taxonomy in declaration order.
func AllCategories() []Category {
	return []Category{
		CategoryPark,
		CategoryRestaurant,
		CategoryAttraction,
		CategoryCafe,
		CategoryBar,
		CategoryShopping,
		CategoryLibrary,
		CategoryBeach,
		CategoryGym,
		CategoryVenue,
		CategoryEntertainment,
		CategoryHealth,
		CategoryMisc,
	}
}

// IsValidCategory reports whether s names a taxonomy member.
func IsValidCategory(s string) bool {
	for _, c := range AllCategories() {
		if string(c) == s {
			return true
		}
	}
	return false
}

// ClassificationMethod records which stage produced the final category.
type ClassificationMethod string

const (
	MethodRule ClassificationMethod = "rule"
	MethodAI   ClassificationMethod = "ai"
)
