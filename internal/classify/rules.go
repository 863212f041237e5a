package classify

import (
	"strings"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

// CategoryRule is one row of the static classification table. Tags match the
// gateway's type strings exactly; keywords match case-insensitive substrings
// of the place name. Higher priority wins ties between categories.
type CategoryRule struct {
	Category        model.Category
	Priority        int
	Tags            []string
	Keywords        []string
	ExcludeTags     []string
	ExcludeKeywords []string
}

// categoryRules is the full rule table, one record per taxonomy category.
// Misc carries no positive signal and only wins as the fallback.
var categoryRules = []CategoryRule{
	{
		Category:        model.CategoryPark,
		Priority:        10,
		Tags:            []string{"park", "campground", "rv_park", "national_park"},
		Keywords:        []string{"park", "garden", "trail", "playground", "preserve"},
		ExcludeTags:     []string{"amusement_park", "parking"},
		ExcludeKeywords: []string{"parking"},
	},
	{
		Category:    model.CategoryRestaurant,
		Priority:    9,
		Tags:        []string{"restaurant", "food", "meal_takeaway", "meal_delivery"},
		Keywords:    []string{"restaurant", "pizza", "sushi", "grill", "diner", "kitchen", "taqueria", "bbq", "noodle"},
		ExcludeTags: []string{"gas_station", "lodging"},
	},
	{
		Category: model.CategoryCafe,
		Priority: 9,
		Tags:     []string{"cafe", "bakery"},
		Keywords: []string{"cafe", "coffee", "espresso", "bakery", "tea house", "boba", "patisserie"},
	},
	{
		Category:        model.CategoryBar,
		Priority:        9,
		Tags:            []string{"bar", "night_club"},
		Keywords:        []string{"bar", "pub", "brewery", "taproom", "tavern", "lounge", "saloon", "winery"},
		ExcludeKeywords: []string{"juice bar", "sushi bar"},
	},
	{
		Category: model.CategoryAttraction,
		Priority: 8,
		Tags:     []string{"tourist_attraction", "museum", "art_gallery", "zoo", "aquarium", "landmark"},
		Keywords: []string{"museum", "gallery", "monument", "memorial", "observatory", "historic"},
	},
	{
		Category: model.CategoryBeach,
		Priority: 8,
		Tags:     []string{"natural_feature"},
		Keywords: []string{"beach", "shore", "cove", "boardwalk"},
	},
	{
		Category: model.CategoryLibrary,
		Priority: 7,
		Tags:     []string{"library", "book_store"},
		Keywords: []string{"library", "bookstore", "books"},
	},
	{
		Category: model.CategoryGym,
		Priority: 7,
		Tags:     []string{"gym"},
		Keywords: []string{"gym", "fitness", "yoga", "crossfit", "pilates", "climbing", "martial arts"},
	},
	{
		Category:    model.CategoryVenue,
		Priority:    6,
		Tags:        []string{"stadium", "performing_arts_theater", "concert_hall"},
		Keywords:    []string{"stadium", "arena", "theater", "theatre", "amphitheater", "concert", "convention center"},
		ExcludeTags: []string{"movie_theater"},
	},
	{
		Category: model.CategoryEntertainment,
		Priority: 6,
		Tags:     []string{"movie_theater", "amusement_park", "bowling_alley", "casino"},
		Keywords: []string{"cinema", "arcade", "bowling", "karaoke", "escape room", "billiards"},
	},
	{
		Category:    model.CategoryShopping,
		Priority:    6,
		Tags:        []string{"shopping_mall", "department_store", "clothing_store", "supermarket", "convenience_store", "store"},
		Keywords:    []string{"market", "mall", "boutique", "shop", "outlet"},
		ExcludeTags: []string{"liquor_store"},
	},
	{
		Category: model.CategoryHealth,
		Priority: 5,
		Tags:     []string{"hospital", "pharmacy", "doctor", "dentist", "physiotherapist", "spa"},
		Keywords: []string{"clinic", "medical", "wellness", "pharmacy", "urgent care", "spa"},
	},
	{
		Category: model.CategoryMisc,
		Priority: 1,
	},
}

// Tags that indicate a place sells liquor; used for the bar tie-break boost.
var liquorSaleTags = []string{"liquor_store"}

// Generic retail tags that compete with the liquor signal. A bottle shop
// inside a supermarket is shopping, not a bar.
var genericRetailTags = []string{"convenience_store", "supermarket", "grocery_or_supermarket"}

// RuleFor returns the rule record for a category, or nil for unknown ones.
func RuleFor(cat model.Category) *CategoryRule {
	for i := range categoryRules {
		if categoryRules[i].Category == cat {
			return &categoryRules[i]
		}
	}
	return nil
}

// matchCounts computes how many of the rule's tags and keywords the place
// matches. Returns (-1, -1) when an exclusion fires.
func (r *CategoryRule) matchCounts(p *model.RawPlace) (tagMatches, keywordMatches int) {
	name := strings.ToLower(p.Name)
	for _, ex := range r.ExcludeTags {
		if p.HasTag(ex) {
			return -1, -1
		}
	}
	for _, ex := range r.ExcludeKeywords {
		if strings.Contains(name, ex) {
			return -1, -1
		}
	}
	for _, t := range r.Tags {
		if p.HasTag(t) {
			tagMatches++
		}
	}
	for _, kw := range r.Keywords {
		if strings.Contains(name, kw) {
			keywordMatches++
		}
	}
	return tagMatches, keywordMatches
}

// score implements the rule confidence formula:
// 2 x matching tags + matching keywords, plus the bar/liquor special case.
func (r *CategoryRule) score(p *model.RawPlace) int {
	tags, keywords := r.matchCounts(p)
	if tags < 0 {
		return -1
	}
	score := 2*tags + keywords
	if r.Category == model.CategoryBar && hasAnyTag(p, liquorSaleTags) && !hasAnyTag(p, genericRetailTags) {
		score++
	}
	return score
}

func hasAnyTag(p *model.RawPlace, tags []string) bool {
	for _, t := range tags {
		if p.HasTag(t) {
			return true
		}
	}
	return false
}
