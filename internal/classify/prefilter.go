package classify

import (
	"regexp"
	"strings"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

// Administrative/political boundary tags. A result carrying any of these is a
// region, not a venue, and is never a POI.
var administrativeTags = map[string]struct{}{
	"locality":                    {},
	"sublocality":                 {},
	"sublocality_level_1":         {},
	"political":                   {},
	"country":                     {},
	"administrative_area_level_1": {},
	"administrative_area_level_2": {},
	"administrative_area_level_3": {},
	"neighborhood":                {},
	"colloquial_area":             {},
	"postal_code":                 {},
}

// Tags too generic to identify a venue on their own.
var genericTags = map[string]struct{}{
	"establishment":     {},
	"point_of_interest": {},
	"route":             {},
	"premise":           {},
	"subpremise":        {},
	"street_address":    {},
	"geocode":           {},
	"plus_code":         {},
}

// Names the gateway returns for saved/relative locations rather than venues.
var placeholderNames = map[string]struct{}{
	"home":             {},
	"work":             {},
	"my location":      {},
	"current location": {},
	"here":             {},
}

var (
	streetNumberRe = regexp.MustCompile(`\b\d{1,6}\b`)
	streetTypeRe   = regexp.MustCompile(`(?i)\b(st|street|ave|avenue|blvd|boulevard|rd|road|dr|drive|ln|lane|ct|court|hwy|highway|way|suite|ste|unit)\b`)
)

// hasAdministrativeTag reports whether any tag marks a political boundary.
func hasAdministrativeTag(p *model.RawPlace) bool {
	for _, t := range p.Tags {
		if _, ok := administrativeTags[t]; ok {
			return true
		}
	}
	return false
}

// allTagsGeneric reports whether every tag is from the too-generic set.
// A place with no tags at all has nothing identifying it either.
func allTagsGeneric(p *model.RawPlace) bool {
	for _, t := range p.Tags {
		if _, ok := genericTags[t]; !ok {
			return false
		}
	}
	return true
}

// isPlaceholderName reports whether the name is a known non-venue string.
func isPlaceholderName(name string) bool {
	_, ok := placeholderNames[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// looksLikeAddress reports whether the name resembles a street address:
// a 1-6 digit number together with a street-type word.
func looksLikeAddress(name string) bool {
	return streetNumberRe.MatchString(name) && streetTypeRe.MatchString(name)
}

// isGenericOrAddressLike is the shared heuristic for "this is not a real
// venue": nothing but generic tags, and a placeholder or address-shaped name.
func isGenericOrAddressLike(p *model.RawPlace) bool {
	return allTagsGeneric(p) && (isPlaceholderName(p.Name) || looksLikeAddress(p.Name))
}

// eligible is the stage-1 pre-filter: drop boundaries and generic/address
// results before any categorization work happens.
func eligible(p *model.RawPlace) bool {
	if hasAdministrativeTag(p) {
		return false
	}
	if isGenericOrAddressLike(p) {
		return false
	}
	return true
}
