// Package category holds the caller-facing category allow-list and the POI
// category-code registry the indicator engine scans.
package category

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Categories is the ordered caller-facing allow-list. Order matters for
// deterministic fallbacks, so this is a slice rather than a set.
var Categories = []string{
	"cafe/bakery",
	"restaurant/bar",
	"retail/convenience",
	"medical/pharmacy",
	"education/academy",
	"leisure/sports",
	"fashion/accessories",
	"beauty/care",
	"culture/hobby",
	"lodging",
	"logistics",
	"realestate/finance",
	"services",
	"popup/showroom",
	"other",
}

// Other is the catch-all bucket; it is excluded from recommendation targets.
const Other = "other"

// inputAliases folds common user spellings into allow-list entries before
// validation. Applied after canonicalization.
var inputAliases = map[string]string{
	"mart":              "retail/convenience",
	"supermarket":       "retail/convenience",
	"convenience store": "retail/convenience",
	"convenience":       "retail/convenience",
	"cafe/dessert":      "cafe/bakery",
	"cafe":              "cafe/bakery",
	"bakery":            "cafe/bakery",
	"restaurant":        "restaurant/bar",
	"diner":             "restaurant/bar",
	"bar/pub":           "restaurant/bar",
	"beauty":            "beauty/care",
	"beauty/salon":      "beauty/care",
	"office/coworking":  "services",
	"warehouse":         "logistics",
	"clinic":            "medical/pharmacy",
	"pharmacy":          "medical/pharmacy",
	"academy":           "education/academy",
	"education":         "education/academy",
}

var slashSpacing = regexp.MustCompile(`\s*/\s*`)

// Canonicalize normalizes a category spelling: NFKC folding (fullwidth
// punctuation from pasted input), lowercase, trimmed, and slash spacing
// collapsed ("cafe / bakery" -> "cafe/bakery").
func Canonicalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	return slashSpacing.ReplaceAllString(s, "/")
}

// Resolve canonicalizes and applies input aliases.
func Resolve(s string) string {
	t := Canonicalize(s)
	if a, ok := inputAliases[t]; ok {
		return a
	}
	return t
}

// IsAllowed reports whether a canonical spelling belongs to the allow-list.
func IsAllowed(s string) bool {
	t := Canonicalize(s)
	for _, c := range Categories {
		if c == t {
			return true
		}
	}
	return false
}

// AllowedTargets returns the allow-list without the catch-all bucket.
func AllowedTargets() []string {
	out := make([]string, 0, len(Categories)-1)
	for _, c := range Categories {
		if c != Other {
			out = append(out, c)
		}
	}
	return out
}

// registryBuckets maps business-registry large-category names into
// caller-facing categories. Unknown names land in Other.
var registryBuckets = map[string]string{
	"food service":       "restaurant/bar",
	"retail":             "retail/convenience",
	"lodging":            "lodging",
	"real estate":        "realestate/finance",
	"finance/insurance":  "realestate/finance",
	"health/welfare":     "medical/pharmacy",
	"education":          "education/academy",
	"arts/sports":        "leisure/sports",
	"transport/storage":  "logistics",
	"repair/personal":    "services",
	"facility/rental":    "services",
	"science/technical":  "services",
	"information/comms":  "services",
	"public":             Other,
	"manufacturing":      Other,
}

// BucketsToCategories folds registry large-category counts into caller-facing
// category counts, merging buckets that map to the same category.
func BucketsToCategories(lcls map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(lcls))
	for name, n := range lcls {
		cat, ok := registryBuckets[Canonicalize(name)]
		if !ok {
			cat = Other
		}
		out[cat] += n
	}
	return out
}

// POI internal groups accumulated by the indicator engine.
const (
	GroupFood       = "FOOD"
	GroupCafe       = "CAFE"
	GroupRetail     = "RETAIL"
	GroupHealth     = "HEALTH"
	GroupEdu        = "EDU"
	GroupLeisure    = "LEISURE"
	GroupLodge      = "LODGE"
	GroupFinance    = "FINANCE"
	GroupRealEstate = "REAL_ESTATE"
	GroupPublic     = "PUBLIC"
	GroupParking    = "PARKING"
	GroupGas        = "GAS"
	GroupTransit    = "TRANSIT"
)

// POICode is one entry of the places-search category taxonomy.
type POICode struct {
	Code   string
	Group  string
	Anchor bool
}

// POICodes is the closed set of place-search category codes, each mapped to an
// internal group. Anchor codes mark strong foot-traffic generators whose named
// documents feed anchor extraction.
var POICodes = []POICode{
	{Code: "hypermarket", Group: GroupRetail, Anchor: true},
	{Code: "convenience_store", Group: GroupRetail},
	{Code: "bank", Group: GroupFinance},
	{Code: "realty", Group: GroupRealEstate},
	{Code: "public_office", Group: GroupPublic},
	{Code: "parking_lot", Group: GroupParking},
	{Code: "fuel_station", Group: GroupGas},
	{Code: "restaurant", Group: GroupFood},
	{Code: "cafe", Group: GroupCafe},
	{Code: "kindergarten", Group: GroupEdu},
	{Code: "school", Group: GroupEdu, Anchor: true},
	{Code: "academy", Group: GroupEdu},
	{Code: "hospital", Group: GroupHealth},
	{Code: "pharmacy", Group: GroupHealth},
	{Code: "culture", Group: GroupLeisure},
	{Code: "attraction", Group: GroupLeisure},
	{Code: "lodging", Group: GroupLodge},
	{Code: "subway_station", Group: GroupTransit, Anchor: true},
}

// groupGuess maps a dominant POI group to the category recommended when the
// model returns nothing usable.
var groupGuess = map[string]string{
	GroupCafe:       "cafe/bakery",
	GroupFood:       "restaurant/bar",
	GroupRetail:     "retail/convenience",
	GroupHealth:     "medical/pharmacy",
	GroupEdu:        "education/academy",
	GroupLeisure:    "leisure/sports",
	GroupLodge:      "lodging",
	GroupFinance:    "realestate/finance",
	GroupRealEstate: "realestate/finance",
}

// GuessFromGroups picks a fallback category from the largest POI group,
// constrained to the allowed list. With no signal it returns the first
// allowed category.
func GuessFromGroups(counts map[string]int64, allowed []string) string {
	best := GroupFood
	var bestN int64 = -1
	for g, n := range counts {
		if n > bestN || (n == bestN && g < best) {
			best, bestN = g, n
		}
	}
	guess, ok := groupGuess[best]
	if !ok {
		guess = Other
	}
	for _, a := range allowed {
		if a == guess {
			return guess
		}
	}
	if len(allowed) > 0 {
		return allowed[0]
	}
	return guess
}
