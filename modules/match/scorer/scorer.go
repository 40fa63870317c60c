// Package scorer computes how a member's preferences overlap with a group's.
// Every function is total: empty or missing input yields a neutral result.
package scorer

import (
	"fmt"
	"math"
	"strings"

	"weekend-match-api/modules/match/entity"

	"github.com/google/uuid"
)

const (
	MaxSharedInterests = 5
	UnknownCity        = "Unknown"
	VariousSpecialties = "Various"
)

type SpecialtyMatchType string

const (
	SpecialtySame      SpecialtyMatchType = "same"
	SpecialtyRelated   SpecialtyMatchType = "related"
	SpecialtyDifferent SpecialtyMatchType = "different"
)

type SpecialtyMatch struct {
	Type  SpecialtyMatchType `json:"type"`
	Value string             `json:"value"`
}

type LocationMatch struct {
	City             string `json:"city"`
	SameNeighborhood bool   `json:"sameNeighborhood"`
}

// CalculateSpecialtyMatch compares the user's specialty with the members'. Blank
// specialties are ignored.
func CalculateSpecialtyMatch(userSpecialty string, memberSpecialties []string) SpecialtyMatch {
	distinct := distinctNonBlank(memberSpecialties)
	user := strings.TrimSpace(userSpecialty)

	switch {
	case len(distinct) == 0:
		return SpecialtyMatch{Type: SpecialtyDifferent, Value: VariousSpecialties}
	case user != "" && contains(distinct, user):
		return SpecialtyMatch{Type: SpecialtySame, Value: user}
	case len(distinct) == 1:
		return SpecialtyMatch{Type: SpecialtyRelated, Value: distinct[0]}
	default:
		return SpecialtyMatch{Type: SpecialtyRelated, Value: fmt.Sprintf("%d specialties", len(distinct))}
	}
}

// CalculateLocationMatch picks the most common member city (first seen wins a tie),
// falling back to the user's city and then to UnknownCity.
func CalculateLocationMatch(userCity, userNeighborhood string, memberCities, memberNeighborhoods []string) LocationMatch {
	city := mostCommon(memberCities)
	if city == "" {
		city = strings.TrimSpace(userCity)
	}
	if city == "" {
		city = UnknownCity
	}

	hood := strings.TrimSpace(userNeighborhood)
	same := hood != "" && contains(distinctNonBlank(memberNeighborhoods), hood)

	return LocationMatch{City: city, SameNeighborhood: same}
}

// FindSharedInterests returns the user's interest tags that any member also has, in the
// user's order, without duplicates, capped at MaxSharedInterests.
func FindSharedInterests(user entity.Profile, members []entity.Profile) []string {
	memberTags := make(map[string]struct{})
	for _, m := range members {
		for _, tag := range m.InterestTags() {
			memberTags[tag] = struct{}{}
		}
	}
	return intersect(user.InterestTags(), memberTags, MaxSharedInterests)
}

// FindSharedAvailability returns the user's availability tags any member shares.
func FindSharedAvailability(user entity.Profile, members []entity.Profile) []string {
	memberSlots := make(map[string]struct{})
	for _, m := range members {
		for _, slot := range m.Availability {
			memberSlots[slot] = struct{}{}
		}
	}
	return intersect(user.Availability, memberSlots, 0)
}

// AverageMatchScore averages the non-negative scores present for memberIDs, rounded to
// one decimal. It returns nil, not zero, when none of the members has a score.
func AverageMatchScore(scores map[uuid.UUID]float64, memberIDs []uuid.UUID) *float64 {
	seen := make(map[uuid.UUID]struct{}, len(memberIDs))
	var sum float64
	var n int
	for _, id := range memberIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		s, ok := scores[id]
		if !ok || s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			continue
		}
		sum += s
		n++
	}
	if n == 0 {
		return nil
	}
	avg := math.Round(sum/float64(n)*10) / 10
	return &avg
}

// intersect keeps tags present in set, in order and deduplicated. limit <= 0 means no cap.
func intersect(tags []string, set map[string]struct{}, limit int) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, tag := range tags {
		if _, ok := set[tag]; !ok {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func distinctNonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{})
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func mostCommon(values []string) string {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	best, bestCount := "", 0
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
