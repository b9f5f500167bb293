package profiles

import (
	"fmt"
	"sort"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	AgeGroupPediatric = "pediatric"
	AgeGroupAdult     = "adult"
	AgeGroupSenior    = "senior"

	pediatricAgeLimit      = 18
	seniorAgeLimit         = 65
	polypharmacyThreshold  = 5
	multipleConditionLimit = 2
)

var ageGroupRecommendations = map[string][]string{
	AgeGroupPediatric: {
		"Regular pediatric checkups",
		"Vaccination schedule monitoring",
		"Growth and development tracking",
	},
	AgeGroupAdult: {
		"Annual health screenings",
		"Regular blood pressure checks",
		"Cholesterol monitoring",
	},
	AgeGroupSenior: {
		"Regular bone density screening",
		"Cardiovascular health monitoring",
		"Cognitive health assessments",
	},
}

type HealthInsights struct {
	ProfileId       string    `json:"profileId"`
	AgeGroup        *string   `json:"ageGroup,omitempty"`
	RiskFactors     []string  `json:"riskFactors"`
	Recommendations []string  `json:"recommendations"`
	HealthScore     float64   `json:"healthScore"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

func AgeGroup(age int) string {
	switch {
	case age < pediatricAgeLimit:
		return AgeGroupPediatric
	case age < seniorAgeLimit:
		return AgeGroupAdult
	default:
		return AgeGroupSenior
	}
}

// orderedSet keeps the insertion order of unique, non-blank strings
type orderedSet struct {
	seen  mapset.Set[string]
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: mapset.NewThreadUnsafeSet[string](), items: []string{}}
}

func (o *orderedSet) Add(items ...string) {
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		if o.seen.Add(item) {
			o.items = append(o.items, item)
		}
	}
}

func NewHealthInsights(profile Profile, now time.Time) HealthInsights {
	title := cases.Title(language.English)
	info := profile.HealthInfo

	insights := HealthInsights{
		ProfileId:   profile.Id,
		LastUpdated: now,
	}
	if age, ok := profile.Age(now); ok {
		group := AgeGroup(age)
		insights.AgeGroup = &group
	}

	risks := newOrderedSet()
	for _, condition := range info.ChronicConditions {
		if c := strings.TrimSpace(condition); c != "" {
			risks.Add(fmt.Sprintf("Chronic condition: %s", title.String(c)))
		}
	}
	if len(info.ChronicConditions) >= multipleConditionLimit {
		risks.Add("Multiple chronic conditions")
	}
	if len(info.Allergies) > 0 {
		risks.Add(fmt.Sprintf("Has %d known allergies", len(info.Allergies)))
	}
	if len(info.Medications) >= polypharmacyThreshold {
		risks.Add(fmt.Sprintf("Polypharmacy: %d medications", len(info.Medications)))
	}

	conditions := make([]string, 0, len(info.FamilyHistory))
	for condition, relatives := range info.FamilyHistory {
		if len(relatives) > 0 {
			conditions = append(conditions, condition)
		}
	}
	sort.Strings(conditions)
	for _, condition := range conditions {
		risks.Add(fmt.Sprintf("Family history of %s", condition))
	}

	recommendations := newOrderedSet()
	if insights.AgeGroup != nil {
		recommendations.Add(ageGroupRecommendations[*insights.AgeGroup]...)
	}
	if len(info.Medications) > 0 {
		recommendations.Add("Keep an up-to-date medication list")
	}
	if len(info.Medications) >= polypharmacyThreshold {
		recommendations.Add("Review medications with a pharmacist")
	}
	if len(info.Allergies) > 0 {
		recommendations.Add("Carry an allergy card")
	}
	if len(info.ChronicConditions) >= multipleConditionLimit {
		recommendations.Add("Coordinate care across specialists")
	}

	insights.RiskFactors = risks.items
	insights.Recommendations = recommendations.items
	insights.HealthScore = healthScore(len(info.ChronicConditions), len(insights.RiskFactors))
	return insights
}

func healthScore(chronicConditions, riskFactors int) float64 {
	score := 100.0 - float64(chronicConditions)*10 - float64(riskFactors)*5
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
