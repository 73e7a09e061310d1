package models

type Intent string

const (
	IntentConversion  Intent = "conversion"
	IntentRevenue     Intent = "revenue"
	IntentPipeline    Intent = "pipeline"
	IntentSector      Intent = "sector"
	IntentPerformance Intent = "performance"
	IntentCollection  Intent = "collection"
	IntentTrends      Intent = "trends"
	IntentLeadership  Intent = "leadership"
)

// IntentOrder is the fixed category order used for detection and display.
var IntentOrder = []Intent{
	IntentConversion,
	IntentRevenue,
	IntentPipeline,
	IntentSector,
	IntentPerformance,
	IntentCollection,
	IntentTrends,
	IntentLeadership,
}

// IntentSet is an ordered set of detected categories.
type IntentSet []Intent

func (s IntentSet) Has(i Intent) bool {
	for _, v := range s {
		if v == i {
			return true
		}
	}
	return false
}

func (s IntentSet) Strings() []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = string(v)
	}
	return out
}

// ParseIntentSet keeps known categories from names, in IntentOrder.
func ParseIntentSet(names []string) IntentSet {
	seen := make(map[Intent]bool, len(names))
	for _, n := range names {
		seen[Intent(n)] = true
	}
	set := IntentSet{}
	for _, i := range IntentOrder {
		if seen[i] {
			set = append(set, i)
		}
	}
	return set
}
