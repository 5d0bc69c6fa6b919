package signal

import "strings"

// Signal labels used across the engines. Audience fit and hot-area selection
// key on these names, so they are constants rather than free strings.
const (
	LabelHypermarket    = "hypermarket"
	LabelTransportHub   = "transport_hub"
	LabelStation        = "station"
	LabelGov            = "gov"
	LabelConvenience    = "convenience"
	LabelUniversity     = "university"
	LabelStudentHousing = "student_housing"
	LabelWorkplace      = "workplace"
	LabelParking        = "parking"
	LabelResidential    = "residential"
	LabelMedical        = "medical"
	LabelPark           = "park"
	LabelSchool         = "school"
	LabelKids           = "kids"
	LabelSeniorCenter   = "senior_center"
	LabelLodging        = "lodging"
	LabelTouristSpot    = "tourist_spot"
	LabelFitness        = "fitness"
	LabelMarket         = "market"
)

// labelKeywords maps each signal label to the keyword queries that surface it.
var labelKeywords = map[string][]string{
	LabelHypermarket:    {"hypermarket", "warehouse club", "big box store"},
	LabelTransportHub:   {"bus terminal", "transit center"},
	LabelStation:        {"subway station", "train station"},
	LabelGov:            {"city hall", "government office", "community center"},
	LabelConvenience:    {"convenience store"},
	LabelUniversity:     {"university", "college"},
	LabelStudentHousing: {"student housing", "dormitory"},
	LabelWorkplace:      {"office building", "business park"},
	LabelParking:        {"public parking", "parking garage"},
	LabelResidential:    {"apartment complex", "residential complex"},
	LabelMedical:        {"hospital", "clinic"},
	LabelPark:           {"park"},
	LabelSchool:         {"elementary school", "middle school", "high school"},
	LabelKids:           {"kids cafe", "daycare", "playground"},
	LabelSeniorCenter:   {"senior center", "welfare center"},
	LabelLodging:        {"hotel", "motel", "guesthouse"},
	LabelTouristSpot:    {"tourist attraction", "landmark"},
	LabelFitness:        {"fitness center", "gym", "pilates"},
	LabelMarket:         {"traditional market", "street market"},
}

// baseLabels are always collected regardless of the stated audience.
var baseLabels = []string{LabelHypermarket, LabelTransportHub, LabelGov, LabelConvenience}

// audienceLabels lists the extra labels each audience marker pulls in.
var audienceLabels = []struct {
	markers []string
	labels  []string
}{
	{[]string{"student", "college", "university"}, []string{LabelUniversity, LabelStudentHousing}},
	{[]string{"office", "worker", "work"}, []string{LabelWorkplace, LabelParking}},
	{[]string{"family", "families", "parent"}, []string{LabelResidential, LabelMedical, LabelPark, LabelSchool, LabelKids}},
	{[]string{"senior", "elder", "retire"}, []string{LabelMedical, LabelSeniorCenter, LabelResidential, LabelPark}},
	{[]string{"tourist", "travel", "visitor"}, []string{LabelLodging, LabelTouristSpot}},
	{[]string{"commut"}, []string{LabelStation, LabelTransportHub, LabelParking}},
	{[]string{"kid", "child"}, []string{LabelKids, LabelSchool, LabelPark}},
	{[]string{"night", "late"}, []string{LabelLodging, LabelTransportHub, LabelWorkplace, LabelConvenience}},
	{[]string{"fitness", "gym", "health"}, []string{LabelFitness, LabelPark}},
}

// LabelsFor returns the ordered, de-duplicated label set to collect for a
// free-text audience description. The base labels always lead.
func LabelsFor(targetAudience string) []string {
	out := make([]string, 0, len(baseLabels)+4)
	seen := make(map[string]struct{}, len(baseLabels)+4)
	add := func(labels ...string) {
		for _, l := range labels {
			if _, dup := seen[l]; dup {
				continue
			}
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}

	add(baseLabels...)
	audience := strings.ToLower(targetAudience)
	for _, a := range audienceLabels {
		for _, m := range a.markers {
			if strings.Contains(audience, m) {
				add(a.labels...)
				break
			}
		}
	}
	return out
}
