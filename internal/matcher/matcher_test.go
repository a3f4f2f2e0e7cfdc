package matcher

import (
	"testing"

	"github.com/khrees2412/stageconnect/pkg/models"
)

func boolPtr(b bool) *bool { return &b }

var sampleOffers = []models.Offer{
	{ID: 1, Title: "Go backend intern", Organisme: "Acme", ContactEmail: "Marc@Univ.fr", State: models.OfferPendingValidation, Remote: boolPtr(true)},
	{ID: 2, Title: "Data analyst", Organisme: "Globex", ContactEmail: "anne@univ.fr", State: models.OfferValidated, City: "Lyon"},
	{ID: 3, Title: "Frontend intern", Organisme: "Acme", ContactEmail: "marc@univ.fr", State: models.OfferClosed, Remote: boolPtr(false)},
	{ID: 4, Title: "DevOps", Organisme: "Initech", ContactEmail: "marc@univ.fr", State: models.OfferValidated, Description: "Kubernetes and Go"},
}

func ids(offers []models.Offer) []int {
	out := []int{}
	for _, o := range offers {
		out = append(out, o.ID)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterOffers(t *testing.T) {
	tests := []struct {
		name     string
		criteria OfferCriteria
		expected []int
	}{
		{
			name:     "no criteria",
			criteria: OfferCriteria{},
			expected: []int{1, 2, 3, 4},
		},
		{
			name:     "contact email ignores case",
			criteria: OfferCriteria{ContactEmail: "MARC@univ.fr"},
			expected: []int{1, 3, 4},
		},
		{
			name:     "contact and state",
			criteria: OfferCriteria{ContactEmail: "marc@univ.fr", States: []models.OfferState{models.OfferValidated}},
			expected: []int{4},
		},
		{
			name:     "several states",
			criteria: OfferCriteria{States: []models.OfferState{models.OfferPendingValidation, models.OfferClosed}},
			expected: []int{1, 3},
		},
		{
			name:     "text in title or description",
			criteria: OfferCriteria{Text: "go"},
			expected: []int{1, 4},
		},
		{
			name:     "text in organisme",
			criteria: OfferCriteria{Text: "ACME"},
			expected: []int{1, 3},
		},
		{
			name:     "remote only",
			criteria: OfferCriteria{RemoteOnly: true},
			expected: []int{1},
		},
		{
			name:     "nothing matches",
			criteria: OfferCriteria{ContactEmail: "nobody@univ.fr"},
			expected: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterOffers(sampleOffers, tt.criteria))
			if !equalInts(got, tt.expected) {
				t.Errorf("FilterOffers() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCountByState(t *testing.T) {
	counts := CountByState(sampleOffers)
	expected := map[models.OfferState]int{
		models.OfferPendingValidation: 1,
		models.OfferValidated:         2,
		models.OfferRefused:           0,
		models.OfferClosed:            1,
	}
	for state, n := range expected {
		if counts[state] != n {
			t.Errorf("counts[%q] = %d, expected %d", state, counts[state], n)
		}
	}
}

func TestFilterCandidatures(t *testing.T) {
	cands := []models.Candidature{
		{ID: 1, Status: models.CandidaturePending},
		{ID: 2, Status: models.CandidatureAccepted},
		{ID: 3, Status: models.CandidaturePending},
	}

	if got := FilterCandidatures(cands, ""); len(got) != 3 {
		t.Errorf("empty status kept %d, expected 3", len(got))
	}
	got := FilterCandidatures(cands, models.CandidaturePending)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("pending = %+v", got)
	}
	if got := FilterCandidatures(cands, models.CandidatureRefused); len(got) != 0 {
		t.Errorf("refused = %+v", got)
	}
}
