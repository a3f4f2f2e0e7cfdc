package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/khrees2412/stageconnect/pkg/models"
	"gopkg.in/yaml.v3"
)

func sampleOffer() models.Offer {
	remote := true
	return models.Offer{
		ID:               7,
		Organisme:        "Acme",
		ContactName:      "Marc Dupont",
		ContactEmail:     "marc@univ.fr",
		DateDepot:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Title:            "Go backend intern",
		Description:      "Build services",
		State:            models.OfferValidated,
		CandidatureCount: 3,
		HasApplied:       true,
		City:             "Lyon",
		Remote:           &remote,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{" JSON ", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOffersTable(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &bytes.Buffer{}, FormatTable)

	if err := p.Offers([]models.Offer{sampleOffer()}); err != nil {
		t.Fatalf("Offers() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{"Go backend intern", "Acme", "Lyon", "Validated", "3", "✓", "Mar 1, 2024"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q:\n%s", want, got)
		}
	}
}

func TestOffersEmpty(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &bytes.Buffer{}, FormatTable)
	if err := p.Offers(nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No offers found") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestOffersJSONKeepsWireValues(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &bytes.Buffer{}, FormatJSON)
	if err := p.Offers([]models.Offer{sampleOffer()}); err != nil {
		t.Fatal(err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(decoded) != 1 || decoded[0]["state"] != string(models.OfferValidated) {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestUserYAML(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &bytes.Buffer{}, FormatYAML)
	role := models.RoleManager
	if err := p.User(models.User{ID: 1, Username: "marc", Email: "marc@univ.fr", Role: &role}); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if decoded["username"] != "marc" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestUserDetails(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &bytes.Buffer{}, FormatTable)
	if err := p.User(models.User{Username: "marc", Email: "marc@univ.fr"}); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "marc@univ.fr") || !strings.Contains(got, "none") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestStats(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &bytes.Buffer{}, FormatTable)
	stats := models.DashboardStats{
		TotalOffers:          4,
		ValidatedOffers:      2,
		TotalCandidatures:    4,
		AcceptedCandidatures: 1,
		CandidaturesByMonth:  []models.MonthCount{{Month: "2024-03", Count: 4}},
		OffersByMonth:        []models.MonthCount{{Month: "2024-03", Count: 2}},
		TopOffers:            []models.TitleCount{{Title: "Data analyst", Count: 3}},
		CandidaturesByStatus: []models.StatusCount{{Status: models.CandidatureAccepted, Count: 1}},
	}
	if err := p.Stats(stats); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"Dashboard Statistics", "Total", "2024-03", "Data analyst", "Accepted", "25.0%"} {
		if !strings.Contains(got, want) {
			t.Errorf("stats output missing %q:\n%s", want, got)
		}
	}
}

func TestNotificationsGoToErrOut(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, FormatJSON)
	p.Success("applied to offer %d", 7)
	p.Warn("logout request failed")

	if out.Len() != 0 {
		t.Errorf("notifications leaked into stdout: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "applied to offer 7") || !strings.Contains(errOut.String(), "logout request failed") {
		t.Errorf("errOut = %q", errOut.String())
	}
}

func TestLabelsAndHumanize(t *testing.T) {
	if got := Humanize("pending_offers"); got != "Pending Offers" {
		t.Errorf("Humanize() = %q", got)
	}
	if got := StateLabel("Inconnu"); got != "Inconnu" {
		t.Errorf("unknown state label = %q", got)
	}
	if got := truncate("a  very\nlong title", 8); got != "a very …" {
		t.Errorf("truncate() = %q", got)
	}
}
