package report

import (
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/hlra-health/profilesync/pointer"
	"github.com/hlra-health/profilesync/profiles"
)

const (
	SheetNameProfiles = "Profiles"
	SheetNameInsights = "Health Insights"
)

var profileHeader = []string{
	"Id", "Name", "Relationship", "Label", "Date Of Birth", "Gender", "Blood Type",
	"Phone", "Email", "Chronic Conditions", "Medications", "Allergies", "Emergency Contact", "Active",
}

var insightsHeader = []string{"Profile Id", "Name", "Age Group", "Health Score", "Risk Factors", "Recommendations"}

// Report is a spreadsheet export of the profiles of an account
type Report struct {
	set profiles.ProfileSet
	now time.Time
}

func NewReport(set profiles.ProfileSet, now time.Time) Report {
	return Report{set: set, now: now}
}

func (r Report) Generate() (*xlsx.File, error) {
	report := xlsx.NewFile()

	components := []func(report *xlsx.File) error{
		r.addProfilesSheet,
		r.addInsightsSheet,
	}
	for _, fn := range components {
		if err := fn(report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (r Report) addProfilesSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(SheetNameProfiles)
	if err != nil {
		return err
	}
	addHeader(sh, profileHeader)

	for _, p := range r.set.Profiles {
		row := sh.AddRow()
		row.AddCell().SetValue(p.Id)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(string(p.Relationship))
		row.AddCell().SetValue(pointer.ToString(p.RelationshipLabel))
		row.AddCell().SetValue(pointer.ToString(p.DateOfBirth))
		row.AddCell().SetValue(string(pointer.ToAny(p.Gender)))
		row.AddCell().SetValue(string(pointer.ToAny(p.BloodType)))
		row.AddCell().SetValue(pointer.ToString(p.Phone))
		row.AddCell().SetValue(pointer.ToString(p.Email))
		row.AddCell().SetValue(strings.Join(p.HealthInfo.ChronicConditions, ", "))
		row.AddCell().SetValue(strings.Join(p.HealthInfo.Medications, ", "))
		row.AddCell().SetValue(strings.Join(p.HealthInfo.Allergies, ", "))
		contact := ""
		if p.EmergencyContact != nil {
			contact = p.EmergencyContact.Name + " " + p.EmergencyContact.Phone
		}
		row.AddCell().SetValue(contact)
		active := ""
		if pointer.Equal(r.set.ActiveProfileId, &p.Id) {
			active = "yes"
		}
		row.AddCell().SetValue(active)
	}

	return nil
}

func (r Report) addInsightsSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(SheetNameInsights)
	if err != nil {
		return err
	}
	addHeader(sh, insightsHeader)

	for _, p := range r.set.Profiles {
		insights := profiles.NewHealthInsights(p, r.now)
		row := sh.AddRow()
		row.AddCell().SetValue(p.Id)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(pointer.ToString(insights.AgeGroup))
		row.AddCell().SetFloat(insights.HealthScore)
		row.AddCell().SetValue(strings.Join(insights.RiskFactors, "; "))
		row.AddCell().SetValue(strings.Join(insights.Recommendations, "; "))
	}

	return nil
}

func addHeader(sh *xlsx.Sheet, columns []string) {
	row := sh.AddRow()
	for _, column := range columns {
		row.AddCell().SetValue(column)
	}
}
