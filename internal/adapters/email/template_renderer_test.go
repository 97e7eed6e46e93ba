package email

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRenderer_Render(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	r := NewTemplateRenderer()

	tests := []struct {
		name        string
		template    string
		data        map[string]any
		wantSubject string
		htmlHas     []string
	}{
		{
			name:     "submission_receipt",
			template: "submission_receipt",
			data: map[string]any{
				"PocName":         "Ada Lovelace",
				"OrgName":         "Analytical Engines Ltd",
				"EventTitle":      "Women in Tech Meetup",
				"ReferenceCode":   "PR-M7T2K9QX-ABCD",
				"Hub":             "NAIROBI",
				"EventDate":       "Monday, 24 March 2025",
				"StartTime":       "10:00",
				"EndTime":         "12:00",
				"AttendeeCount":   120,
				"PartnershipType": "VENUE",
				"TrackURL":        "https://partners.example.com/track/PR-M7T2K9QX-ABCD",
			},
			wantSubject: "We received your partnership request (PR-M7T2K9QX-ABCD)",
			htmlHas:     []string{"<strong>PR-M7T2K9QX-ABCD</strong>", `href="https://partners.example.com/track/PR-M7T2K9QX-ABCD"`},
		},
		{
			name:     "status_changed",
			template: "status_changed",
			data: map[string]any{
				"PocName":       "Ada Lovelace",
				"EventTitle":    "Women in Tech Meetup",
				"ReferenceCode": "PR-M7T2K9QX-ABCD",
				"OldStatus":     "New",
				"NewStatus":     "Under review",
				"TrackURL":      "https://partners.example.com/track/PR-M7T2K9QX-ABCD",
			},
			wantSubject: "Your partnership request PR-M7T2K9QX-ABCD is now Under review",
			htmlHas:     []string{"<strong>Under review</strong>"},
		},
		{
			name:     "assignment_created",
			template: "assignment_created",
			data: map[string]any{
				"AssigneeName":  "Grace Hopper",
				"EventTitle":    "Women in Tech Meetup",
				"ReferenceCode": "PR-M7T2K9QX-ABCD",
				"OrgName":       "Analytical Engines Ltd",
				"Hub":           "NAIROBI",
				"EventDate":     "Monday, 24 March 2025",
				"DashboardURL":  "https://partners.example.com/dashboard/requests/42",
			},
			wantSubject: "New assignment: Women in Tech Meetup (PR-M7T2K9QX-ABCD)",
			htmlHas:     []string{"Hi Grace Hopper,", `href="https://partners.example.com/dashboard/requests/42"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, html, text, err := r.Render(tt.template, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSubject, subject)
			for _, s := range tt.htmlHas {
				assert.Contains(t, html, s)
			}
			g.Assert(t, tt.name+"_text", []byte(text))
		})
	}
}

func TestTemplateRenderer_EscapesHTML(t *testing.T) {
	r := NewTemplateRenderer()
	_, html, text, err := r.Render("status_changed", map[string]any{
		"PocName":       "<script>alert(1)</script>",
		"EventTitle":    "Launch",
		"ReferenceCode": "PR-1",
		"OldStatus":     "New",
		"NewStatus":     "Approved",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, text, "<script>")
	assert.NotContains(t, text, "Track your request")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r := NewTemplateRenderer()
	_, _, _, err := r.Render("does_not_exist", nil)
	assert.Error(t, err)
}
