// Package export renders a yatra plan for printing.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/ukydev/yatra-planner/internal/models"
)

var columns = []struct {
	title string
	width float64
}{
	{"Destination", 50},
	{"Location", 45},
	{"Visit date", 25},
	{"Travel mode", 35},
	{"Priority", 20},
}

// ItineraryPDF writes a one-page A4 itinerary of items followed by the cost
// breakdown. Items are printed in the order given.
func ItineraryPDF(w io.Writer, items []models.PlanItem, settings models.PlanSettings, breakdown models.CostBreakdown) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; characters outside it are dropped
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle("Yatra Itinerary", true)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Yatra Itinerary")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	party := fmt.Sprintf("Party of %d", settings.NumberOfPersons)
	if settings.StartDate != "" {
		party += ", starting " + settings.StartDate
	}
	pdf.Cell(0, 7, party)
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("%s stay, %s food, travel by %s",
		settings.AccommodationTier, settings.FoodPreference, settings.TransportMode))
	pdf.Ln(7)
	for _, m := range settings.FamilyMembers {
		pdf.Cell(0, 6, tr("  - "+m.Name))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 228, 200)
	for _, c := range columns {
		pdf.CellFormat(c.width, 8, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	if len(items) == 0 {
		pdf.CellFormat(175, 8, "No destinations planned yet.", "1", 1, "C", false, 0, "")
	}
	for _, item := range items {
		row := []string{
			item.Destination.Name,
			item.Destination.Location,
			item.VisitDate,
			string(item.TravelMode),
			string(item.Priority),
		}
		for i, c := range columns {
			pdf.CellFormat(c.width, 8, tr(fit(pdf, row[i], c.width-2)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Estimated cost")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	lines := []struct {
		label string
		value string
	}{
		{"Total days", fmt.Sprintf("%d", breakdown.TotalDays)},
		{"Accommodation", rupees(breakdown.AccommodationCost)},
		{"Transport", rupees(breakdown.TransportCost)},
		{"Darshan and entry", rupees(breakdown.DestinationEntryCost)},
		{"Total", rupees(breakdown.TotalCost)},
		{"Carbon footprint", fmt.Sprintf("%.1f kg CO2", breakdown.CarbonFootprint)},
	}
	for _, l := range lines {
		pdf.CellFormat(60, 7, l.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, l.value, "", 1, "R", false, 0, "")
	}
	if settings.Budget > 0 {
		pdf.CellFormat(60, 7, "Budget", "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, rupees(settings.Budget), "", 1, "R", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render itinerary: %w", err)
	}
	return pdf.Output(w)
}

// fit truncates s with an ellipsis so it renders within width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return strings.TrimSpace(string(r)) + "..."
}

// rupees formats v with Indian digit grouping, e.g. 1,23,456.
func rupees(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		s = strings.Join(groups, ",") + "," + tail
	}
	if neg {
		s = "-" + s
	}
	return "Rs. " + s
}
