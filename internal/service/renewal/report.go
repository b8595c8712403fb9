// internal/service/renewal/report.go
package renewal

import (
	"fmt"
	"time"

	"insurica-service/internal/domain/renewal"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const reportSheet = "Renewals"

var reportColumns = []string{
	"Policy Number", "Client Name", "Email", "Category",
	"Premium", "Expiry Date", "Days Remaining",
}

// premiumPrinter formats currency with en-IN digit grouping (1,00,000).
var premiumPrinter = message.NewPrinter(language.MustParse("en-IN"))

// Report is a built renewal spreadsheet ready for delivery.
type Report struct {
	Filename string
	Caption  string
	Data     []byte
}

// BuildReport renders one agent's expiring policies into an in-memory xlsx
// workbook. Row order follows the group's policy order; missing client name
// and email are replaced with "Unknown" and "N/A". Days remaining is
// computed against now with date-only arithmetic.
func BuildReport(group renewal.AgentGroup, window renewal.Window, now time.Time) (*Report, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), reportSheet)

	for i, col := range reportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(reportSheet, cell, col); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, p := range group.Policies {
		name := "Unknown"
		if p.ClientName.Valid && p.ClientName.String != "" {
			name = p.ClientName.String
		}
		email := "N/A"
		if p.ClientEmail.Valid && p.ClientEmail.String != "" {
			email = p.ClientEmail.String
		}

		row := []interface{}{
			p.PolicyNumber,
			name,
			email,
			p.Category,
			premiumPrinter.Sprintf("₹%.2f", p.Premium),
			p.EndDate.Format("02 Jan 2006"),
			renewal.DaysRemaining(p.EndDate, now),
		}

		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(reportSheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	return &Report{
		Filename: ReportFilename(window, group.AgentReference),
		Caption:  ReportCaption(window, len(group.Policies)),
		Data:     buf.Bytes(),
	}, nil
}

// ReportFilename builds Renewals_Next_Month_<Mon>_<Year>_<ref prefix>.xlsx.
func ReportFilename(window renewal.Window, agentReference string) string {
	ref := agentReference
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return fmt.Sprintf("Renewals_Next_Month_%s_%d_%s.xlsx",
		window.Start.Format("Jan"), window.Start.Year(), ref)
}

// ReportCaption names the target month in full.
func ReportCaption(window renewal.Window, policyCount int) string {
	plural := "policies"
	if policyCount == 1 {
		plural = "policy"
	}
	return fmt.Sprintf("Renewal report for %s: %d %s due for renewal.",
		window.Start.Format("January 2006"), policyCount, plural)
}
