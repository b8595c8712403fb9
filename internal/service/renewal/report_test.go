// internal/service/renewal/report_test.go
package renewal

import (
	"bytes"
	"database/sql"
	"testing"
	"time"

	"insurica-service/internal/domain/renewal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testWindow() renewal.Window {
	return renewal.NextMonthWindow(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC))
}

func testGroup() renewal.AgentGroup {
	return renewal.AgentGroup{
		AgentID:        7,
		AgentReference: "01HZXK3V9QWERTY",
		AgentPhone:     sql.NullString{String: "+254700111222", Valid: true},
		Policies: []renewal.ExpiringPolicy{
			{
				PolicyNumber: "POL-1001",
				Category:     "Health",
				Premium:      100000,
				EndDate:      time.Date(2025, time.April, 14, 0, 0, 0, 0, time.UTC),
				ClientName:   sql.NullString{String: "Asha Patel", Valid: true},
				ClientEmail:  sql.NullString{String: "asha@example.com", Valid: true},
			},
			{
				PolicyNumber: "POL-1002",
				Category:     "Life",
				Premium:      4500.5,
				EndDate:      time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestBuildReportRows(t *testing.T) {
	now := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	report, err := BuildReport(testGroup(), testWindow(), now)
	require.NoError(t, err)
	require.NotEmpty(t, report.Data)

	f, err := excelize.OpenReader(bytes.NewReader(report.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Renewals")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"Policy Number", "Client Name", "Email", "Category",
		"Premium", "Expiry Date", "Days Remaining",
	}, rows[0])

	assert.Equal(t, "POL-1001", rows[1][0])
	assert.Equal(t, "Asha Patel", rows[1][1])
	assert.Equal(t, "asha@example.com", rows[1][2])
	assert.Equal(t, "Health", rows[1][3])
	assert.Equal(t, "₹1,00,000.00", rows[1][4]) // en-IN digit grouping
	assert.Equal(t, "14 Apr 2025", rows[1][5])
	assert.Equal(t, "30", rows[1][6])

	// Missing client details fall back to placeholders.
	assert.Equal(t, "Unknown", rows[2][1])
	assert.Equal(t, "N/A", rows[2][2])
	assert.Equal(t, "₹4,500.50", rows[2][4])
}

func TestBuildReportIsDeterministic(t *testing.T) {
	now := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	a, err := BuildReport(testGroup(), testWindow(), now)
	require.NoError(t, err)
	b, err := BuildReport(testGroup(), testWindow(), now)
	require.NoError(t, err)

	fa, err := excelize.OpenReader(bytes.NewReader(a.Data))
	require.NoError(t, err)
	defer fa.Close()
	fb, err := excelize.OpenReader(bytes.NewReader(b.Data))
	require.NoError(t, err)
	defer fb.Close()

	rowsA, err := fa.GetRows("Renewals")
	require.NoError(t, err)
	rowsB, err := fb.GetRows("Renewals")
	require.NoError(t, err)
	assert.Equal(t, rowsA, rowsB)

	assert.Equal(t, a.Filename, b.Filename)
	assert.Equal(t, a.Caption, b.Caption)
}

func TestReportFilename(t *testing.T) {
	w := testWindow()

	assert.Equal(t, "Renewals_Next_Month_Apr_2025_01HZXK3V.xlsx",
		ReportFilename(w, "01HZXK3V9QWERTY"))

	// Short references are used whole.
	assert.Equal(t, "Renewals_Next_Month_Apr_2025_abc.xlsx", ReportFilename(w, "abc"))

	dec := renewal.NextMonthWindow(time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "Renewals_Next_Month_Jan_2026_abc.xlsx", ReportFilename(dec, "abc"))
}

func TestReportCaption(t *testing.T) {
	w := testWindow()
	assert.Equal(t, "Renewal report for April 2025: 3 policies due for renewal.", ReportCaption(w, 3))
	assert.Equal(t, "Renewal report for April 2025: 1 policy due for renewal.", ReportCaption(w, 1))
}
