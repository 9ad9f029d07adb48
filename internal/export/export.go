// Package export renders application records as downloadable files.
package export

import "github.com/heartmarshall/scholarship-backend/internal/domain"

const (
	CSVContentType  = "text/csv"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	CSVFilename  = "applications.csv"
	XLSXFilename = "applications.xlsx"
)

// Columns is the header row shared by every export format.
var Columns = []string{"id", "name", "reg", "dept", "income", "status", "submitted"}

// row returns the export cells of app in Columns order.
func row(app domain.Application) []string {
	return []string{
		app.ID,
		app.Name,
		app.Reg,
		app.Dept,
		domain.FormatIncome(app.Income),
		app.Status.String(),
		app.SubmittedISO(),
	}
}
