package domain

import "time"

// SubmittedLayout is the ISO-8601 layout used for the submitted timestamp
// in exports: UTC with millisecond precision.
const SubmittedLayout = "2006-01-02T15:04:05.000Z07:00"

// Application is a single scholarship application record.
// ID and Submitted are assigned once at creation and never change.
type Application struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Reg       string            `json:"reg"`
	Dept      string            `json:"dept"`
	Income    float64           `json:"income"`
	Reason    string            `json:"reason"`
	Status    ApplicationStatus `json:"status"`
	Submitted time.Time         `json:"submitted"`
}

// SubmittedISO returns Submitted formatted with SubmittedLayout in UTC.
func (a Application) SubmittedISO() string {
	return a.Submitted.UTC().Format(SubmittedLayout)
}

// IndexByID returns the position of the application with the given id,
// or -1 if no such application exists.
func IndexByID(apps []Application, id string) int {
	for i := range apps {
		if apps[i].ID == id {
			return i
		}
	}
	return -1
}

// FirstByReg returns the first application (in insertion order) whose Reg
// equals reg exactly. Matching is case-sensitive and never partial.
func FirstByReg(apps []Application, reg string) (Application, bool) {
	for _, a := range apps {
		if a.Reg == reg {
			return a, true
		}
	}
	return Application{}, false
}
