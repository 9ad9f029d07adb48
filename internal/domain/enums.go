package domain

// ApplicationStatus is the review state of an application.
// Any status may overwrite any other; there is no enforced transition graph.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "Pending"
	StatusApproved ApplicationStatus = "Approved"
	StatusRejected ApplicationStatus = "Rejected"
)

func (s ApplicationStatus) String() string { return string(s) }

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ExportFormat selects the encoding of an application export.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

func (f ExportFormat) String() string { return string(f) }

func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportFormatCSV, ExportFormatXLSX:
		return true
	}
	return false
}
