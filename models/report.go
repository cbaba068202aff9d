// File: models/report.go
package models

import "time"

type ReportFormat string

const (
	FormatPDF   ReportFormat = "PDF"
	FormatExcel ReportFormat = "EXCEL"
)

// Extension returns the file extension written for the format.
func (f ReportFormat) Extension() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return "pdf"
}

type ReportType string

const (
	ReportFeedback        ReportType = "feedback"
	ReportPharmacyRatings ReportType = "pharmacy_ratings"
	ReportEmployeeRatings ReportType = "employee_ratings"
	ReportSuggestions     ReportType = "suggestions"
	ReportClientContacts  ReportType = "client_contacts"
	ReportSummary         ReportType = "summary"
)

// ReportTypes lists every report the generator knows how to build.
var ReportTypes = []ReportType{
	ReportFeedback,
	ReportPharmacyRatings,
	ReportEmployeeRatings,
	ReportSuggestions,
	ReportClientContacts,
	ReportSummary,
}

// DateRange is an inclusive start / exclusive end window.
type DateRange struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// Report tracks one generated artifact on disk.
type Report struct {
	ID            string       `bson:"id" json:"id"`
	Name          string       `bson:"name" json:"name"`
	Format        ReportFormat `bson:"format" json:"format"`
	Size          int64        `bson:"size" json:"size"`
	Type          ReportType   `bson:"type" json:"type"`
	FilePath      string       `bson:"filePath" json:"filePath"`
	RemoteID      string       `bson:"remoteId,omitempty" json:"remoteId,omitempty"`
	GeneratedBy   string       `bson:"generatedBy" json:"generatedBy"`
	DateRange     *DateRange   `bson:"dateRange,omitempty" json:"dateRange,omitempty"`
	EmployeeID    string       `bson:"employeeId,omitempty" json:"employeeId,omitempty"`
	Sentiment     string       `bson:"sentiment,omitempty" json:"sentiment,omitempty"`
	DownloadCount int          `bson:"downloadCount" json:"downloadCount"`
	CreatedAt     time.Time    `bson:"createdAt" json:"createdAt"`
}
