// File: models/settings.go
package models

import "time"

// SettingsKey identifies the singleton settings document.
const SettingsKey = "global"

type DisplaySettings struct {
	PharmacyName       string `bson:"pharmacyName" json:"pharmacyName"`
	ShowEmployeePhotos bool   `bson:"showEmployeePhotos" json:"showEmployeePhotos"`
	ShowPositions      bool   `bson:"showPositions" json:"showPositions"`
	KioskResetSeconds  int    `bson:"kioskResetSeconds" json:"kioskResetSeconds"`
}

type FeedbackPageSettings struct {
	EnablePharmacyRating bool `bson:"enablePharmacyRating" json:"enablePharmacyRating"`
	EnableEmployeeRating bool `bson:"enableEmployeeRating" json:"enableEmployeeRating"`
	EnableSuggestions    bool `bson:"enableSuggestions" json:"enableSuggestions"`
	EnableClientForm     bool `bson:"enableClientForm" json:"enableClientForm"`
	RequireConsent       bool `bson:"requireConsent" json:"requireConsent"`
}

type ReportSettings struct {
	LogoText             string       `bson:"logoText" json:"logoText"`
	FooterText           string       `bson:"footerText" json:"footerText"`
	MonthlyReportEnabled bool         `bson:"monthlyReportEnabled" json:"monthlyReportEnabled"`
	MonthlyReportFormat  ReportFormat `bson:"monthlyReportFormat" json:"monthlyReportFormat"`
}

type SessionSettings struct {
	DefaultInactivityTimeout int `bson:"defaultInactivityTimeout" json:"defaultInactivityTimeout"`
	SweepAfterMinutes        int `bson:"sweepAfterMinutes" json:"sweepAfterMinutes"`
}

// Settings is the singleton back-office configuration document.
type Settings struct {
	Key          string               `bson:"key" json:"-"`
	Display      DisplaySettings      `bson:"display" json:"display"`
	FeedbackPage FeedbackPageSettings `bson:"feedbackPage" json:"feedbackPage"`
	Reports      ReportSettings       `bson:"reports" json:"reports"`
	Sessions     SessionSettings      `bson:"sessions" json:"sessions"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// DefaultSettings returns the document created on first read.
func DefaultSettings() Settings {
	return Settings{
		Key: SettingsKey,
		Display: DisplaySettings{
			PharmacyName:       "Pharmacie",
			ShowEmployeePhotos: true,
			ShowPositions:      true,
			KioskResetSeconds:  120,
		},
		FeedbackPage: FeedbackPageSettings{
			EnablePharmacyRating: true,
			EnableEmployeeRating: true,
			EnableSuggestions:    true,
			EnableClientForm:     true,
			RequireConsent:       true,
		},
		Reports: ReportSettings{
			LogoText:             "Pharmacie",
			FooterText:           "Confidential - internal use only",
			MonthlyReportEnabled: true,
			MonthlyReportFormat:  FormatPDF,
		},
		Sessions: SessionSettings{
			DefaultInactivityTimeout: DefaultInactivityTimeout,
			SweepAfterMinutes:        120,
		},
	}
}
