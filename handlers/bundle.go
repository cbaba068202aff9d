package handlers

// HandlerBundle groups the endpoint handlers registered by the routes package.
type HandlerBundle struct {
	Kiosk    *KioskHandler
	Stats    *StatsHandler
	Sessions *SessionAdminHandler
	Reports  *ReportHandler
	Staff    *StaffHandler
	Settings *SettingsHandler
	Health   *HealthHandler
}
