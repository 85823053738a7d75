package reporter

const (
	DefaultDashboardTemplateName = "dashboard.html.tmpl"
	DefaultReportTitle           = "livewatch"
	DefaultGeneratorName         = "livewatch"
	DefaultTimezone              = "America/Los_Angeles"

	// EPGTimeLayout is the XMLTV start attribute layout.
	EPGTimeLayout = "20060102150405 -0700"

	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeJSON = "application/json"
	ContentTypeXML  = "application/xml"
)
