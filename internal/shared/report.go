package shared

// ReportReasons are the reasons a user may pick when reporting a scene.
var ReportReasons = []string{
	"Spoiler without warning",
	"Wrong anime",
	"Inappropriate content",
	"Low quality / broken image",
	"Other",
}

// ValidReportReason reports whether reason is one of ReportReasons.
func ValidReportReason(reason string) bool {
	for _, r := range ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// CodeAlreadyReported is the error code the API returns for a duplicate report.
const CodeAlreadyReported = "already_reported"
