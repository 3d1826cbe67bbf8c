package domain

// AppliedFix records one auto-fix applied to a manifest.
type AppliedFix struct {
	Rule        string `json:"rule"`
	Path        string `json:"path"`
	Description string `json:"description"`
}
