package domain

// Manifest is one parsed manifest. Raw keeps the original text so that
// unchanged content is never rewritten.
type Manifest struct {
	Path  string
	Raw   string
	Value any
}
