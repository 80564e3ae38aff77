// Package roster reconciles an externally supplied training roster into the
// user store.
package roster

// Row is one roster line: a student and their training-tag completion.
type Row struct {
	StudentID string `json:"studentId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	WhiteTag  bool `json:"whiteTag"`
	BlueTag   bool `json:"blueTag"`
	GreenTag  bool `json:"greenTag"`
	OrangeTag bool `json:"orangeTag"`
}

// Result aggregates one import run. Bad rows are counted as skipped, never
// fatal.
type Result struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
