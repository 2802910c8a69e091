package models

// LoadReport summarizes a catalog or ledger load. Skipped rows are those
// with too few fields; FirstSkippedLine is 1-based and zero when nothing
// was skipped.
type LoadReport struct {
	Rows             int    `json:"rows"`
	Skipped          int    `json:"skipped"`
	FirstSkippedLine int    `json:"first_skipped_line,omitempty"`
	FirstSkipped     string `json:"first_skipped,omitempty"`
	Duplicates       int    `json:"duplicates"`
}

func (r *LoadReport) Skip(line int, raw string) {
	if r.Skipped == 0 {
		r.FirstSkippedLine = line
		r.FirstSkipped = raw
	}
	r.Skipped++
}
