package dto

import "time"

// ImportRequest is the bulk import payload: an ordered candidate list plus a
// dry-run switch. Row numbers in the result are 1-based input positions.
type ImportRequest struct {
	Students     []map[string]interface{} `json:"students" binding:"required"`
	ValidateOnly bool                     `json:"validate_only"`
}

// ImportRowError reports one rejected row.
type ImportRowError struct {
	Row   int    `json:"row"`
	Email string `json:"email"`
	Error string `json:"error"`
}

// ImportRowWarning reports advisory findings for one accepted row.
type ImportRowWarning struct {
	Row      int      `json:"row"`
	Email    string   `json:"email"`
	Warnings []string `json:"warnings"`
}

// ImportSummary restates the batch counters for direct display.
type ImportSummary struct {
	Total            int `json:"total"`
	Imported         int `json:"imported"`
	Skipped          int `json:"skipped"`
	ValidationErrors int `json:"validationErrors"`
	OtherErrors      int `json:"otherErrors"`
	DuplicateErrors  int `json:"duplicateErrors"`
}

// ImportResult aggregates the outcome of one bulk import call. It is a
// response value only and is never persisted.
type ImportResult struct {
	Success  bool               `json:"success"`
	Imported int                `json:"imported"`
	Failed   int                `json:"failed"`
	Errors   []ImportRowError   `json:"errors"`
	Warnings []ImportRowWarning `json:"warnings"`
	Summary  ImportSummary      `json:"summary"`
}

// ValidationOutcome is the per-candidate verdict: any error makes the
// candidate invalid, warnings never do.
type ValidationOutcome struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ExportRequest selects and shapes the record set to serialize.
type ExportRequest struct {
	Format         string     `json:"format"`
	Statuses       []string   `json:"statuses"`
	Countries      []string   `json:"countries"`
	HighIntent     *bool      `json:"high_intent"`
	NeedsEssayHelp *bool      `json:"needs_essay_help"`
	CreatedFrom    *time.Time `json:"created_from"`
	CreatedTo      *time.Time `json:"created_to"`
	Fields         []string   `json:"fields"`
}

// ExportFile is a fully rendered download.
type ExportFile struct {
	Data        []byte `json:"-"`
	ContentType string `json:"content_type"`
	Filename    string `json:"filename"`
}
