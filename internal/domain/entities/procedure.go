package entities

// ProcedureRecord represents one test, procedure, or condition-journey entry
// in the learning library. Records are loaded once at startup and are
// immutable at runtime.
type ProcedureRecord struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Category    string          `json:"category" db:"category"`
	Description string          `json:"description" db:"description"`
	Summary     string          `json:"summary" db:"summary"`
	NeedToKnow  []string        `json:"needToKnow" db:"need_to_know"`
	Steps       []ProcedureStep `json:"steps" db:"steps"`
	Image       string          `json:"image,omitempty" db:"image"`
	Detail      string          `json:"detail,omitempty" db:"detail"`
}

// ProcedureStep is one stage within a procedure's patient journey. Steps are
// owned by their parent record and carry no independent lifecycle.
type ProcedureStep struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"` // free text, e.g. "about 45 minutes"
	Details     []string `json:"details,omitempty"`
}

// Bundle is a named starter pack of procedure IDs that can be added to or
// removed from a selection in one action.
type Bundle struct {
	ID           string   `json:"id" db:"id"`
	Name         string   `json:"name" db:"name"`
	Description  string   `json:"description" db:"description"`
	ProcedureIDs []string `json:"procedureIds" db:"procedure_ids"`
}
