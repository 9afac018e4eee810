package terminology

// DiagnosisCode represents a CIE-10 diagnosis code from the reference catalog.
type DiagnosisCode struct {
	Code        string `db:"code" json:"code"`
	Description string `db:"description" json:"description"`
	Chapter     string `db:"chapter" json:"chapter,omitempty"`
}

// Classification is the result of classifying free-text diagnosis input
// against the CIE-10 catalog.
type Classification struct {
	Diagnosis   string `json:"diagnosis"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
	Chapter     string `json:"chapter,omitempty"`
	Confidence  string `json:"confidence"`
	Method      string `json:"method"`
}

// Classification methods, in decreasing order of confidence.
const (
	MethodExact   = "exact"
	MethodKeyword = "keyword"
	MethodPartial = "partial"
	MethodNone    = "unclassified"
)

// Confidence levels reported alongside a classification.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)
