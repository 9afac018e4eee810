package terminology

import "strings"

// keywordRules maps symptom keywords (lowercase, accent-free) to CIE-10
// codes. Checked in order so more specific phrases win over single words.
var keywordRules = []struct {
	keyword string
	code    string
}{
	{"diarrea y gastroenteritis", "A09.9"},
	{"bronquiolitis", "J21"},
	{"bronquitis", "J20"},
	{"neumonia", "J18"},
	{"resfriado", "J00"},
	{"rinofaringitis", "J00"},
	{"sinusitis", "J01"},
	{"faringitis", "J02"},
	{"amigdalitis", "J03"},
	{"laringitis", "J04"},
	{"asma", "J45"},
	{"otitis", "H66"},
	{"conjuntivitis", "H10"},
	{"diarrea", "A09"},
	{"gastroenteritis", "A09"},
	{"estrenimiento", "K59"},
	{"dispepsia", "K30"},
	{"dermatitis atopica", "L20"},
	{"dermatitis del panal", "L22"},
	{"dermatitis", "L30"},
	{"fiebre", "R50"},
	{"tos", "R05"},
	{"dolor abdominal", "R10"},
	{"vomito", "R11"},
	{"nausea", "R11"},
	{"desnutricion", "E44"},
	{"obesidad", "E66"},
	{"varicela", "B01"},
	{"sarampion", "B05"},
	{"rubeola", "B06"},
	{"herpes", "B00"},
	{"colera", "A00"},
	{"tifoidea", "A01"},
	{"salmonella", "A02"},
}

// Classifier maps free-text diagnoses to CIE-10 codes using the built-in
// catalog plus a keyword rule table.
type Classifier struct {
	byCode map[string]DiagnosisCode
	codes  []DiagnosisCode
}

// NewClassifier builds a classifier over the given catalog.
func NewClassifier(catalog []DiagnosisCode) *Classifier {
	byCode := make(map[string]DiagnosisCode, len(catalog))
	for _, c := range catalog {
		byCode[c.Code] = c
	}
	return &Classifier{byCode: byCode, codes: catalog}
}

// Classify resolves a free-text diagnosis to the best matching CIE-10 code.
// It tries an exact catalog description match first, then keyword rules,
// then a partial description match. Unmatched input yields an
// unclassified result rather than an error.
func (cl *Classifier) Classify(diagnosis string) Classification {
	normalized := normalize(diagnosis)
	if normalized == "" {
		return Classification{Diagnosis: diagnosis, Confidence: ConfidenceLow, Method: MethodNone}
	}

	for _, c := range cl.codes {
		if normalize(c.Description) == normalized {
			return Classification{
				Diagnosis:   diagnosis,
				Code:        cl.refineCode(c.Code, normalized),
				Description: c.Description,
				Chapter:     c.Chapter,
				Confidence:  ConfidenceHigh,
				Method:      MethodExact,
			}
		}
	}

	for _, rule := range keywordRules {
		if strings.Contains(normalized, rule.keyword) {
			base := rule.code
			if i := strings.IndexByte(base, '.'); i >= 0 {
				base = base[:i]
			}
			entry := cl.byCode[base]
			return Classification{
				Diagnosis:   diagnosis,
				Code:        rule.code,
				Description: entry.Description,
				Chapter:     entry.Chapter,
				Confidence:  ConfidenceHigh,
				Method:      MethodKeyword,
			}
		}
	}

	for _, c := range cl.codes {
		if strings.Contains(normalize(c.Description), normalized) {
			return Classification{
				Diagnosis:   diagnosis,
				Code:        c.Code,
				Description: c.Description,
				Chapter:     c.Chapter,
				Confidence:  ConfidenceMedium,
				Method:      MethodPartial,
			}
		}
	}

	return Classification{Diagnosis: diagnosis, Confidence: ConfidenceLow, Method: MethodNone}
}

// refineCode upgrades three-character category codes to their unspecified
// subcategory when the input named the full catalog description.
func (cl *Classifier) refineCode(code, normalized string) string {
	if code == "A09" && strings.Contains(normalized, "gastroenteritis") {
		return "A09.9"
	}
	return code
}

var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"ü", "u", "ñ", "n",
)

func normalize(s string) string {
	return accentReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}
