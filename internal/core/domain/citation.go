package domain

// StatusCode mirrors the lookup service's HTTP-style result codes. Values
// outside the named set are kept as-is.
type StatusCode int

const (
	StatusFound            StatusCode = 200
	StatusMultipleMatches  StatusCode = 300
	StatusInvalid          StatusCode = 400
	StatusNotFound         StatusCode = 404
	StatusTooManyCitations StatusCode = 429
)

const unknownStatusName = "UNKNOWN"

func (s StatusCode) Name() string {
	switch s {
	case StatusFound:
		return "FOUND"
	case StatusMultipleMatches:
		return "MULTIPLE_MATCHES"
	case StatusInvalid:
		return "INVALID"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusTooManyCitations:
		return "TOO_MANY_CITATIONS"
	default:
		return unknownStatusName
	}
}

func (s StatusCode) Known() bool {
	return s.Name() != unknownStatusName
}

// RawLookupResult is one record of the lookup service response, untouched.
type RawLookupResult map[string]any

// CaseCluster is an opaque opinion cluster record from the lookup service.
type CaseCluster map[string]any

func (c CaseCluster) CaseName() (string, bool) {
	name, ok := c["case_name"].(string)
	return name, ok
}

type Span struct {
	Start int
	End   int
}

type Citation struct {
	Text            string
	NormalizedForms []string
	Span            *Span
	Status          StatusCode
	ErrorMessage    *string
	Clusters        []CaseCluster
}

func (c Citation) IsValid() bool {
	return c.Status == StatusFound
}

// CaseName is the name of the first matched cluster, if any.
func (c Citation) CaseName() (string, bool) {
	if len(c.Clusters) == 0 {
		return "", false
	}
	return c.Clusters[0].CaseName()
}
