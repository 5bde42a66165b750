package usecase

import (
	"encoding/json"
	"math"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

// NormalizeResult maps one raw lookup record onto a Citation. It never
// fails: missing or mistyped fields fall back to empty values and status 200.
func NormalizeResult(raw domain.RawLookupResult) domain.Citation {
	citation := domain.Citation{
		Text:            stringField(raw, "citation"),
		NormalizedForms: stringSliceField(raw, "normalized_citations"),
		Status:          domain.StatusFound,
		Clusters:        clusterField(raw, "clusters"),
	}

	if status, ok := intField(raw, "status"); ok {
		citation.Status = domain.StatusCode(status)
	}

	start, hasStart := intField(raw, "start_index")
	end, hasEnd := intField(raw, "end_index")
	if hasStart && hasEnd {
		citation.Span = &domain.Span{Start: start, End: end}
	}

	if msg, ok := raw["error_message"].(string); ok && msg != "" {
		citation.ErrorMessage = &msg
	}

	return citation
}

func stringField(raw domain.RawLookupResult, key string) string {
	value, _ := raw[key].(string)
	return value
}

func stringSliceField(raw domain.RawLookupResult, key string) []string {
	out := []string{}
	items, ok := raw[key].([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func clusterField(raw domain.RawLookupResult, key string) []domain.CaseCluster {
	out := []domain.CaseCluster{}
	items, ok := raw[key].([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if cluster, ok := item.(map[string]any); ok {
			out = append(out, domain.CaseCluster(cluster))
		}
	}
	return out
}

func intField(raw domain.RawLookupResult, key string) (int, bool) {
	switch v := raw[key].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return intFromInt64(n)
	case float64:
		// float64(math.MaxInt) rounds up to 2^63, which int cannot hold.
		if v != math.Trunc(v) || v < float64(math.MinInt) || v >= float64(math.MaxInt) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		return intFromInt64(v)
	default:
		return 0, false
	}
}

func intFromInt64(n int64) (int, bool) {
	if n < math.MinInt || n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}
