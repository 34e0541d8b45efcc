package application

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/captainhq/captain-backend/internal/modules/tracker/domain"
)

type MergeStrategy string

const (
	StrategyReplace MergeStrategy = "replace"
	StrategyMerge   MergeStrategy = "merge"
)

// ParseStrategy validates a strategy string from the import request.
func ParseStrategy(s string) (MergeStrategy, error) {
	switch MergeStrategy(s) {
	case StrategyReplace, StrategyMerge:
		return MergeStrategy(s), nil
	case "":
		return StrategyMerge, nil
	default:
		return "", fmt.Errorf("unknown import strategy %q", s)
	}
}

// rawApplication mirrors the loose shapes found in import files. Pointer
// fields make absence explicit instead of probing for properties.
type rawApplication struct {
	ID             json.RawMessage   `json:"id"`
	Company        *string           `json:"company"`
	Position       *string           `json:"position"`
	Status         *string           `json:"status"`
	AppliedDate    *string           `json:"appliedDate"`
	JobDescription *string           `json:"jobDescription"`
	Resume         *string           `json:"resume"`
	Notes          *string           `json:"notes"`
	Location       *string           `json:"location"`
	Salary         *string           `json:"salary"`
	ApplicationURL *string           `json:"applicationUrl"`
	Source         *string           `json:"source"`
	Tags           []domain.Tag      `json:"tags"`
	RecruiterName  *string           `json:"recruiterName"`
	RecruiterEmail *string           `json:"recruiterEmail"`
	RecruiterPhone *string           `json:"recruiterPhone"`
	Keywords       []json.RawMessage `json:"keywords"`
}

// legacyContainer is the export format of older client versions.
type legacyContainer struct {
	JobApplications []json.RawMessage `json:"jobApplications"`
}

// Parse validates the raw import text as JSON. The parser's message is
// retained for diagnostics.
func Parse(data []byte) (json.RawMessage, error) {
	var value json.RawMessage
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedJSON, err)
	}
	return value, nil
}

// CoerceToArray accepts the three shapes found in the wild: the legacy
// {jobApplications: [...]} container, a bare record object, or a plain
// array. An empty result is an error.
func CoerceToArray(value json.RawMessage) ([]json.RawMessage, error) {
	var container legacyContainer
	if err := json.Unmarshal(value, &container); err == nil && container.JobApplications != nil {
		if len(container.JobApplications) == 0 {
			return nil, domain.ErrEmptyPayload
		}
		return container.JobApplications, nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(value, &list); err == nil {
		if len(list) == 0 {
			return nil, domain.ErrEmptyPayload
		}
		return list, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(value, &obj); err == nil {
		return []json.RawMessage{value}, nil
	}

	return nil, domain.ErrEmptyPayload
}

// NormalizeRecord coerces one loosely-shaped record into the canonical
// form, filling a defined default for every absent field.
func NormalizeRecord(raw json.RawMessage, now time.Time) (domain.Application, error) {
	var rec rawApplication
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Application{}, fmt.Errorf("%w: %v", domain.ErrMalformedJSON, err)
	}

	app := domain.Application{
		ID:             coerceID(rec.ID),
		Company:        stringOr(rec.Company, "Unknown Company"),
		Position:       stringOr(rec.Position, ""),
		Status:         stringOr(rec.Status, domain.StatusBookmarked),
		AppliedDate:    coerceDate(rec.AppliedDate, now),
		JobDescription: stringOr(rec.JobDescription, ""),
		Resume:         stringOr(rec.Resume, ""),
		Notes:          stringOr(rec.Notes, ""),
		Location:       stringOr(rec.Location, ""),
		Salary:         stringOr(rec.Salary, ""),
		ApplicationURL: stringOr(rec.ApplicationURL, ""),
		Source:         stringOr(rec.Source, ""),
		Tags:           rec.Tags,
		RecruiterName:  stringOr(rec.RecruiterName, ""),
		RecruiterEmail: stringOr(rec.RecruiterEmail, ""),
		RecruiterPhone: stringOr(rec.RecruiterPhone, ""),
		Keywords:       coerceKeywords(rec.Keywords),
	}
	if app.Tags == nil {
		app.Tags = domain.TagList{}
	}

	// Very old exports stored the position under "company". Heuristic:
	// a record with no position and a short company string is treated as
	// position-only. Not a guarantee.
	if (rec.Position == nil || *rec.Position == "") && rec.Company != nil && *rec.Company != "" && len(*rec.Company) < 100 {
		app.Position = *rec.Company
		app.Company = "Unknown Company"
	}

	return app, nil
}

// Merge combines existing and incoming collections. "replace" discards
// existing entirely; "merge" appends only incoming records whose
// (company, position) pair is not already present.
func Merge(existing, incoming []domain.Application, strategy MergeStrategy) []domain.Application {
	if strategy == StrategyReplace {
		return incoming
	}

	seen := make(map[string]bool, len(existing))
	for _, app := range existing {
		seen[app.DedupKey()] = true
	}

	merged := make([]domain.Application, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	for _, app := range incoming {
		if seen[app.DedupKey()] {
			continue
		}
		seen[app.DedupKey()] = true
		merged = append(merged, app)
	}
	return merged
}

func coerceID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return uuid.NewString()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return uuid.NewString()
}

func coerceDate(value *string, now time.Time) string {
	if value == nil || *value == "" {
		return now.Format(domain.AppliedDateLayout)
	}

	for _, layout := range []string{domain.AppliedDateLayout, time.RFC3339, "01/02/2006", "2006/01/02"} {
		if t, err := time.Parse(layout, *value); err == nil {
			return t.Format(domain.AppliedDateLayout)
		}
	}
	return now.Format(domain.AppliedDateLayout)
}

func coerceKeywords(raw []json.RawMessage) domain.KeywordList {
	keywords := make(domain.KeywordList, 0, len(raw))
	for _, entry := range raw {
		// Bare strings are promoted to the full keyword shape.
		var text string
		if err := json.Unmarshal(entry, &text); err == nil {
			keywords = append(keywords, domain.Keyword{Text: text, Relevance: 1, Category: "general"})
			continue
		}

		var kw struct {
			Text       *string `json:"text"`
			Relevance  *int    `json:"relevance"`
			InResume   *bool   `json:"inResume"`
			MatchScore *int    `json:"matchScore"`
			Category   *string `json:"category"`
		}
		if err := json.Unmarshal(entry, &kw); err != nil || kw.Text == nil {
			continue
		}
		keywords = append(keywords, domain.Keyword{
			Text:       *kw.Text,
			Relevance:  intOr(kw.Relevance, 1),
			InResume:   boolOr(kw.InResume, false),
			MatchScore: intOr(kw.MatchScore, 0),
			Category:   stringOr(kw.Category, "general"),
		})
	}
	return keywords
}

// stringOr treats absent and empty the same way the web client's
// `value || default` coercion did.
func stringOr(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
