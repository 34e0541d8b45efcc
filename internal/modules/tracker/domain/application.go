package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Statuses an application moves through. Legacy imports may carry other
// strings; they are stored as-is.
const (
	StatusBookmarked   = "Bookmarked"
	StatusApplying     = "Applying"
	StatusApplied      = "Applied"
	StatusInterviewing = "Interviewing"
	StatusNegotiating  = "Negotiating"
	StatusAccepted     = "Accepted"
	StatusWithdrew     = "I Withdrew"
	StatusNotSelected  = "Not Selected"
	StatusNoResponse   = "No Response"
)

// AppliedDateLayout is the ISO date form the web client exports.
const AppliedDateLayout = "2006-01-02"

type Tag struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

type Keyword struct {
	Text      string `json:"text"`
	Relevance int    `json:"relevance"`
	InResume  bool   `json:"inResume"`
	MatchScore int   `json:"matchScore"`
	Category  string `json:"category"`
}

type TagList []Tag

type KeywordList []Keyword

// Application is the canonical record shape. JSON keys are camelCase to
// stay byte-compatible with the web client's export files.
type Application struct {
	ID             string      `json:"id" db:"id"`
	UserID         uuid.UUID   `json:"-" db:"user_id"`
	Company        string      `json:"company" db:"company"`
	Position       string      `json:"position" db:"position"`
	Status         string      `json:"status" db:"status"`
	AppliedDate    string      `json:"appliedDate" db:"applied_date"`
	JobDescription string      `json:"jobDescription" db:"job_description"`
	Resume         string      `json:"resume" db:"resume"`
	Notes          string      `json:"notes" db:"notes"`
	Location       string      `json:"location" db:"location"`
	Salary         string      `json:"salary" db:"salary"`
	ApplicationURL string      `json:"applicationUrl" db:"application_url"`
	Source         string      `json:"source" db:"source"`
	Tags           TagList     `json:"tags" db:"tags"`
	RecruiterName  string      `json:"recruiterName" db:"recruiter_name"`
	RecruiterEmail string      `json:"recruiterEmail" db:"recruiter_email"`
	RecruiterPhone string      `json:"recruiterPhone" db:"recruiter_phone"`
	Keywords       KeywordList `json:"keywords" db:"keywords"`
	CreatedAt      time.Time   `json:"-" db:"created_at"`
	UpdatedAt      time.Time   `json:"-" db:"updated_at"`
}

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrMalformedJSON       = errors.New("imported file is not valid JSON")
	ErrEmptyPayload        = errors.New("imported file contains no applications")
)

// DedupKey is the (company, position) pair used by merge imports.
// Exact case-sensitive match; whitespace and case variants create
// duplicates. Known limitation, kept for compatibility.
func (a Application) DedupKey() string {
	return a.Company + "\x00" + a.Position
}

func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	return json.Marshal(t)
}

func (t *TagList) Scan(src interface{}) error {
	return scanJSON(src, t, "tags")
}

func (k KeywordList) Value() (driver.Value, error) {
	if k == nil {
		k = KeywordList{}
	}
	return json.Marshal(k)
}

func (k *KeywordList) Scan(src interface{}) error {
	return scanJSON(src, k, "keywords")
}

func scanJSON(src, dest interface{}, what string) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	case nil:
		return nil
	default:
		return fmt.Errorf("cannot scan %T into %s", src, what)
	}
}
