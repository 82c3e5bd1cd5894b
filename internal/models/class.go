package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/classroom-api/pkg/pagination"
)

// ClassStatus is the lifecycle state of a class.
type ClassStatus string

const (
	ClassStatusActive   ClassStatus = "active"
	ClassStatusInactive ClassStatus = "inactive"
	ClassStatusArchived ClassStatus = "archived"
)

// ParseClassStatus validates raw against the known statuses.
func ParseClassStatus(raw string) (ClassStatus, error) {
	switch status := ClassStatus(strings.ToLower(strings.TrimSpace(raw))); status {
	case ClassStatusActive, ClassStatusInactive, ClassStatusArchived:
		return status, nil
	default:
		return "", fmt.Errorf("unknown class status %q", raw)
	}
}

// Schedule is one recurring meeting slot of a class.
type Schedule struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Schedules is stored as a JSONB array.
type Schedules []Schedule

// Value implements driver.Valuer. A nil list is stored as an empty array.
// The JSON is returned as text so lib/pq does not encode it as bytea.
func (s Schedules) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]Schedule(s))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (s *Schedules) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = Schedules{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan schedules: unsupported type %T", src)
	}
	var out []Schedule
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan schedules: %w", err)
	}
	if out == nil {
		out = []Schedule{}
	}
	*s = out
	return nil
}

// Class represents a teachable section of a subject.
type Class struct {
	ID             int64       `db:"id" json:"id"`
	SubjectID      *int64      `db:"subject_id" json:"subjectId"`
	TeacherID      *string     `db:"teacher_id" json:"teacherId"`
	InviteCode     string      `db:"invite_code" json:"inviteCode"`
	Name           string      `db:"name" json:"name"`
	BannerCldPubID *string     `db:"banner_cld_pub_id" json:"bannerCldPubId"`
	BannerURL      *string     `db:"banner_url" json:"bannerUrl"`
	Capacity       int         `db:"capacity" json:"capacity"`
	Description    *string     `db:"description" json:"description"`
	Status         ClassStatus `db:"status" json:"status"`
	Schedules      Schedules   `db:"schedules" json:"schedules"`
	CreatedAt      time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updatedAt"`
}

// ClassListItem is a class row with its subject and teacher.
type ClassListItem struct {
	Class
	Subject *SubjectSummary `json:"subject"`
	Teacher *UserSummary    `json:"teacher"`
}

// ClassDetail is a class with subject, department and teacher joined in.
type ClassDetail struct {
	Class
	Subject    *SubjectSummary    `json:"subject"`
	Department *DepartmentSummary `json:"department"`
	Teacher    *UserSummary       `json:"teacher"`
}

// ClassFilter captures supported filters for listing classes.
type ClassFilter struct {
	Search  string
	Subject string
	Teacher string
	Window  pagination.Window
}
