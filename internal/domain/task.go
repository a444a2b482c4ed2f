package domain

import (
	"strings"
	"time"
)

// Task defaults applied to zero-valued fields.
const (
	DefaultCategory        = "Personal Care"
	DefaultPriority        = 3
	DefaultDurationMinutes = 15
)

// RecurrenceType enumerates how a task repeats.
type RecurrenceType string

// Valid recurrence types.
const (
	RecurrenceDaily   RecurrenceType = "Daily"
	RecurrenceWeekly  RecurrenceType = "Weekly"
	RecurrenceMonthly RecurrenceType = "Monthly"
	RecurrenceCustom  RecurrenceType = "Custom"
)

// RecurrencePattern is a value object embedded in a Task. It has no identity
// or lifecycle of its own.
type RecurrencePattern struct {
	Type           RecurrenceType `json:"type"                     validate:"required,oneof=Daily Weekly Monthly Custom"`
	Interval       int            `json:"interval"                 validate:"gte=1,lte=365"`
	DaysOfWeek     []Weekday      `json:"daysOfWeek"               validate:"dive,gte=0,lte=6"`
	EndDate        *time.Time     `json:"endDate,omitempty"`
	MaxOccurrences *int           `json:"maxOccurrences,omitempty" validate:"omitempty,gte=1,lte=999"`
	ExceptionDates []time.Time    `json:"exceptionDates"`
}

// Task is a unit of work owned by a user. UserID is a plain reference and is
// not checked against the user collection.
type Task struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"              validate:"notblank,max=100"`
	Description     string             `json:"description"        validate:"max=500"`
	Category        string             `json:"category"           validate:"max=100"`
	DueDate         *time.Time         `json:"dueDate,omitempty"`
	Priority        int                `json:"priority"           validate:"gte=1,lte=5"`
	IsCompleted     bool               `json:"isCompleted"`
	DurationMinutes int                `json:"durationMinutes"    validate:"gte=1,lte=1440"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	Tags            []string           `json:"tags"`
	Recurrence      *RecurrencePattern `json:"recurrence,omitempty"`
	UserID          string             `json:"userId"             validate:"omitempty,objectid"`
}

// NewTask creates a Task with a fresh identifier, timestamps, and defaults.
// Returns a *ValidationError if any field is invalid.
func NewTask(userID, title string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:        NewID(),
		Title:     title,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	task.ApplyDefaults()

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// ApplyDefaults fills zero-valued fields with their defaults and canonicalizes
// the owner reference and the recurrence pattern.
func (t *Task) ApplyDefaults() {
	t.Title = strings.TrimSpace(t.Title)
	t.UserID = NormalizeID(t.UserID)
	if strings.TrimSpace(t.Category) == "" {
		t.Category = DefaultCategory
	}
	if t.Priority == 0 {
		t.Priority = DefaultPriority
	}
	if t.DurationMinutes == 0 {
		t.DurationMinutes = DefaultDurationMinutes
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Recurrence != nil {
		t.Recurrence.Normalize()
	}
}

// Normalize removes duplicate weekdays, keeping first-seen order, and
// replaces nil slices with empty ones.
func (p *RecurrencePattern) Normalize() {
	if p.Interval == 0 {
		p.Interval = 1
	}
	seen := make(map[Weekday]bool, len(p.DaysOfWeek))
	days := make([]Weekday, 0, len(p.DaysOfWeek))
	for _, d := range p.DaysOfWeek {
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	p.DaysOfWeek = days
	if p.ExceptionDates == nil {
		p.ExceptionDates = []time.Time{}
	}
}

// Validate checks the task against ValidateTask at the current time.
func (t *Task) Validate() error {
	return ValidateTask(t, time.Now()).Err()
}

// ValidateTask checks every rule on a task, including its recurrence, and
// reports all failures. now anchors the "end date in the future" rule.
func ValidateTask(t *Task, now time.Time) ValidationResult {
	var result ValidationResult
	if t == nil {
		result.Add("task", "is required")
		return result
	}

	checkStruct(t, &result)

	if t.ID != "" && !IsValidID(t.ID) {
		result.Add("id", "must be a 24-character hex identifier")
	}
	if !t.CreatedAt.IsZero() && t.UpdatedAt.Before(t.CreatedAt) {
		result.Add("updatedAt", "must not be before createdAt")
	}
	if t.Recurrence != nil {
		validateRecurrence(t.Recurrence, now, "recurrence.", &result)
	}

	return result
}

// ValidateRecurrence checks a recurrence pattern on its own.
func ValidateRecurrence(p *RecurrencePattern, now time.Time) ValidationResult {
	var result ValidationResult
	if p == nil {
		return result
	}
	checkStruct(p, &result)
	validateRecurrence(p, now, "", &result)
	return result
}

// validateRecurrence holds the rules struct tags cannot express.
func validateRecurrence(p *RecurrencePattern, now time.Time, prefix string, result *ValidationResult) {
	if p.EndDate != nil && !p.EndDate.After(now) {
		result.Add(prefix+"endDate", "must be in the future")
	}
}
