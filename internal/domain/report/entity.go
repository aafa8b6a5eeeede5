package report

import (
	"time"
)

// ID tipe untuk Report
type ReportID string

// StudentProfile is free-form input from the intake form.
// Absent fields degrade to defaults in the prompt builder.
type StudentProfile struct {
	Name          string   `json:"studentName,omitempty"`
	Grade         string   `json:"currentGrade,omitempty"`
	School        string   `json:"school,omitempty"`
	Interests     []string `json:"interests,omitempty"`
	Activities    []string `json:"activities,omitempty"`
	TestScores    string   `json:"testScores,omitempty"`
	CourseHistory []string `json:"courseHistory,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// TimelineEvent single entry inside a timeline period
type TimelineEvent struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// TimelinePeriod one chronological slice of the plan (e.g. "Fall, Grade 11")
type TimelinePeriod struct {
	Period string          `json:"period"`
	Events []TimelineEvent `json:"events"`
}

// NextStep actionable recommendation shown after the timeline
type NextStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// ReportContent canonical structured form of a generated plan.
// HTML is rendered at the presentation boundary only, never stored.
type ReportContent struct {
	Overview  string           `json:"overview"`
	Timeline  []TimelinePeriod `json:"timeline"`
	NextSteps []NextStep       `json:"nextSteps"`
}

// Aggregate Root: Report. Immutable once saved.
type Report struct {
	ID        ReportID       `json:"id"`
	Profile   StudentProfile `json:"studentProfile"`
	Content   ReportContent  `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
}
