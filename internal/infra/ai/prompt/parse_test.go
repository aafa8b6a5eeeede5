package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/report"
)

const sampleJSON = `{
  "overview": "Strong STEM profile.",
  "timeline": [
    {"period": "Fall, Grade 11", "events": [{"title": "Take AMC", "category": "testing", "description": "register"}]}
  ],
  "nextSteps": [
    {"title": "Register", "description": "do it", "priority": "high"}
  ]
}`

func TestParseContent_Plain(t *testing.T) {
	content, err := ParseContent(sampleJSON)
	require.NoError(t, err)
	assert.Equal(t, "Strong STEM profile.", content.Overview)
	require.Len(t, content.Timeline, 1)
	assert.Equal(t, "Fall, Grade 11", content.Timeline[0].Period)
	require.Len(t, content.NextSteps, 1)
}

func TestParseContent_StripsCodeFence(t *testing.T) {
	for _, wrapped := range []string{
		"```json\n" + sampleJSON + "\n```",
		"```\n" + sampleJSON + "\n```",
		"  \n```json\n" + sampleJSON + "\n```\n  ",
	} {
		content, err := ParseContent(wrapped)
		require.NoError(t, err)
		assert.Equal(t, "Strong STEM profile.", content.Overview)
	}
}

func TestParseContent_UnparseableIsUnavailable(t *testing.T) {
	for _, raw := range []string{
		"I'm sorry, I can't help with that.",
		"{broken",
		"{}",
		`{"overview": "", "timeline": []}`,
	} {
		_, err := ParseContent(raw)
		assert.ErrorIs(t, err, report.ErrGenerationUnavailable, "raw %q", raw)
	}
}

func TestGetUserPrompt_DefaultsForAbsentFields(t *testing.T) {
	p := GetUserPrompt(report.StudentProfile{Name: "Ada", Grade: "11"})
	assert.Contains(t, p, "Name: Ada")
	assert.Contains(t, p, "Current grade: 11")
	assert.Contains(t, p, "Interests: not provided")
	assert.Contains(t, p, "Test scores: not provided")
	assert.Contains(t, p, "Research Science Institute")
}

func TestGetUserPrompt_JoinsLists(t *testing.T) {
	p := GetUserPrompt(report.StudentProfile{
		Interests:  []string{"robotics", " math "},
		Activities: []string{""},
	})
	assert.Contains(t, p, "Interests: robotics, math")
	assert.Contains(t, p, "Activities: not provided")
}
