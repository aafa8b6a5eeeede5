package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/report"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are an experienced US college admissions counselor. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- overview is 2-4 sentences summarizing the student's positioning and strategy.
- timeline is an array of chronological periods from the student's current grade through application submission. Each period has 2-4 events. category is one of: academics, extracurricular, testing, application, summer.
- nextSteps is an array of 4-6 concrete actions. priority is one of: high, medium, low.
- Recommend only activities and programs from the reference catalog when naming specific programs; generic advice may go beyond it.
- Keep every description specific to the profile provided. Never invent test scores or achievements the student did not report.

Schema (example with empty values):
{
  "overview": "<string>",
  "timeline": [
    {
      "period": "<string, e.g. Fall, Grade 11>",
      "events": [
        {"title": "<string>", "category": "<academics|extracurricular|testing|application|summer>", "description": "<string>"}
      ]
    }
  ],
  "nextSteps": [
    {"title": "<string>", "description": "<string>", "priority": "<high|medium|low>"}
  ]
}`
}

// GetUserPrompt embeds the profile plus the fixed reference catalog.
// Absent profile fields degrade to "not provided" so generation never
// depends on a complete intake form.
func GetUserPrompt(p report.StudentProfile) string {
	var b strings.Builder
	b.WriteString("Build a college application plan for this student.\n\nStudent profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orDefault(p.Name, "not provided"))
	fmt.Fprintf(&b, "- Current grade: %s\n", orDefault(p.Grade, "not provided"))
	fmt.Fprintf(&b, "- School: %s\n", orDefault(p.School, "not provided"))
	fmt.Fprintf(&b, "- Interests: %s\n", listOrDefault(p.Interests))
	fmt.Fprintf(&b, "- Activities: %s\n", listOrDefault(p.Activities))
	fmt.Fprintf(&b, "- Test scores: %s\n", orDefault(p.TestScores, "not provided"))
	fmt.Fprintf(&b, "- Course history: %s\n", listOrDefault(p.CourseHistory))
	if strings.TrimSpace(p.Notes) != "" {
		fmt.Fprintf(&b, "- Notes: %s\n", p.Notes)
	}
	b.WriteString("\nReference catalog of activities and programs:\n")
	b.WriteString(referenceCatalog)
	b.WriteString("\nRespond with the JSON per schema.")
	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func listOrDefault(vals []string) string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	if len(out) == 0 {
		return "not provided"
	}
	return strings.Join(out, ", ")
}

// referenceCatalog is the fixed set of programs the model may name directly.
const referenceCatalog = `STEM programs:
- Research Science Institute (RSI), MIT - summer research, rising seniors
- MITES Summer, MIT - engineering and science, rising seniors
- Summer Science Program (SSP) - astrophysics/biochemistry research
- USA Computing Olympiad (USACO) - competitive programming, year-round
- Regeneron Science Talent Search - independent research competition, seniors
- FIRST Robotics Competition - team robotics, all grades
- AMC/AIME mathematics competitions - fall and winter

Humanities and writing:
- Telluride Association Summer Seminar (TASS) - critical studies, sophomores/juniors
- Iowa Young Writers' Studio - creative writing, summer
- Scholastic Art & Writing Awards - portfolio competition, fall deadline
- National Speech & Debate Association tournaments - year-round
- The Concord Review - history research journal submissions

Business and civics:
- DECA and FBLA - business case competitions, school year
- Model United Nations - conferences year-round
- Bank of America Student Leaders - paid nonprofit internship, juniors/seniors
- Congressional Award - service and personal development, all grades

Arts:
- Interlochen Arts Camp - summer intensives
- YoungArts - national arts competition, October deadline

Service and leadership:
- Key Club and National Honor Society - school year
- Eagle Scout / Gold Award capstone projects
- Local hospital and library volunteer programs - ongoing`
