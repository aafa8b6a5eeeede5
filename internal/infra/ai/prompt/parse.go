package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/report"
)

// ParseContent turns a raw model response into ReportContent.
// Strips an optional code-fence wrapper, then unmarshals. A response that
// does not yield at least an overview or one timeline period is treated as
// unparseable and surfaced as ErrGenerationUnavailable.
func ParseContent(raw string) (report.ReportContent, error) {
	cleaned := StripCodeFence(raw)
	var content report.ReportContent
	if err := json.Unmarshal([]byte(cleaned), &content); err != nil {
		return report.ReportContent{}, fmt.Errorf("%w: unparseable response: %v", report.ErrGenerationUnavailable, err)
	}
	if strings.TrimSpace(content.Overview) == "" && len(content.Timeline) == 0 {
		return report.ReportContent{}, fmt.Errorf("%w: response missing overview and timeline", report.ErrGenerationUnavailable)
	}
	return content, nil
}

// StripCodeFence removes a leading/trailing markdown fence if present
// (models occasionally ignore the no-fence instruction).
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
