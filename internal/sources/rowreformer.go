package sources

import (
	"strings"
	"time"

	"github.com/studiopulse/aggregator/internal/models"
)

// rowreformerDuration is assumed when the payload only carries a start time.
const rowreformerDuration = 50 * time.Minute

// Rowreformer parses the rowreformer payload grammar: "18/05/2025" dates and
// a positional details list where index 1 is the start time ("9:00 AM" or
// "13:00") and index 5 the availability fraction ("8/10").
type Rowreformer struct{}

// NewRowreformer creates a rowreformer enhancer.
func NewRowreformer(Config) *Rowreformer {
	return &Rowreformer{}
}

func (e *Rowreformer) Source() string { return models.SourceRowreformer }

func (e *Rowreformer) Enhance(raw models.RawMap) Fields {
	var f Fields

	details := detailsList(raw)

	dateStr, haveDate := stringField(raw, "date")
	if haveDate && len(details) > 1 {
		if date, ok := parseNumericDate(dateStr); ok {
			if c, ok := parseRowreformerTime(details[1]); ok {
				startTS := c.at(date)
				endTS := startTS.Add(rowreformerDuration)
				f.StartTS = &startTS
				f.EndTS = &endTS
			}
		}
	}

	if len(details) > 5 {
		f.SpotsAvailable, f.Capacity = parseFraction(details[5])
	}

	return f
}

// parseRowreformerTime accepts both 12-hour ("9:00 AM") and 24-hour ("13:00")
// clock forms.
func parseRowreformerTime(s string) (clock, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("3:04 PM", s); err == nil {
		return clock{hour: t.Hour(), minute: t.Minute()}, true
	}
	return parseClock(s)
}

// detailsList extracts the positional details strings from the payload.
func detailsList(raw models.RawMap) []string {
	v, ok := raw["details"]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	details := make([]string, 0, len(items))
	for _, item := range items {
		s, _ := item.(string)
		details = append(details, s)
	}
	return details
}
