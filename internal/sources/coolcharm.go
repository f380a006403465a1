package sources

import (
	"github.com/studiopulse/aggregator/internal/models"
)

// Coolcharm parses the coolcharm payload grammar. Dates come in two shapes,
// "01/09/2025" or "SATURDAY 21 JUNE"; times as "17:30 - 18:25"; availability
// as "3 / 5".
type Coolcharm struct {
	referenceYear int
}

// NewCoolcharm creates a coolcharm enhancer.
func NewCoolcharm(cfg Config) *Coolcharm {
	cfg = applyDefaults(cfg)
	return &Coolcharm{referenceYear: cfg.ReferenceYear}
}

func (e *Coolcharm) Source() string { return models.SourceCoolcharm }

func (e *Coolcharm) Enhance(raw models.RawMap) Fields {
	var f Fields

	dateStr, haveDate := stringField(raw, "date")
	timeStr, haveTime := stringField(raw, "time")
	if haveDate && haveTime {
		date, ok := parseNumericDate(dateStr)
		if !ok {
			date, ok = parseNamedDate(dateStr, englishMonths, e.referenceYear)
		}
		if ok {
			if start, end, rangeOK := parseClockRange(timeStr); rangeOK {
				startTS := start.at(date)
				endTS := end.at(date)
				f.StartTS = &startTS
				f.EndTS = &endTS
			}
		}
	}

	if avail, ok := stringField(raw, "availability"); ok {
		f.SpotsAvailable, f.Capacity = parseFraction(avail)
	}

	return f
}
