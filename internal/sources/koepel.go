package sources

import (
	"github.com/studiopulse/aggregator/internal/models"
)

// Koepel parses the koepel payload grammar: Dutch year-less dates such as
// "zaterdag 12 juli", "11:00 - 11:45" time ranges and a "3 / 4" capacity
// fraction.
type Koepel struct {
	referenceYear int
}

// NewKoepel creates a koepel enhancer.
func NewKoepel(cfg Config) *Koepel {
	cfg = applyDefaults(cfg)
	return &Koepel{referenceYear: cfg.ReferenceYear}
}

func (e *Koepel) Source() string { return models.SourceKoepel }

func (e *Koepel) Enhance(raw models.RawMap) Fields {
	var f Fields

	dateStr, haveDate := stringField(raw, "date")
	timeStr, haveTime := stringField(raw, "time")
	if haveDate && haveTime {
		if date, ok := parseNamedDate(dateStr, dutchMonths, e.referenceYear); ok {
			if start, end, rangeOK := parseClockRange(timeStr); rangeOK {
				startTS := start.at(date)
				endTS := end.at(date)
				f.StartTS = &startTS
				f.EndTS = &endTS
			}
		}
	}

	if avail, ok := stringField(raw, "capacity"); ok {
		f.SpotsAvailable, f.Capacity = parseFraction(avail)
	}

	return f
}
