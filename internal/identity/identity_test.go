package identity

import (
	"regexp"
	"testing"
	"time"

	"github.com/studiopulse/aggregator/internal/models"
)

func strPtr(s string) *string { return &s }

func coolcharmSnap() *models.ScheduleSnapshot {
	return &models.ScheduleSnapshot{
		RunID:     "run-1",
		Source:    "coolcharm",
		ScrapedAt: time.Now(),
		Raw: models.RawMap{
			"date":       "10/05/2025",
			"time":       "17:30 - 18:25",
			"class_name": "Reformer Flow",
			"location":   "Studio North",
		},
	}
}

func TestDeriveDeterministic(t *testing.T) {
	d := NewDeriver(nil)

	a := d.Derive(coolcharmSnap())
	b := d.Derive(coolcharmSnap())
	if a != b {
		t.Fatalf("expected stable id, got %s and %s", a, b)
	}

	if ok, _ := regexp.MatchString(`^coolcharm:\d{12}$`, a); !ok {
		t.Fatalf("unexpected id shape: %s", a)
	}
}

func TestDeriveDistinguishesOccurrences(t *testing.T) {
	d := NewDeriver(nil)

	a := coolcharmSnap()
	b := coolcharmSnap()
	b.Raw["time"] = "18:30 - 19:25"

	if d.Derive(a) == d.Derive(b) {
		t.Fatalf("different occurrences mapped to the same id")
	}
}

func TestDeriveFoldsCaseAndWhitespace(t *testing.T) {
	d := NewDeriver(nil)

	a := coolcharmSnap()
	b := coolcharmSnap()
	b.Raw["class_name"] = "  REFORMER FLOW "
	b.Raw["location"] = "studio north"

	if got, want := d.Derive(b), d.Derive(a); got != want {
		t.Fatalf("expected folded values to match: %s vs %s", got, want)
	}
}

func TestDeriveFallsBackToColumns(t *testing.T) {
	d := NewDeriver(nil)

	// class_name missing from the payload; the normalized column stands in.
	snap := coolcharmSnap()
	delete(snap.Raw, "class_name")
	snap.ClassName = strPtr("Reformer Flow")

	withColumn := d.Derive(snap)

	snap.ClassName = strPtr("Mat Pilates")
	if d.Derive(snap) == withColumn {
		t.Fatalf("column fallback was not part of the key")
	}
}

func TestDeriveMissingFieldsUseSentinel(t *testing.T) {
	d := NewDeriver(nil)

	snap := &models.ScheduleSnapshot{
		RunID:     "run-1",
		Source:    "coolcharm",
		ScrapedAt: time.Now(),
		Raw:       models.RawMap{},
	}

	a := d.Derive(snap)
	b := d.Derive(snap)
	if a == "" || a != b {
		t.Fatalf("sentinel path must still derive a stable id, got %q and %q", a, b)
	}
}

func TestDeriveUnknownSourceUsesFallbackKeys(t *testing.T) {
	d := NewDeriver(nil)

	start := time.Date(2025, 5, 10, 17, 30, 0, 0, time.UTC)
	snap := &models.ScheduleSnapshot{
		RunID:     "run-1",
		Source:    "newstudio",
		ClassName: strPtr("Spin"),
		Location:  strPtr("Main Room"),
		StartTS:   &start,
		ScrapedAt: time.Now(),
		Raw:       models.RawMap{},
	}

	id := d.Derive(snap)
	if ok, _ := regexp.MatchString(`^newstudio:\d{12}$`, id); !ok {
		t.Fatalf("unexpected fallback id shape: %s", id)
	}

	later := start.Add(time.Hour)
	snap.StartTS = &later
	if d.Derive(snap) == id {
		t.Fatalf("fallback key ignored start_ts")
	}
}

func TestDeriveRendersListFields(t *testing.T) {
	d := NewDeriver(nil)

	snap := &models.ScheduleSnapshot{
		RunID:     "run-1",
		Source:    "rowreformer",
		ScrapedAt: time.Now(),
		Raw: models.RawMap{
			"week_day": "Sunday",
			"details":  []any{"REFORM", "9:00 AM", "Alice"},
		},
	}

	a := d.Derive(snap)
	snap.Raw["details"] = []any{"REFORM", "10:00 AM", "Alice"}
	if d.Derive(snap) == a {
		t.Fatalf("list-valued key field did not affect the id")
	}
}

func TestLoadSourceKeys(t *testing.T) {
	yaml := []byte(`
identity_keys:
  coolcharm: [date, time, class_name]
`)
	keys, err := LoadSourceKeys(yaml)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if got := keys.IdentityKeys["coolcharm"]; len(got) != 3 || got[2] != "class_name" {
		t.Fatalf("unexpected key set: %v", got)
	}

	if _, err := LoadSourceKeys([]byte("identity_keys:\n  koepel: []\n")); err == nil {
		t.Fatalf("expected error for empty key set")
	}
}

func TestOverridesReplaceDefaults(t *testing.T) {
	d := NewDeriver(KeySets{"coolcharm": {"date"}})

	a := coolcharmSnap()
	b := coolcharmSnap()
	b.Raw["time"] = "18:30 - 19:25"

	if d.Derive(a) != d.Derive(b) {
		t.Fatalf("override key set should ignore the time field")
	}
}
