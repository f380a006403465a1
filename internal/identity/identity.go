package identity

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/studiopulse/aggregator/internal/models"
)

const (
	unknownValue = "unknown"
	keySeparator = "|"
	hashModulus  = 1_000_000_000_000 // 12 decimal digits
)

// Deriver computes a stable class id for a raw observation. The id is a pure
// function of the snapshot contents; the same occurrence scraped twice yields
// the same id without any persisted state.
type Deriver struct {
	keySets KeySets
}

// NewDeriver builds a deriver with the default key sets layered under any
// configured overrides.
func NewDeriver(overrides KeySets) *Deriver {
	return &Deriver{keySets: merge(overrides)}
}

// Derive returns the class id for a snapshot, "source:dddddddddddd". Missing
// key fields fall back to the snapshot column of the same name and finally to
// a sentinel, so derivation never fails.
func (d *Deriver) Derive(snap *models.ScheduleSnapshot) string {
	keys, ok := d.keySets[snap.Source]
	if !ok {
		keys = fallbackKeys
	}

	values := make([]string, 0, len(keys))
	for _, key := range keys {
		values = append(values, normalize(d.fieldValue(snap, key)))
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.Join(values, keySeparator)))
	return fmt.Sprintf("%s:%012d", snap.Source, h.Sum64()%hashModulus)
}

// fieldValue prefers the raw payload field, then the normalized snapshot
// column, then the sentinel.
func (d *Deriver) fieldValue(snap *models.ScheduleSnapshot, key string) string {
	if v, ok := snap.Raw[key]; ok {
		if s := render(v); s != "" {
			return s
		}
	}
	if s := columnValue(snap, key); s != "" {
		return s
	}
	return unknownValue
}

// columnValue maps a key name onto the snapshot's normalized columns.
func columnValue(snap *models.ScheduleSnapshot, key string) string {
	switch key {
	case "class_name", "name":
		return deref(snap.ClassName)
	case "instructor":
		return deref(snap.Instructor)
	case "location", "address":
		return deref(snap.Location)
	case "status":
		return deref(snap.Status)
	case "url":
		return deref(snap.URL)
	case "item_uid":
		return deref(snap.ItemUID)
	case "start_ts":
		if snap.StartTS != nil {
			return snap.StartTS.UTC().Format(time.RFC3339)
		}
	case "end_ts":
		if snap.EndTS != nil {
			return snap.EndTS.UTC().Format(time.RFC3339)
		}
	}
	return ""
}

// render flattens an arbitrary JSON value into a deterministic string. The
// only contract is determinism; the exact shape is never parsed back.
func render(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, render(item))
		}
		return "[" + strings.Join(parts, ",") + "]"
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+render(t[k]))
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return fmt.Sprintf("%v", t)
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
