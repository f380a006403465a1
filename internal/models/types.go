package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// RunStatus tracks the lifecycle of an aggregation run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// ScopeAll marks a run that covered every source at once.
const ScopeAll = "all"

// Known scrape sources.
const (
	SourceCoolcharm   = "coolcharm"
	SourceKoepel      = "koepel"
	SourceRite        = "rite"
	SourceRowreformer = "rowreformer"
)

// RawMap stores an arbitrary scraped payload in SQLite as JSON.
type RawMap map[string]any

func (m RawMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *RawMap) Scan(value interface{}) error {
	if value == nil {
		*m = RawMap{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan RawMap")
	}

	return json.Unmarshal(bytes, m)
}
