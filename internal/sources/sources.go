package sources

import (
	"time"

	"github.com/studiopulse/aggregator/internal/models"
)

// Fields carries values an enhancer recovered from a raw payload. Nil means
// the payload did not yield that field; the caller only applies non-nil values
// to snapshot fields that are still empty.
type Fields struct {
	StartTS        *time.Time
	EndTS          *time.Time
	Capacity       *int
	SpotsAvailable *int
}

// Enhancer parses one source's raw payload grammar. Implementations must not
// fail: anything unparseable is simply left nil.
type Enhancer interface {
	Source() string
	Enhance(raw models.RawMap) Fields
}

// Config holds tunables shared by the enhancers.
type Config struct {
	// ReferenceYear is assumed for source payloads whose date strings carry
	// no year ("SATURDAY 21 JUNE", "zaterdag 12 juli").
	ReferenceYear int `yaml:"reference_year" json:"reference_year"`
}

// DefaultConfig returns the enhancer defaults.
func DefaultConfig() Config {
	return Config{ReferenceYear: 2025}
}

func applyDefaults(cfg Config) Config {
	if cfg.ReferenceYear <= 0 {
		cfg.ReferenceYear = DefaultConfig().ReferenceYear
	}
	return cfg
}

// NewRegistry returns the known enhancers keyed by source name. Sources
// without an entry get no enhancement, which is fine: their snapshots either
// arrive fully normalized or stay partially empty.
func NewRegistry(cfg Config) map[string]Enhancer {
	cfg = applyDefaults(cfg)

	enhancers := []Enhancer{
		NewCoolcharm(cfg),
		NewRowreformer(cfg),
		NewKoepel(cfg),
	}

	registry := make(map[string]Enhancer, len(enhancers))
	for _, e := range enhancers {
		registry[e.Source()] = e
	}
	return registry
}
