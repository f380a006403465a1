package identity

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// KeySets maps a source name to the ordered list of raw fields that make up
// its composite natural key. Held as configuration so adding a source does not
// touch derivation logic.
type KeySets map[string][]string

// SourceKeys represents the yaml shape for key set overrides.
type SourceKeys struct {
	IdentityKeys KeySets `yaml:"identity_keys" json:"identity_keys"`
}

// defaultKeySets are the compiled-in natural keys per source.
func defaultKeySets() KeySets {
	return KeySets{
		"coolcharm":   {"date", "time", "class_name", "location"},
		"koepel":      {"date", "time", "instructor", "description"},
		"rite":        {"name", "date", "hour", "address", "instructor"},
		"rowreformer": {"week_day", "details"},
	}
}

// fallbackKeys is used for sources outside the known set.
var fallbackKeys = []string{"class_name", "start_ts", "location"}

// LoadSourceKeys loads YAML bytes into SourceKeys.
func LoadSourceKeys(data []byte) (SourceKeys, error) {
	var keys SourceKeys
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return SourceKeys{}, err
	}
	for source, fields := range keys.IdentityKeys {
		if len(fields) == 0 {
			return SourceKeys{}, fmt.Errorf("identity_keys for %s is empty", source)
		}
	}
	return keys, nil
}

// merge layers overrides on top of the defaults.
func merge(overrides KeySets) KeySets {
	merged := defaultKeySets()
	for source, fields := range overrides {
		if len(fields) > 0 {
			merged[source] = fields
		}
	}
	return merged
}
