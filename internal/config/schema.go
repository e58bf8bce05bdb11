package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValueType defines the expected type for a settings value.
type ValueType int

const (
	TypeBool ValueType = iota
	TypeInt
	TypeFloat
	TypeString
	TypeEnum
)

// String returns the string representation of ValueType.
func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// KeySchema describes a settable key for `config set`.
type KeySchema struct {
	Key           string
	Type          ValueType
	AllowedValues []string // enum options
	Min, Max      *float64 // inclusive numeric bounds, nil when unbounded
	Description   string
}

func bound(v float64) *float64 { return &v }

// KnownKeys is the registry of settable keys.
var KnownKeys = map[string]KeySchema{
	"ready_check_path": {
		Key:         "ready_check_path",
		Type:        TypeString,
		Description: "Sound file played on ready-check start and nags (empty for default)",
	},
	"squad_ready_path": {
		Key:         "squad_ready_path",
		Type:        TypeString,
		Description: "Sound file played when everyone is ready (empty for default)",
	},
	"ready_check_volume": {
		Key:         "ready_check_volume",
		Type:        TypeInt,
		Min:         bound(0),
		Max:         bound(100),
		Description: "Ready-check sound volume, 0-100",
	},
	"squad_ready_volume": {
		Key:         "squad_ready_volume",
		Type:        TypeInt,
		Min:         bound(0),
		Max:         bound(100),
		Description: "Squad-ready sound volume, 0-100",
	},
	"flash_window": {
		Key:         "flash_window",
		Type:        TypeBool,
		Description: "Raise a desktop notification alongside the sound",
	},
	"ready_check_nag": {
		Key:         "ready_check_nag",
		Type:        TypeBool,
		Description: "Repeat the ready-check sound while you are not ready",
	},
	"ready_check_nag_interval_seconds": {
		Key:         "ready_check_nag_interval_seconds",
		Type:        TypeFloat,
		Min:         bound(0),
		Description: "Seconds between nag sounds",
	},
	"audio_output_device": {
		Key:         "audio_output_device",
		Type:        TypeString,
		Description: "Audio sink name (empty for system default)",
	},
	"check_for_updates": {
		Key:         "check_for_updates",
		Type:        TypeBool,
		Description: "Check for a newer release at startup",
	},
	"include_prereleases": {
		Key:         "include_prereleases",
		Type:        TypeBool,
		Description: "Consider prereleases when checking for updates",
	},
	"host_url": {
		Key:         "host_url",
		Type:        TypeString,
		Description: "WebSocket URL of the host bridge",
	},
	"poll_interval_ms": {
		Key:         "poll_interval_ms",
		Type:        TypeInt,
		Min:         bound(10),
		Max:         bound(1000),
		Description: "Tick cadence in milliseconds",
	},
	"state_dir": {
		Key:         "state_dir",
		Type:        TypeString,
		Description: "Directory for ready-check history",
	},
	"history_max_entries": {
		Key:         "history_max_entries",
		Type:        TypeInt,
		Min:         bound(0),
		Description: "Ready-check history entries to retain (0 disables history)",
	},
	"log_level": {
		Key:           "log_level",
		Type:          TypeEnum,
		AllowedValues: []string{"debug", "info", "warn", "error"},
		Description:   "Log level",
	},
	"log_format": {
		Key:           "log_format",
		Type:          TypeEnum,
		AllowedValues: []string{"console", "json"},
		Description:   "Log output format",
	},
}

// SortedKeys returns the known keys in lexical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ErrUnknownKey is returned when trying to set an unknown key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown settings key: " + e.Key
}

// GetKeySchema returns the schema for a known key.
func GetKeySchema(key string) (KeySchema, error) {
	schema, ok := KnownKeys[key]
	if !ok {
		return KeySchema{}, ErrUnknownKey{Key: key}
	}
	return schema, nil
}

// ParsedValue is a settings value after type coercion.
type ParsedValue struct {
	Raw    string
	Parsed interface{}
	Type   ValueType
}

// ValidateValue coerces value to the key's type and checks its bounds.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	value = strings.TrimSpace(value)
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeInt:
		return parseIntValue(schema, value)
	case TypeFloat:
		return parseFloatValue(schema, value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

func parseBoolValue(value string) (ParsedValue, error) {
	b, err := strconv.ParseBool(strings.ToLower(value))
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
	return ParsedValue{Raw: value, Parsed: b, Type: TypeBool}, nil
}

func parseIntValue(schema KeySchema, value string) (ParsedValue, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
	}
	if err := checkBounds(schema, float64(n)); err != nil {
		return ParsedValue{}, err
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

func parseFloatValue(schema KeySchema, value string) (ParsedValue, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid number: %q", value)
	}
	if err := checkBounds(schema, f); err != nil {
		return ParsedValue{}, err
	}
	return ParsedValue{Raw: value, Parsed: f, Type: TypeFloat}, nil
}

func parseEnumValue(schema KeySchema, value string) (ParsedValue, error) {
	lower := strings.ToLower(value)
	for _, allowed := range schema.AllowedValues {
		if lower == allowed {
			return ParsedValue{Raw: value, Parsed: allowed, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}

func checkBounds(schema KeySchema, v float64) error {
	if schema.Min != nil && v < *schema.Min {
		return fmt.Errorf("%s must be >= %g, got %g", schema.Key, *schema.Min, v)
	}
	if schema.Max != nil && v > *schema.Max {
		return fmt.Errorf("%s must be <= %g, got %g", schema.Key, *schema.Max, v)
	}
	return nil
}
