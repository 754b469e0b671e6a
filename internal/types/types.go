package types

import (
	"fmt"
	"strings"
)

// Finding represents one reported restructuring opportunity.
type Finding struct {
	Code             string   `json:"code" msgpack:"code"`
	Message          string   `json:"message" msgpack:"message"`
	FilePath         string   `json:"filePath" msgpack:"filePath"`
	RelativeFilePath string   `json:"relativeFilePath" msgpack:"relativeFilePath"`
	Line             int      `json:"line" msgpack:"line"`
	Column           int      `json:"column" msgpack:"column"`
	Start            int      `json:"start" msgpack:"start"`
	End              int      `json:"end" msgpack:"end"`
	Severity         Severity `json:"severity" msgpack:"severity"`
	Fix              *Fix     `json:"fix,omitempty" msgpack:"fix,omitempty"`
}

// HasFix reports whether the finding carries a computable replacement.
func (f Finding) HasFix() bool {
	return f.Fix != nil
}

// Fix is a byte-range replacement: substituting text[Start:End] with Content
// reproduces the transformed program.
type Fix struct {
	Start   int    `json:"start" msgpack:"start"`
	End     int    `json:"end" msgpack:"end"`
	Content string `json:"content" msgpack:"content"`
}

// Severity is the reporting level of a rule.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// MarshalText lets yaml, toml and json write severities by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// UnmarshalText parses a severity name case-insensitively.
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(text))) {
	case "ERROR":
		*s = SeverityError
	case "WARNING", "WARN":
		*s = SeverityWarning
	case "INFO":
		*s = SeverityInfo
	case "OFF", "":
		*s = SeverityOff
	default:
		return fmt.Errorf("unknown severity %q", string(text))
	}
	return nil
}

// ConfigRule is the per-rule section of the configuration file.
type ConfigRule struct {
	Severity Severity `yaml:"severity" toml:"severity"`
}
