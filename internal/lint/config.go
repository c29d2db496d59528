package lint

import (
	"fmt"
)

// Name identifies a lint rule. Names are camelCase in configuration files.
type Name string

const (
	DivisionByZero      Name = "divisionByZero"
	NeedlessParens      Name = "needlessParens"
	RedundantSemicolons Name = "redundantSemicolons"
	DoubleEquality      Name = "doubleEquality"
	NeedlessOperation   Name = "needlessOperation"
)

func (n *Name) UnmarshalText(text []byte) error {
	name := Name(text)
	if _, ok := ruleByName(name); !ok {
		return fmt.Errorf("unknown lint %q", text)
	}
	*n = name
	return nil
}

// Level is how a lint finding is reported.
type Level uint8

const (
	Allow Level = iota
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Allow:
		return "allow"
	case Warn:
		return "warn"
	case Error:
		return "error"
	}
	return "unknown"
}

// ParseLevel maps a level name.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "allow":
		return Allow, nil
	case "warn":
		return Warn, nil
	case "error":
		return Error, nil
	}
	return Allow, fmt.Errorf("unknown lint level %q", s)
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Config overrides the default level of one rule.
type Config struct {
	Lint  Name  `toml:"lint" json:"lint"`
	Level Level `toml:"level" json:"level"`
}
