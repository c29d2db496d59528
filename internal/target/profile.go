// Package target describes execution targets by the runtime capabilities
// they support.
package target

import (
	"fmt"
	"strings"
)

// Capabilities is a bitset of runtime features a target supports.
type Capabilities uint8

const (
	ForwardBranching Capabilities = 1 << iota
	IntegerComputations
	FloatingPointComputations
	BackwardsBranching
	HigherLevelConstructs
	QubitReset

	// CapsNone is what the Base profile offers.
	CapsNone Capabilities = 0
	// CapsAll is what the Unrestricted profile offers.
	CapsAll = ForwardBranching | IntegerComputations | FloatingPointComputations |
		BackwardsBranching | HigherLevelConstructs | QubitReset
)

var capNames = []struct {
	cap  Capabilities
	name string
}{
	{ForwardBranching, "ForwardBranching"},
	{IntegerComputations, "IntegerComputations"},
	{FloatingPointComputations, "FloatingPointComputations"},
	{BackwardsBranching, "BackwardsBranching"},
	{HigherLevelConstructs, "HigherLevelConstructs"},
	{QubitReset, "QubitReset"},
}

// Has reports whether every capability in want is present.
func (c Capabilities) Has(want Capabilities) bool {
	return c&want == want
}

func (c Capabilities) String() string {
	if c == CapsNone {
		return "none"
	}
	parts := make([]string, 0, len(capNames))
	for _, cn := range capNames {
		if c&cn.cap != 0 {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseCapability maps a capability name (as used in @Config attributes).
func ParseCapability(name string) (Capabilities, bool) {
	for _, cn := range capNames {
		if cn.name == name {
			return cn.cap, true
		}
	}
	return CapsNone, false
}

// Profile is a named capability set.
type Profile uint8

const (
	Unrestricted Profile = iota
	Base
	AdaptiveRI
	AdaptiveRIF
)

// Capabilities returns the capability set the profile allows.
func (p Profile) Capabilities() Capabilities {
	switch p {
	case Unrestricted:
		return CapsAll
	case Base:
		return CapsNone
	case AdaptiveRI:
		return ForwardBranching | IntegerComputations | QubitReset
	case AdaptiveRIF:
		return ForwardBranching | IntegerComputations | FloatingPointComputations | QubitReset
	}
	return CapsNone
}

func (p Profile) String() string {
	switch p {
	case Unrestricted:
		return "unrestricted"
	case Base:
		return "base"
	case AdaptiveRI:
		return "adaptive_ri"
	case AdaptiveRIF:
		return "adaptive_rif"
	}
	return "unknown"
}

// ParseProfile converts a manifest/CLI spelling into a Profile.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unrestricted", "":
		return Unrestricted, nil
	case "base":
		return Base, nil
	case "adaptive_ri", "adaptive-ri":
		return AdaptiveRI, nil
	case "adaptive_rif", "adaptive-rif":
		return AdaptiveRIF, nil
	}
	return Unrestricted, fmt.Errorf("invalid target profile: %q (expected: unrestricted|base|adaptive_ri|adaptive_rif)", s)
}
