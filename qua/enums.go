package qua

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// GameMode is the key layout a chart is played with. The zero GameMode
// behaves as Keys4.
type GameMode int

const (
	Keys4 GameMode = 1
	Keys7 GameMode = 2
)

// GameModeFromKeyCount returns the mode with the given number of keys.
func GameModeFromKeyCount(keys int) (GameMode, bool) {
	switch keys {
	case 4:
		return Keys4, true
	case 7:
		return Keys7, true
	}
	return 0, false
}

// KeyCount is the number of lanes of the mode, without a scratch key.
func (m GameMode) KeyCount() int {
	switch m {
	case 0, Keys4:
		return 4
	case Keys7:
		return 7
	}
	return 0
}

func (m GameMode) String() string {
	switch m {
	case 0, Keys4:
		return "Keys4"
	case Keys7:
		return "Keys7"
	}
	return "GameMode(" + strconv.Itoa(int(m)) + ")"
}

func (m GameMode) MarshalYAML() (any, error) {
	if m.KeyCount() == 0 {
		return nil, fmt.Errorf("unknown game mode %d", int(m))
	}
	return m.String(), nil
}

func (m *GameMode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return kindError(value, "a game mode")
	}
	switch value.Value {
	case "Keys4":
		*m = Keys4
	case "Keys7":
		*m = Keys7
	default:
		return fmt.Errorf("line %d: unknown game mode %q", value.Line, value.Value)
	}
	return nil
}

// TimeSignature is the number of beats per measure of a timing point. The
// zero TimeSignature behaves as Quadruple.
type TimeSignature int

const (
	Quadruple TimeSignature = 4
	Triple    TimeSignature = 3
)

func (s TimeSignature) String() string {
	switch s {
	case 0, Quadruple:
		return "Quadruple"
	case Triple:
		return "Triple"
	}
	return "TimeSignature(" + strconv.Itoa(int(s)) + ")"
}

// MarshalYAML writes the signature as its beat count.
func (s TimeSignature) MarshalYAML() (any, error) {
	switch s {
	case 0, Quadruple:
		return int(Quadruple), nil
	case Triple:
		return int(Triple), nil
	}
	return nil, fmt.Errorf("unknown time signature %d", int(s))
}

// UnmarshalYAML accepts the beat count or the signature name.
func (s *TimeSignature) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return kindError(value, "a time signature")
	}
	switch value.Value {
	case "4", "Quadruple":
		*s = Quadruple
	case "3", "Triple":
		*s = Triple
	default:
		return fmt.Errorf("line %d: unknown time signature %q", value.Line, value.Value)
	}
	return nil
}

// HitSounds is a bit set of the sounds played when a note is hit.
type HitSounds uint8

const (
	HitSoundNormal HitSounds = 1 << iota
	HitSoundWhistle
	HitSoundFinish
	HitSoundClap
)

var hitSoundNames = []struct {
	flag HitSounds
	name string
}{
	{HitSoundNormal, "Normal"},
	{HitSoundWhistle, "Whistle"},
	{HitSoundFinish, "Finish"},
	{HitSoundClap, "Clap"},
}

// Has reports whether every flag of f is set.
func (h HitSounds) Has(f HitSounds) bool { return h&f == f }

func (h HitSounds) String() string {
	if h == 0 {
		return "None"
	}
	var names []string
	rest := h
	for _, hs := range hitSoundNames {
		if h&hs.flag != 0 {
			names = append(names, hs.name)
			rest &^= hs.flag
		}
	}
	if rest != 0 {
		names = append(names, strconv.Itoa(int(rest)))
	}
	return strings.Join(names, ", ")
}

func (h HitSounds) MarshalYAML() (any, error) {
	return int(h), nil
}

// UnmarshalYAML accepts the raw bit value or a comma separated list of flag
// names such as "Whistle, Clap".
func (h *HitSounds) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return kindError(value, "hit sounds")
	}
	if n, err := strconv.ParseUint(value.Value, 10, 8); err == nil {
		*h = HitSounds(n)
		return nil
	}
	var out HitSounds
	for _, part := range strings.Split(value.Value, ",") {
		part = strings.TrimSpace(part)
		found := false
		for _, hs := range hitSoundNames {
			if hs.name == part {
				out |= hs.flag
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("line %d: unknown hit sound %q", value.Line, part)
		}
	}
	*h = out
	return nil
}
