package export

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"quaformat/internal/config"
	"quaformat/qua"
)

// TicksPerQuarter at a fixed 60 BPM makes one tick one millisecond.
const TicksPerQuarter = 1000

type MIDIOptions struct {
	Channel  uint8
	BaseKey  uint8
	Velocity uint8
	// NoteLength is used for notes without an end time, in milliseconds.
	NoteLength int
}

func MIDIOptionsFromConfig(c config.MIDIConfig) MIDIOptions {
	return MIDIOptions{
		Channel:    c.Channel,
		BaseKey:    c.BaseKey,
		Velocity:   c.Velocity,
		NoteLength: c.NoteLength,
	}
}

type noteEvent struct {
	tick uint32
	off  bool
	key  uint8
}

// Key maps a 1-based lane to a MIDI key.
func (o MIDIOptions) Key(lane int32) uint8 {
	k := int32(o.BaseKey) + lane - 1
	if k < 0 {
		return 0
	}
	if k > 127 {
		return 127
	}
	return uint8(k)
}

func noteEvents(c *qua.Chart, o MIDIOptions) []noteEvent {
	length := o.NoteLength
	if length <= 0 {
		length = 1
	}
	events := make([]noteEvent, 0, 2*len(c.HitObjects))
	for _, h := range c.HitObjects {
		start := h.StartTime
		if start < 0 {
			start = 0
		}
		end := start + int32(length)
		if h.IsLongNote() && h.EndTime > start {
			end = h.EndTime
		}
		key := o.Key(h.Lane)
		events = append(events,
			noteEvent{tick: uint32(start), key: key},
			noteEvent{tick: uint32(end), off: true, key: key},
		)
	}
	// At equal ticks release before pressing so repeated keys retrigger.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})
	return events
}

func buildSMF(c *qua.Chart, o MIDIOptions) (*smf.SMF, error) {
	if o.Channel > 15 {
		return nil, fmt.Errorf("midi channel %d out of range", o.Channel)
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var tr smf.Track
	name := c.Title
	if c.DifficultyName != "" {
		name += " [" + c.DifficultyName + "]"
	}
	tr.Add(0, smf.MetaTrackSequenceName(name))
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, smf.MetaTempo(60))

	var last uint32
	for _, ev := range noteEvents(c, o) {
		delta := ev.tick - last
		last = ev.tick
		if ev.off {
			tr.Add(delta, midi.NoteOff(o.Channel, ev.key))
		} else {
			tr.Add(delta, midi.NoteOn(o.Channel, ev.key, o.Velocity))
		}
	}
	tr.Close(0)
	if err := s.Add(tr); err != nil {
		return nil, err
	}
	return s, nil
}

// WriteMIDI renders the hit objects of c as a single-track standard MIDI file.
func WriteMIDI(c *qua.Chart, w io.Writer, o MIDIOptions) error {
	s, err := buildSMF(c, o)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("write midi: %w", err)
	}
	return nil
}

func SaveMIDI(c *qua.Chart, path string, o MIDIOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save midi %q: %w", path, err)
	}
	if err := WriteMIDI(c, f, o); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
