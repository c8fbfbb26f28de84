package qua

import (
	"gopkg.in/yaml.v3"
)

// Chart is one playable .qua map: song metadata plus its ordered timing and
// note data.
//
// Hitsound samples beyond the HitSound flags are not modelled. Genre is
// unused by the game but exists in the format.
type Chart struct {
	// AudioFile is the name of the audio file.
	AudioFile string
	// SongPreviewTime is the time in milliseconds where the song preview starts.
	SongPreviewTime int32
	BackgroundFile  string
	BannerFile      string
	// MapID is the unique map identifier, -1 if not submitted.
	MapID int32
	// MapSetID is the unique map set identifier, -1 if not submitted.
	MapSetID int32
	Mode     GameMode

	Title          string
	Artist         string
	Source         string
	Tags           string
	Creator        string
	DifficultyName string
	Description    string
	Genre          string

	// BPMDoesNotAffectScrollVelocity selects the SV format: when false the
	// slider velocities are denormalized (BPM affects SV), when true they are
	// normalized.
	BPMDoesNotAffectScrollVelocity bool
	// InitialScrollVelocity applies before the first SV change. Only used
	// with normalized SVs.
	InitialScrollVelocity float32
	// HasScratchKey adds a scratch lane for 5K and 8K play.
	HasScratchKey bool

	EditorLayers       []EditorLayer
	CustomAudioSamples []CustomAudioSample
	SoundEffects       []SoundEffect
	TimingPoints       []TimingPoint
	SliderVelocities   []ScrollVelocity
	HitObjects         []HitObject
}

// New returns a chart with every field at its default.
func New() *Chart {
	return &Chart{
		MapID:                 -1,
		MapSetID:              -1,
		Mode:                  Keys4,
		InitialScrollVelocity: 1,
		EditorLayers:          []EditorLayer{},
		CustomAudioSamples:    []CustomAudioSample{},
		SoundEffects:          []SoundEffect{},
		TimingPoints:          []TimingPoint{},
		SliderVelocities:      []ScrollVelocity{},
		HitObjects:            []HitObject{},
	}
}

func (c *Chart) fields() []field {
	return []field{
		scalar("AudioFile", &c.AudioFile),
		scalar("SongPreviewTime", &c.SongPreviewTime),
		scalar("BackgroundFile", &c.BackgroundFile),
		scalar("BannerFile", &c.BannerFile),
		scalar("MapId", &c.MapID),
		scalar("MapSetId", &c.MapSetID),
		scalar("Mode", &c.Mode),
		scalar("Title", &c.Title),
		scalar("Artist", &c.Artist),
		scalar("Source", &c.Source),
		scalar("Tags", &c.Tags),
		scalar("Creator", &c.Creator),
		scalar("DifficultyName", &c.DifficultyName),
		scalar("Description", &c.Description),
		scalar("Genre", &c.Genre),
		scalar("BPMDoesNotAffectScrollVelocity", &c.BPMDoesNotAffectScrollVelocity, "BpmDoesNotAffectScrollVelocity"),
		scalar("InitialScrollVelocity", &c.InitialScrollVelocity),
		scalar("HasScratchKey", &c.HasScratchKey),
		list("EditorLayers", &c.EditorLayers),
		list("CustomAudioSamples", &c.CustomAudioSamples),
		list("SoundEffects", &c.SoundEffects),
		list("TimingPoints", &c.TimingPoints),
		list("SliderVelocities", &c.SliderVelocities),
		list("HitObjects", &c.HitObjects),
	}
}

// UnmarshalYAML resets c to its defaults and then applies the keys present
// in value.
func (c *Chart) UnmarshalYAML(value *yaml.Node) error {
	*c = *New()
	if isNull(value) {
		return nil
	}
	return decodeMapping(value, c.fields())
}

func (c Chart) MarshalYAML() (any, error) {
	return encodeMapping(c.fields())
}

// EditorLayer separates notes into layers in the editor.
type EditorLayer struct {
	Name   string
	Hidden bool
	// ColorRGB is the layer colour in "rrr,ggg,bbb" form.
	ColorRGB string
}

func DefaultEditorLayer() EditorLayer {
	return EditorLayer{ColorRGB: "255,255,255"}
}

func (l *EditorLayer) fields() []field {
	return []field{
		scalar("Name", &l.Name),
		scalar("Hidden", &l.Hidden),
		scalar("ColorRgb", &l.ColorRGB),
	}
}

func (l *EditorLayer) UnmarshalYAML(value *yaml.Node) error {
	*l = DefaultEditorLayer()
	if isNull(value) {
		return nil
	}
	return decodeMapping(value, l.fields())
}

func (l EditorLayer) MarshalYAML() (any, error) { return encodeMapping(l.fields()) }

// CustomAudioSample is a sample that hit objects and sound effects refer to
// by index.
type CustomAudioSample struct {
	Path string
	// UnaffectedByRate plays the sample at 1.0x regardless of the song rate.
	UnaffectedByRate bool
}

func (s *CustomAudioSample) fields() []field {
	return []field{
		scalar("Path", &s.Path),
		scalar("UnaffectedByRate", &s.UnaffectedByRate),
	}
}

func (s *CustomAudioSample) UnmarshalYAML(value *yaml.Node) error {
	*s = CustomAudioSample{}
	if isNull(value) {
		return nil
	}
	return decodeMapping(value, s.fields())
}

func (s CustomAudioSample) MarshalYAML() (any, error) { return encodeMapping(s.fields()) }

// SoundEffect plays a custom sample at a moment in time.
type SoundEffect struct {
	StartTime float32
	// Sample is the one-based index into Chart.CustomAudioSamples.
	Sample int32
	Volume int32
}

func (e *SoundEffect) fields() []field {
	return []field{
		scalar("StartTime", &e.StartTime),
		scalar("Sample", &e.Sample),
		scalar("Volume", &e.Volume),
	}
}

func (e *SoundEffect) UnmarshalYAML(value *yaml.Node) error {
	*e = SoundEffect{}
	if isNull(value) {
		return nil
	}
	return decodeMapping(value, e.fields())
}

func (e SoundEffect) MarshalYAML() (any, error) { return encodeMapping(e.fields()) }

// TimingPoint is a moment where the BPM of the song changes.
type TimingPoint struct {
	StartTime float32
	Bpm       float32
	Signature TimeSignature
	// Hidden hides the timing lines of this section.
	Hidden bool
}

func DefaultTimingPoint() TimingPoint {
	return TimingPoint{Signature: Quadruple}
}

func (p *TimingPoint) fields() []field {
	return []field{
		scalar("StartTime", &p.StartTime),
		scalar("Bpm", &p.Bpm),
		scalar("Signature", &p.Signature),
		scalar("Hidden", &p.Hidden),
	}
}

func (p *TimingPoint) UnmarshalYAML(value *yaml.Node) error {
	*p = DefaultTimingPoint()
	if isNull(value) {
		return nil
	}
	return decodeMapping(value, p.fields())
}

func (p TimingPoint) MarshalYAML() (any, error) { return encodeMapping(p.fields()) }

// ScrollVelocity is a moment where the scroll speed changes. A following
// timing point overrides it.
type ScrollVelocity struct {
	StartTime  float32
	Multiplier float32
}

func (v *ScrollVelocity) fields() []field {
	return []field{
		scalar("StartTime", &v.StartTime),
		scalar("Multiplier", &v.Multiplier),
	}
}

func (v *ScrollVelocity) UnmarshalYAML(value *yaml.Node) error {
	*v = ScrollVelocity{}
	if isNull(value) {
		return nil
	}
	return decodeMapping(value, v.fields())
}

func (v ScrollVelocity) MarshalYAML() (any, error) { return encodeMapping(v.fields()) }

// HitObject is a note. It is a long note when EndTime > 0.
type HitObject struct {
	StartTime int32
	// Lane is one-based.
	Lane     int32
	EndTime  int32
	HitSound HitSounds
	// KeySounds are played when the object is hit.
	KeySounds []KeySound
	// EditorLayer is the index into Chart.EditorLayers.
	EditorLayer int32
}

func DefaultHitObject() HitObject {
	return HitObject{Lane: 1, KeySounds: []KeySound{}}
}

// IsLongNote reports whether the object must be held.
func (h HitObject) IsLongNote() bool { return h.EndTime > 0 }

// EndOrStart is EndTime for long notes and StartTime otherwise.
func (h HitObject) EndOrStart() int32 {
	if h.IsLongNote() {
		return h.EndTime
	}
	return h.StartTime
}

func (h *HitObject) fields() []field {
	return []field{
		scalar("StartTime", &h.StartTime),
		scalar("Lane", &h.Lane),
		scalar("EndTime", &h.EndTime),
		scalar("HitSound", &h.HitSound),
		list("KeySounds", &h.KeySounds),
		scalar("EditorLayer", &h.EditorLayer),
	}
}

func (h *HitObject) UnmarshalYAML(value *yaml.Node) error {
	*h = DefaultHitObject()
	if isNull(value) {
		return nil
	}
	return decodeMapping(value, h.fields())
}

func (h HitObject) MarshalYAML() (any, error) { return encodeMapping(h.fields()) }

// KeySound is a sample played for a single note.
type KeySound struct {
	// Sample is the index into Chart.CustomAudioSamples.
	Sample int32
	// Volume is 0-100.
	Volume int32
}

func DefaultKeySound() KeySound {
	return KeySound{Volume: 100}
}

func (k *KeySound) fields() []field {
	return []field{
		scalar("Sample", &k.Sample),
		scalar("Volume", &k.Volume),
	}
}

func (k *KeySound) UnmarshalYAML(value *yaml.Node) error {
	*k = DefaultKeySound()
	if isNull(value) {
		return nil
	}
	return decodeMapping(value, k.fields())
}

func (k KeySound) MarshalYAML() (any, error) { return encodeMapping(k.fields()) }

// Clone returns a deep copy of c.
func (c *Chart) Clone() *Chart {
	out := *c
	out.EditorLayers = append([]EditorLayer{}, c.EditorLayers...)
	out.CustomAudioSamples = append([]CustomAudioSample{}, c.CustomAudioSamples...)
	out.SoundEffects = append([]SoundEffect{}, c.SoundEffects...)
	out.TimingPoints = append([]TimingPoint{}, c.TimingPoints...)
	out.SliderVelocities = append([]ScrollVelocity{}, c.SliderVelocities...)
	out.HitObjects = make([]HitObject, len(c.HitObjects))
	for i, h := range c.HitObjects {
		h.KeySounds = append([]KeySound{}, h.KeySounds...)
		out.HitObjects[i] = h
	}
	return &out
}
