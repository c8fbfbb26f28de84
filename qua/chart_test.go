package qua

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChart() *Chart {
	c := New()
	c.Title = "Freedom Dive"
	c.Artist = "xi"
	c.MapID = 42
	c.Mode = Keys7
	c.HasScratchKey = true
	c.InitialScrollVelocity = 0.85
	c.EditorLayers = append(c.EditorLayers, EditorLayer{Name: "drums", Hidden: true, ColorRGB: "12,34,56"})
	c.CustomAudioSamples = append(c.CustomAudioSamples, CustomAudioSample{Path: "kick.wav", UnaffectedByRate: true})
	c.SoundEffects = append(c.SoundEffects, SoundEffect{StartTime: 12.5, Sample: 1, Volume: 70})
	c.TimingPoints = append(c.TimingPoints,
		TimingPoint{StartTime: 0, Bpm: 222.22, Signature: Quadruple},
		TimingPoint{StartTime: 5000.5, Bpm: 111.11, Signature: Triple, Hidden: true},
	)
	c.SliderVelocities = append(c.SliderVelocities, ScrollVelocity{StartTime: 100, Multiplier: 0.5})
	h := DefaultHitObject()
	h.StartTime, h.Lane, h.EndTime = 300, 8, 900
	h.HitSound = HitSoundWhistle | HitSoundClap
	h.KeySounds = append(h.KeySounds, KeySound{Sample: 1, Volume: 55})
	c.HitObjects = append(c.HitObjects, DefaultHitObject(), h)
	return c
}

func TestReadFixture(t *testing.T) {
	c, err := LoadFile("testdata/1416.qua")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("Csikos Post", c.Title)
	assert.Equal("zetoban", c.Artist)
	assert.Equal(int32(1416), c.MapID)
	assert.Equal(4, c.Mode.KeyCount())
	assert.False(c.BPMDoesNotAffectScrollVelocity)
	assert.Equal(float32(1), c.InitialScrollVelocity)

	require.Len(t, c.TimingPoints, 1)
	assert.Equal(float32(0), c.TimingPoints[0].StartTime)
	assert.Equal(float32(160), c.TimingPoints[0].Bpm)
	assert.Equal(Quadruple, c.TimingPoints[0].Signature)

	require.Len(t, c.HitObjects, 5)
	assert.Equal(int32(0), c.HitObjects[0].StartTime)
	assert.Equal(int32(1), c.HitObjects[0].Lane)
	assert.True(c.HitObjects[2].IsLongNote())
	assert.Equal(HitSoundWhistle|HitSoundClap, c.HitObjects[2].HitSound)
	require.Len(t, c.HitObjects[3].KeySounds, 2)
	assert.Equal(int32(100), c.HitObjects[3].KeySounds[0].Volume)
	assert.Equal(int32(40), c.HitObjects[3].KeySounds[1].Volume)

	require.Len(t, c.SoundEffects, 1)
	assert.Equal(int32(80), c.SoundEffects[0].Volume)
}

func TestRoundTrip(t *testing.T) {
	c := sampleChart()
	data, err := c.Marshal()
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestRoundTripDefaultChart(t *testing.T) {
	back, err := Parse(New().String())
	require.NoError(t, err)
	assert.Equal(t, New(), back)
}

func TestRoundTripFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.qua")
	c := sampleChart()
	require.NoError(t, c.SaveFile(path))

	back, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, c, back)

	// no staging files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveFileTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.qua")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("# filler\n"), 1000), 0o644))

	c := New()
	c.Title = "short"
	require.NoError(t, c.SaveFile(path))

	back, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestSaveFileKeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "private.qua")
	require.NoError(t, os.WriteFile(path, []byte("Title: old\n"), 0o600))

	require.NoError(t, sampleChart().SaveFile(path))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestSaveFileFollowsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.qua")
	link := filepath.Join(dir, "link.qua")
	require.NoError(t, os.WriteFile(target, []byte("Title: old\n"), 0o644))
	require.NoError(t, os.Symlink(target, link))

	c := New()
	c.Title = "through link"
	require.NoError(t, c.SaveFile(link))

	fi, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, fi.Mode()&os.ModeSymlink, "link was replaced by a regular file")

	back, err := LoadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "through link", back.Title)
}

func TestSaveFileReadOnlyDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.qua")
	require.NoError(t, os.WriteFile(path, []byte("Title: old\n"), 0o644))
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	c := sampleChart()
	require.NoError(t, c.SaveFile(path))

	back, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestReadModifyWrite(t *testing.T) {
	c, err := LoadFile("testdata/1416.qua")
	require.NoError(t, err)
	c.Title = "Freedom Dive"

	var buf bytes.Buffer
	require.NoError(t, c.Save(&buf))

	back, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Freedom Dive", back.Title)
	assert.Equal(t, c.HitObjects, back.HitObjects)
}

func TestMissingKeysUseDefaults(t *testing.T) {
	c, err := Parse("Title: only a title\n")
	require.NoError(t, err)

	want := New()
	want.Title = "only a title"
	assert.Equal(t, want, c)
}

func TestNestedDefaults(t *testing.T) {
	c, err := Parse(`
EditorLayers:
- Name: a
TimingPoints:
- StartTime: 10
HitObjects:
- StartTime: 5
  KeySounds:
  - Sample: 2
`)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("255,255,255", c.EditorLayers[0].ColorRGB)
	assert.Equal(Quadruple, c.TimingPoints[0].Signature)
	assert.Equal(int32(1), c.HitObjects[0].Lane)
	assert.Equal(KeySound{Sample: 2, Volume: 100}, c.HitObjects[0].KeySounds[0])
}

func TestNullKeepsDefault(t *testing.T) {
	c, err := Parse("MapId: ~\nHitObjects:\n- ~\n- Lane: null\n")
	require.NoError(t, err)
	assert.Equal(t, int32(-1), c.MapID)
	assert.Equal(t, []HitObject{DefaultHitObject(), DefaultHitObject()}, c.HitObjects)
}

func TestEmptyDocumentIsDefault(t *testing.T) {
	for _, in := range []string{"", "\n", "# comment only\n", "~\n"} {
		c, err := Parse(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, New(), c, "input %q", in)
	}
}

func TestUnknownKeysIgnored(t *testing.T) {
	c, err := Parse(`
Title: t
SomethingNew: 12
Nested:
  Deep: [1, 2]
HitObjects:
- StartTime: 1
  Lane: 2
  FutureField: yes
`)
	require.NoError(t, err)
	assert.Equal(t, "t", c.Title)
	assert.Equal(t, int32(2), c.HitObjects[0].Lane)
}

func TestKeysAreCaseSensitive(t *testing.T) {
	c, err := Parse("title: lower\n")
	require.NoError(t, err)
	assert.Equal(t, "", c.Title)
}

func TestOrderPreserved(t *testing.T) {
	c, err := Parse(`
HitObjects:
- StartTime: 900
- StartTime: 100
- StartTime: 500
TimingPoints:
- StartTime: 2000
  Bpm: 1
- StartTime: 0
  Bpm: 2
`)
	require.NoError(t, err)

	var starts []int32
	for _, h := range c.HitObjects {
		starts = append(starts, h.StartTime)
	}
	assert.Equal(t, []int32{900, 100, 500}, starts)
	assert.Equal(t, float32(2000), c.TimingPoints[0].StartTime)
	assert.Equal(t, float32(0), c.TimingPoints[1].StartTime)
}

func TestBPMAlias(t *testing.T) {
	c, err := Parse("BpmDoesNotAffectScrollVelocity: true\n")
	require.NoError(t, err)
	assert.True(t, c.BPMDoesNotAffectScrollVelocity)

	out := c.String()
	assert.Contains(t, out, "BPMDoesNotAffectScrollVelocity: true")
	assert.NotContains(t, out, "BpmDoesNotAffectScrollVelocity")
}

func TestDuplicateKeyRejected(t *testing.T) {
	for _, in := range []string{
		"Title: a\nTitle: b\n",
		"BPMDoesNotAffectScrollVelocity: true\nBpmDoesNotAffectScrollVelocity: false\n",
	} {
		_, err := Parse(in)
		var fe *FormatError
		assert.ErrorAs(t, err, &fe, "input %q", in)
	}
}

func TestMalformedTypeRejected(t *testing.T) {
	cases := map[string]string{
		"text for int":          "MapId: not a number\n",
		"overflow":              "SongPreviewTime: 99999999999\n",
		"mapping for scalar":    "Title:\n  a: b\n",
		"scalar for list":       "HitObjects: 3\n",
		"bad bool":              "HasScratchKey: maybe\n",
		"unknown mode":          "Mode: Keys5\n",
		"unknown signature":     "TimingPoints:\n- Signature: 5\n",
		"unknown hitsound":      "HitObjects:\n- HitSound: Cowbell\n",
		"bad nested entry":      "HitObjects:\n- StartTime: 1\n- StartTime: soon\n",
		"bad key sound":         "HitObjects:\n- KeySounds:\n  - Volume: loud\n",
		"top level sequence":    "- a\n- b\n",
		"top level scalar":      "hello\n",
		"invalid yaml":          "Title: [unterminated\n",
		"entry is not mapping":  "TimingPoints:\n- 120\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			c, err := Parse(in)
			assert.Nil(t, c)
			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			var ioErr *IOError
			assert.False(t, errors.As(err, &ioErr))
		})
	}
}

func TestNestedErrorNamesPath(t *testing.T) {
	_, err := Parse("HitObjects:\n- StartTime: 1\n- StartTime: soon\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HitObjects: [1]: StartTime")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.qua"))
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open", ioErr.Op)
	assert.True(t, IsNotExist(err))
}

func TestLoadFileMalformedIsFormatError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.qua")
	require.NoError(t, os.WriteFile(path, []byte("MapId: x\n"), 0o644))

	_, err := LoadFile(path)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestSaveFileUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.qua")
	err := New().SaveFile(path)
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, path, ioErr.Path)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("boom") }

func TestStreamFailuresAreFormatErrors(t *testing.T) {
	_, err := Load(failingReader{})
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)

	err = sampleChart().Save(failingWriter{})
	assert.ErrorAs(t, err, &fe)
}

func TestSaveRejectsUnknownEnum(t *testing.T) {
	c := New()
	c.Mode = GameMode(9)
	var fe *FormatError
	assert.ErrorAs(t, c.Save(&bytes.Buffer{}), &fe)
	assert.Equal(t, "", c.String())
}

func TestZeroValueEnumsSaveAsDefaults(t *testing.T) {
	c := New()
	c.TimingPoints = append(c.TimingPoints, TimingPoint{StartTime: 0, Bpm: 120})

	data, err := c.Marshal()
	require.NoError(t, err)
	back, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, back.TimingPoints, 1)
	assert.Equal(t, Quadruple, back.TimingPoints[0].Signature)
	assert.Equal(t, float32(120), back.TimingPoints[0].Bpm)

	var zero Chart
	out := zero.String()
	assert.Contains(t, out, "Mode: Keys4\n")
	back, err = Parse(out)
	require.NoError(t, err)
	assert.Equal(t, Keys4, back.Mode)
	assert.Equal(t, 4, zero.KeyCount())
}

func TestSavedTextShape(t *testing.T) {
	out := sampleChart().String()
	assert.True(t, strings.HasPrefix(out, "AudioFile: \"\"\n"))
	assert.Contains(t, out, "Mode: Keys7\n")
	assert.Contains(t, out, "  Signature: 3\n")
	assert.Contains(t, out, "  HitSound: 10\n")
}

func TestCloneIsDeep(t *testing.T) {
	c := sampleChart()
	d := c.Clone()
	d.HitObjects[1].KeySounds[0].Volume = 1
	d.TimingPoints[0].Bpm = 1
	assert.Equal(t, int32(55), c.HitObjects[1].KeySounds[0].Volume)
	assert.Equal(t, float32(222.22), c.TimingPoints[0].Bpm)
}
