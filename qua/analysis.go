package qua

import "errors"

// ErrNoTimingPoints is returned by operations that need at least one timing
// point.
var ErrNoTimingPoints = errors.New("qua: chart has no timing points")

// KeyCount is the number of lanes, including the scratch lane.
func (c *Chart) KeyCount() int {
	n := c.Mode.KeyCount()
	if c.HasScratchKey {
		n++
	}
	return n
}

// Length is the time in milliseconds at which the last hit object ends.
func (c *Chart) Length() int32 {
	var end int32
	for _, h := range c.HitObjects {
		if t := h.EndOrStart(); t > end {
			end = t
		}
	}
	return end
}

// CommonBPM returns the BPM that lasts the longest, measured up to the end of
// the last hit object. Ties go to the BPM met last in the chart.
func (c *Chart) CommonBPM() float32 {
	if len(c.TimingPoints) == 0 {
		return 0
	}
	if len(c.HitObjects) == 0 {
		return c.TimingPoints[0].Bpm
	}

	lastTime := float64(c.Length())
	type total struct {
		bpm      float32
		duration int64
	}
	var totals []total
	for i := len(c.TimingPoints) - 1; i >= 0; i-- {
		p := c.TimingPoints[i]
		if float64(p.StartTime) > lastTime {
			continue
		}
		start := float64(p.StartTime)
		if i == 0 {
			start = 0
		}
		d := int64(lastTime - start)
		lastTime = float64(p.StartTime)

		found := false
		for j := range totals {
			if totals[j].bpm == p.Bpm {
				totals[j].duration += d
				found = true
				break
			}
		}
		if !found {
			totals = append(totals, total{bpm: p.Bpm, duration: d})
		}
	}
	if len(totals) == 0 {
		return c.TimingPoints[0].Bpm
	}
	best := totals[0]
	for _, t := range totals[1:] {
		if t.duration > best.duration {
			best = t
		}
	}
	return best.bpm
}

// NormalizeSVs converts denormalized slider velocities, where each SV is
// scaled by the current BPM relative to CommonBPM, into the normalized form.
// It sets BPMDoesNotAffectScrollVelocity and InitialScrollVelocity. Charts
// that are already normalized are left untouched.
//
// Timing points and slider velocities must be sorted by StartTime.
func (c *Chart) NormalizeSVs() error {
	if c.BPMDoesNotAffectScrollVelocity {
		return nil
	}
	if len(c.TimingPoints) == 0 {
		return ErrNoTimingPoints
	}

	baseBpm := c.CommonBPM()
	normalized := []ScrollVelocity{}

	currentBpm := c.TimingPoints[0].Bpm
	svIndex := 0
	var svStart *float32
	svMultiplier := float32(1)
	var adjusted, initial *float32

	emit := func(start, multiplier float32) {
		if adjusted == nil {
			m := multiplier
			adjusted, initial = &m, &m
		}
		if multiplier != *adjusted {
			normalized = append(normalized, ScrollVelocity{StartTime: start, Multiplier: multiplier})
			m := multiplier
			adjusted = &m
		}
	}

	for i, tp := range c.TimingPoints {
		// When several timing points share a timestamp, an SV there applies
		// to the last one only.
		sameTimeNext := i+1 < len(c.TimingPoints) && c.TimingPoints[i+1].StartTime == tp.StartTime

		for svIndex < len(c.SliderVelocities) {
			sv := c.SliderVelocities[svIndex]
			if sv.StartTime > tp.StartTime {
				break
			}
			if sameTimeNext && sv.StartTime == tp.StartTime {
				break
			}
			if sv.StartTime < tp.StartTime {
				emit(sv.StartTime, sv.Multiplier*(currentBpm/baseBpm))
			}
			start := sv.StartTime
			svStart = &start
			svMultiplier = sv.Multiplier
			svIndex++
		}

		// A timing point resets the previous SV.
		if svStart == nil || *svStart < tp.StartTime {
			svMultiplier = 1
		}
		currentBpm = tp.Bpm
		emit(tp.StartTime, svMultiplier*(currentBpm/baseBpm))
	}

	for ; svIndex < len(c.SliderVelocities); svIndex++ {
		sv := c.SliderVelocities[svIndex]
		emit(sv.StartTime, sv.Multiplier*(currentBpm/baseBpm))
	}

	c.BPMDoesNotAffectScrollVelocity = true
	c.SliderVelocities = normalized
	c.InitialScrollVelocity = 1
	if initial != nil {
		c.InitialScrollVelocity = *initial
	}
	return nil
}

// WithNormalizedSVs returns a copy of c with normalized slider velocities.
func (c *Chart) WithNormalizedSVs() (*Chart, error) {
	out := c.Clone()
	if err := out.NormalizeSVs(); err != nil {
		return nil, err
	}
	return out, nil
}
