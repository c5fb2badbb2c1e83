package corona

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// defaultTimePerFrame is used when a sequence gives neither a per-frame time
// nor a total duration, so seeking still has a time base.
const defaultTimePerFrame = 10

// FrameTimes is the timePerFrame field of a sequence description. It holds
// either a single uniform time in milliseconds or one time per frame.
type FrameTimes struct {
	Uniform  float64
	PerFrame []float64
}

// UniformFrameTime returns FrameTimes with the same time for every frame.
func UniformFrameTime(ms float64) FrameTimes { return FrameTimes{Uniform: ms} }

// PerFrameTimes returns FrameTimes with an explicit time per frame.
func PerFrameTimes(ms ...float64) FrameTimes { return FrameTimes{PerFrame: ms} }

func (ft FrameTimes) isZero() bool { return ft.Uniform == 0 && ft.PerFrame == nil }

// UnmarshalJSON accepts either a number or an array of numbers.
func (ft *FrameTimes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var arr []float64
		if err := json.Unmarshal(data, &arr); err != nil {
			return errors.Wrap(err, "corona: timePerFrame array")
		}
		*ft = FrameTimes{PerFrame: arr}
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*ft = FrameTimes{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrap(err, "corona: timePerFrame")
	}
	*ft = FrameTimes{Uniform: v}
	return nil
}

// MarshalJSON writes the array form when per-frame times are set.
func (ft FrameTimes) MarshalJSON() ([]byte, error) {
	if ft.PerFrame != nil {
		return json.Marshal(ft.PerFrame)
	}
	return json.Marshal(ft.Uniform)
}

// SequenceData is the declarative description of an animation sequence.
// Frame numbers are 1-based, as authored.
type SequenceData struct {
	Name         string     `json:"name"`
	Start        int        `json:"start,omitempty"`
	Count        int        `json:"count,omitempty"`
	Frames       []int      `json:"frames,omitempty"`
	TimePerFrame FrameTimes `json:"timePerFrame"`
	Duration     float64    `json:"duration,omitempty"`
	LoopCount    int        `json:"loopCount,omitempty"` // 0 loops forever
}

// ParseSequences decodes a JSON array of sequence descriptions.
func ParseSequences(data []byte) ([]SequenceData, error) {
	var out []SequenceData
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "corona: failed to parse sequence JSON")
	}
	return out, nil
}

// SpriteSequence maps play time to sheet frames for one named animation.
// It is immutable after creation.
type SpriteSequence struct {
	name      string
	start     int   // 0-based first sheet frame, consecutive mode only
	frames    []int // 0-based sheet frames, explicit-list mode only
	numFrames int
	loopCount int

	timePerFrame      float64
	timePerFrameArray []float64
	loopDuration      float64
}

// NewSpriteSequence builds a sequence from its description. Exactly one of
// Start (with Count) or a non-empty Frames list must be given. Frame numbers
// outside the sheet are clamped with a warning.
func NewSpriteSequence(data SequenceData, numFramesInSheet int) (*SpriteSequence, error) {
	log := Logger()
	seq := &SpriteSequence{name: data.Name, loopCount: max(data.LoopCount, 0)}

	switch {
	case data.Start > 0:
		count := data.Count
		if count <= 0 {
			return nil, errors.Wrapf(ErrInvalidFrameCount, "sequence %q: count %d", data.Name, count)
		}
		start := data.Start
		if numFramesInSheet > 0 && start > numFramesInSheet {
			log.Warn("sequence start frame out of range, clamping",
				"sequence", data.Name, "start", start, "frames", numFramesInSheet)
			start = numFramesInSheet
		}
		if numFramesInSheet > 0 && start+count-1 > numFramesInSheet {
			log.Warn("sequence count exceeds image sheet, shortening",
				"sequence", data.Name, "count", count, "frames", numFramesInSheet)
			count = numFramesInSheet - start + 1
		}
		seq.start = start - 1
		seq.numFrames = count
	case len(data.Frames) > 0:
		seq.frames = make([]int, len(data.Frames))
		for i, f := range data.Frames {
			if numFramesInSheet > 0 && (f < 1 || f > numFramesInSheet) {
				log.Warn("sequence frame out of range, clamping",
					"sequence", data.Name, "frame", f, "frames", numFramesInSheet)
				f = clampInt(f, 1, numFramesInSheet)
			}
			seq.frames[i] = f - 1
		}
		seq.numFrames = len(seq.frames)
	default:
		return nil, errors.Wrapf(ErrMissingFrames, "sequence %q", data.Name)
	}

	switch {
	case data.TimePerFrame.PerFrame != nil:
		seq.timePerFrameArray = normalizeFrameTimes(data.Name, data.TimePerFrame.PerFrame, seq.numFrames)
	case data.TimePerFrame.Uniform > 0:
		seq.timePerFrame = data.TimePerFrame.Uniform
	case data.Duration > 0:
		seq.timePerFrame = data.Duration / float64(seq.numFrames)
	}
	if seq.timePerFrameArray == nil && seq.timePerFrame <= 0 {
		seq.timePerFrame = defaultTimePerFrame
	}

	if seq.timePerFrameArray != nil {
		for _, t := range seq.timePerFrameArray {
			seq.loopDuration += t
		}
	} else {
		seq.loopDuration = seq.timePerFrame * float64(seq.numFrames)
	}
	return seq, nil
}

// normalizeFrameTimes copies times into an array of exactly numFrames
// entries: values below 1 become 1, extra entries are cropped, and a short
// array is extended with its last value.
func normalizeFrameTimes(name string, times []float64, numFrames int) []float64 {
	log := Logger()
	out := make([]float64, numFrames)
	if len(times) == 0 {
		log.Warn("empty timePerFrame array, assuming 1ms per frame", "sequence", name)
		for i := range out {
			out[i] = 1
		}
		return out
	}
	n := copy(out, times)
	for i := 0; i < n; i++ {
		if out[i] < 1 {
			log.Warn("invalid value in timePerFrame array, assuming 1",
				"sequence", name, "index", i, "value", out[i])
			out[i] = 1
		}
	}
	switch {
	case len(times) > numFrames:
		log.Warn("timePerFrame array larger than frame count, cropping",
			"sequence", name, "size", len(times), "frames", numFrames)
	case len(times) < numFrames:
		log.Warn("timePerFrame array smaller than frame count, extending with last time",
			"sequence", name, "size", len(times), "frames", numFrames)
		for i := n; i < numFrames; i++ {
			out[i] = out[n-1]
		}
	}
	return out
}

// Name returns the sequence name ("" when unnamed).
func (s *SpriteSequence) Name() string { return s.name }

// NumFrames returns the number of frames in one loop.
func (s *SpriteSequence) NumFrames() int { return s.numFrames }

// LoopCount returns the number of loops to play; 0 means forever.
func (s *SpriteSequence) LoopCount() int { return s.loopCount }

// IsConsecutiveFrames reports whether the sequence plays a contiguous range
// of sheet frames rather than an explicit list.
func (s *SpriteSequence) IsConsecutiveFrames() bool { return s.frames == nil }

// TimePerFrame returns the uniform frame time in ms, or 0 when per-frame
// times are used.
func (s *SpriteSequence) TimePerFrame() float64 {
	if s.timePerFrameArray != nil {
		return 0
	}
	return s.timePerFrame
}

// TimePerFrameArray returns the per-frame times, or nil for uniform timing.
func (s *SpriteSequence) TimePerFrameArray() []float64 { return s.timePerFrameArray }

// LoopDuration returns the play time of one full loop in ms.
func (s *SpriteSequence) LoopDuration() float64 { return s.loopDuration }

// FrameTime returns the display time of frame i (0-based, within one loop).
func (s *SpriteSequence) FrameTime(i int) float64 {
	if s.timePerFrameArray != nil {
		return s.timePerFrameArray[s.FrameIndexForEffectiveFrameIndex(i)]
	}
	return s.timePerFrame
}

// FrameIndexForEffectiveFrameIndex returns the frame within the current loop.
func (s *SpriteSequence) FrameIndexForEffectiveFrameIndex(i int) int {
	return i % s.numFrames
}

// SheetFrameIndexForFrameIndex returns the 0-based image sheet frame shown
// for in-loop frame i.
func (s *SpriteSequence) SheetFrameIndexForFrameIndex(i int) int {
	if s.IsConsecutiveFrames() {
		return s.start + i
	}
	return s.frames[i]
}

// LoopIndexForEffectiveFrameIndex returns the 1-based loop iteration that
// effective frame i falls in.
func (s *SpriteSequence) LoopIndexForEffectiveFrameIndex(i int) int {
	return 1 + i/s.numFrames
}

// PlayTimeForEffectiveFrameIndex returns the play time in ms at which
// effective frame i starts.
func (s *SpriteSequence) PlayTimeForEffectiveFrameIndex(i int) float64 {
	if s.timePerFrameArray == nil {
		return float64(i) * s.timePerFrame
	}
	if s.loopCount == 1 && i <= s.numFrames {
		return sumTimes(s.timePerFrameArray[:i])
	}
	completed := s.LoopIndexForEffectiveFrameIndex(i) - 1
	inLoop := s.FrameIndexForEffectiveFrameIndex(i)
	return float64(completed)*s.loopDuration + sumTimes(s.timePerFrameArray[:inLoop])
}

// EffectiveFrameIndexForPlayTime returns the effective frame showing at play
// time t (ms): the largest i with PlayTimeForEffectiveFrameIndex(i) <= t.
func (s *SpriteSequence) EffectiveFrameIndexForPlayTime(t float64) int {
	if t <= 0 {
		return 0
	}
	if s.timePerFrameArray == nil {
		return int(t / s.timePerFrame)
	}
	completed := int(t / s.loopDuration)
	rem := t - float64(completed)*s.loopDuration
	i := 0
	for ; i < s.numFrames-1; i++ {
		if rem < s.timePerFrameArray[i] {
			break
		}
		rem -= s.timePerFrameArray[i]
	}
	return completed*s.numFrames + i
}

func sumTimes(times []float64) float64 {
	var total float64
	for _, t := range times {
		total += t
	}
	return total
}
