package corona

// spriteState is the playback state of a KindSprite object.
type spriteState struct {
	sequences []*SpriteSequence
	current   *SpriteSequence

	playing   bool
	began     bool // "began" already reported for this play
	timeScale float64
	playTime  float64 // ms of sequence time played
	lastRun   float64 // player clock at last advance
	effective int     // effective frame index shown
}

// NewSpriteObject creates a detached sprite showing the first frame of the
// first sequence. It panics if seqs is empty.
func NewSpriteObject(name string, sheet *ImageSheet, seqs []*SpriteSequence) *Object {
	if len(seqs) == 0 {
		panic("corona: sprite needs at least one sequence")
	}
	o := newObject(KindSprite, name)
	o.sheet = sheet
	o.texture = sheet.Texture().retain()
	o.sprite = &spriteState{sequences: seqs, current: seqs[0], timeScale: 1}
	o.showEffectiveFrame(0)
	return o
}

func (o *Object) showEffectiveFrame(i int) {
	s := o.sprite
	s.effective = i
	seq := s.current
	sheetIndex := seq.SheetFrameIndexForFrameIndex(seq.FrameIndexForEffectiveFrameIndex(i))
	o.setSheetFrameIndex(clampInt(sheetIndex, 0, len(o.sheet.frames)-1))
}

// IsPlaying reports whether the sprite is advancing.
func (o *Object) IsPlaying() bool { return o.sprite != nil && o.sprite.playing }

// SequenceName returns the name of the active sequence.
func (o *Object) SequenceName() string {
	if o.sprite == nil {
		return ""
	}
	return o.sprite.current.Name()
}

// Frame returns the 1-based frame within the active sequence.
func (o *Object) Frame() int {
	if o.sprite == nil {
		return 0
	}
	return o.sprite.current.FrameIndexForEffectiveFrameIndex(o.sprite.effective) + 1
}

// NumFrames returns the number of frames in the active sequence.
func (o *Object) NumFrames() int {
	if o.sprite == nil {
		return 0
	}
	return o.sprite.current.NumFrames()
}

// TimeScale returns the playback speed multiplier.
func (o *Object) TimeScale() float64 {
	if o.sprite == nil {
		return 0
	}
	return o.sprite.timeScale
}

// Play starts or resumes playback.
func (o *Object) Play() {
	s := o.sprite
	if s == nil || s.playing {
		return
	}
	if lc := s.current.LoopCount(); lc > 0 && s.playTime >= s.current.PlayTimeForEffectiveFrameIndex(lc*s.current.NumFrames()) {
		s.playTime = 0
		o.showEffectiveFrame(0)
	}
	s.playing = true
	s.began = false
	s.lastRun = -1
}

// Pause stops playback at the current frame.
func (o *Object) Pause() {
	if o.sprite != nil {
		o.sprite.playing = false
	}
}

// SetSequence switches to the named sequence and rewinds to its first frame.
// It reports false when no sequence has that name.
func (o *Object) SetSequence(name string) bool {
	s := o.sprite
	if s == nil {
		return false
	}
	for _, seq := range s.sequences {
		if seq.Name() == name {
			s.current = seq
			s.playing = false
			s.playTime = 0
			o.showEffectiveFrame(0)
			return true
		}
	}
	Logger().Warn("sprite sequence not found", "object", o.Name, "sequence", name)
	return false
}

// SetFrame seeks to the given 1-based frame of the active sequence within
// the current loop. Out-of-range frames are clamped.
func (o *Object) SetFrame(frame int) {
	s := o.sprite
	if s == nil {
		return
	}
	seq := s.current
	if frame < 1 || frame > seq.NumFrames() {
		Logger().Warn("sprite frame out of range, clamping",
			"object", o.Name, "frame", frame, "numFrames", seq.NumFrames())
		frame = clampInt(frame, 1, seq.NumFrames())
	}
	loop := seq.LoopIndexForEffectiveFrameIndex(s.effective)
	i := (loop-1)*seq.NumFrames() + frame - 1
	s.playTime = seq.PlayTimeForEffectiveFrameIndex(i)
	o.showEffectiveFrame(i)
}

// SetTimeScale sets the playback speed multiplier, clamped to [0.05, 20].
func (o *Object) SetTimeScale(scale float64) {
	if o.sprite == nil {
		return
	}
	o.sprite.timeScale = min(max(scale, 0.05), 20)
}

// SpritePlayer advances every registered sprite from a millisecond clock.
type SpritePlayer struct {
	sprites    []*Object
	dispatcher EventDispatcher
}

// NewSpritePlayer returns a player reporting sprite events to d (may be nil).
func NewSpritePlayer(d EventDispatcher) *SpritePlayer {
	return &SpritePlayer{dispatcher: d}
}

// Add registers a sprite object. Non-sprites are ignored.
func (p *SpritePlayer) Add(o *Object) {
	if o == nil || o.kind != KindSprite || o.sprite == nil {
		return
	}
	p.sprites = append(p.sprites, o)
}

// Len returns the number of registered sprites.
func (p *SpritePlayer) Len() int { return len(p.sprites) }

// Run advances every playing sprite to the clock value nowMs. Disposed
// sprites are dropped.
func (p *SpritePlayer) Run(nowMs float64) {
	// Sprites added by listeners during this run start on the next one.
	n := len(p.sprites)
	for i := 0; i < n; i++ {
		o := p.sprites[i]
		if !o.disposed && o.sprite != nil && o.sprite.playing {
			p.advance(o, nowMs)
		}
	}
	kept := p.sprites[:0]
	for _, o := range p.sprites {
		if !o.disposed && o.sprite != nil {
			kept = append(kept, o)
		}
	}
	for i := len(kept); i < len(p.sprites); i++ {
		p.sprites[i] = nil
	}
	p.sprites = kept
}

func (p *SpritePlayer) advance(o *Object, nowMs float64) {
	s := o.sprite
	seq := s.current
	if s.lastRun >= 0 {
		s.playTime += (nowMs - s.lastRun) * s.timeScale
	}
	s.lastRun = nowMs

	if !s.began {
		s.began = true
		p.emit(o, SpriteBegan)
		if o.sprite == nil || !s.playing {
			return
		}
	}

	i := seq.EffectiveFrameIndexForPlayTime(s.playTime)
	ended := false
	if lc := seq.LoopCount(); lc > 0 {
		if last := lc*seq.NumFrames() - 1; i >= last && s.playTime >= seq.PlayTimeForEffectiveFrameIndex(last+1) {
			i = last
			ended = true
		} else if i > last {
			i = last
		}
	}

	if i != s.effective {
		prevLoop := seq.LoopIndexForEffectiveFrameIndex(s.effective)
		o.showEffectiveFrame(i)
		if seq.LoopIndexForEffectiveFrameIndex(i) > prevLoop {
			p.emit(o, SpriteLoop)
		} else {
			p.emit(o, SpriteNext)
		}
	}

	if ended {
		s.playing = false
		p.emit(o, SpriteEnded)
	}
}

func (p *SpritePlayer) emit(o *Object, phase SpritePhase) {
	s := o.sprite
	if p.dispatcher == nil || s == nil {
		return
	}
	p.dispatcher.DispatchEvent(SpriteEvent{
		Target:   o,
		Phase:    phase,
		Sequence: s.current.Name(),
		Frame:    s.current.FrameIndexForEffectiveFrameIndex(s.effective) + 1,
		Loop:     s.current.LoopIndexForEffectiveFrameIndex(s.effective),
	})
}
