package audio

type slotName int

const (
	slotMain slotName = iota
	slotCue
	slotOutgoing
)

func (n slotName) String() string {
	switch n {
	case slotMain:
		return "main"
	case slotCue:
		return "cue"
	case slotOutgoing:
		return "outgoing"
	}
	return "unknown"
}

var allSlots = [...]slotName{slotMain, slotCue, slotOutgoing}

// slotSet holds the at-most-three live sources of one track. main is the
// authoritative output once the track has settled; cue holds an incoming
// source mid-transition; outgoing holds a source on its way to silence.
//
// Ownership transfer between slots is a rename, never a copy, and only the
// track state machine and the fade tasks it spawns touch the set.
type slotSet struct {
	main     Source
	cue      Source
	outgoing Source
}

func (s *slotSet) get(n slotName) Source {
	switch n {
	case slotMain:
		return s.main
	case slotCue:
		return s.cue
	case slotOutgoing:
		return s.outgoing
	}
	return nil
}

func (s *slotSet) set(n slotName, src Source) {
	switch n {
	case slotMain:
		s.main = src
	case slotCue:
		s.cue = src
	case slotOutgoing:
		s.outgoing = src
	}
}

func (s *slotSet) live() int {
	count := 0
	for _, n := range allSlots {
		if s.get(n) != nil {
			count++
		}
	}
	return count
}

// destroy releases the named slot, if occupied. Safe to call on an empty
// slot or a source that already died.
func (s *slotSet) destroy(n slotName) {
	src := s.get(n)
	if src == nil {
		return
	}
	s.set(n, nil)
	if src.Alive() {
		src.Destroy()
	}
}

func (s *slotSet) destroyAll() {
	for _, n := range allSlots {
		s.destroy(n)
	}
}

// promoteCue renames cue to main. The caller must have released any old
// main first.
func (s *slotSet) promoteCue() {
	s.main = s.cue
	s.cue = nil
}

// demoteMain renames main to outgoing. The caller must have released any
// old outgoing first.
func (s *slotSet) demoteMain() {
	s.outgoing = s.main
	s.main = nil
}

// demoteCue renames cue to outgoing. The caller must have released any old
// outgoing first.
func (s *slotSet) demoteCue() {
	s.outgoing = s.cue
	s.cue = nil
}
