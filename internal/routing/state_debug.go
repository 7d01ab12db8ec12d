package routing

import (
	"fmt"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
)

func (s *State) String() string {
	rent := ""
	if s.IsBikeRenting() {
		rent = "BIKE_RENT "
	}
	return fmt.Sprintf("<State %s [%.1f] %s%s>",
		time.Unix(s.time, 0).UTC().Format(time.RFC3339), s.weight, rent, s.vertex.Label())
}

// DumpPath renders the whole back-chain of states, newest first, for
// debugging.
func (s *State) DumpPath() string {
	var b strings.Builder
	b.WriteString("---- FOLLOWING CHAIN OF STATES ----\n")
	for cur := s; cur != nil; cur = cur.backState {
		fmt.Fprintf(&b, "%s via %s\n", cur, describeNarrative(cur.backEdgeNarrative))
	}
	b.WriteString("---- END CHAIN OF STATES ----\n")
	return b.String()
}

// DumpVerbose renders the state's scalar fields and full payload for
// debugging.
func (s *State) DumpVerbose() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s t=%d d=%.1f b=%d\n", s, s.ElapsedTime(), s.walkDistance, s.NumBoardings())
	b.WriteString(spew.Sdump(s.stateData))
	return b.String()
}

// PathParserStates renders the automaton position vector, e.g. "( 00 02 )".
func (s *State) PathParserStates() string {
	var b strings.Builder
	b.WriteString("( ")
	for _, position := range s.pathParserStates {
		fmt.Fprintf(&b, "%02d ", position)
	}
	b.WriteString(")")
	return b.String()
}

func describeNarrative(en EdgeNarrative) string {
	if en == nil {
		return "<start>"
	}
	from, to := "?", "?"
	if en.FromVertex() != nil {
		from = en.FromVertex().Label()
	}
	if en.ToVertex() != nil {
		to = en.ToVertex().Label()
	}
	return fmt.Sprintf("%s %s -> %s", en.Mode(), from, to)
}
