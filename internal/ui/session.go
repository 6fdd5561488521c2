package ui

// Session is the page's mutable state.
//
// CurrentTrackID is the only reference a rating is submitted against; it is replaced
// whenever a new track is displayed.
type Session struct {
	Token          string
	Feature        string
	CurrentTrackID string
}

// Selected reports whether a feature has been chosen.
func (s Session) Selected() bool {
	return s.Feature != ""
}

// selectFeature switches to feature and forgets the previous track.
func (s *Session) selectFeature(feature string) {
	s.Feature = feature
	s.CurrentTrackID = ""
}

// reset returns to the unselected state, keeping the token.
func (s *Session) reset() {
	s.selectFeature("")
}
