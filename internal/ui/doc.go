// Package ui implements the interactive rating page using bubbletea's Elm architecture.
//
// The page is an ordered list of [Element] values (buttons, a header, a line break and a
// track label) that is cleared and rebuilt as the user moves through two screens:
//  1. Feature list : one button per feature, in server order
//  2. Rating view : header, "0" and "1" buttons, line break, track label
//
// [Session] holds the mutable state shared between those screens: the playback token, the
// selected feature and the current-track reference a rating applies to.
//
// Every network call runs inside a [tea.Cmd] and reports back through the Msg union type.
// Track loads carry a sequence number; starting a load cancels the previous one, and results
// from anything but the latest load are dropped.
//
// Keyboard: ←/→ (h/l, tab) move focus, enter presses the focused button, 0/1 rate directly,
// esc returns to the feature list, q quits.
package ui
