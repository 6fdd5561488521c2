// Package models defines the domain entities exchanged with the feature-rating server.
//
//   - [Feature] : a named track-rating game exposed by the server
//   - [Track] : a random untrained track with its ordered [Artist] list
//   - [Rating] : a binary vote ([Downvote] or [Upvote]) for a track within a feature
//
// [Track.DisplayText] is the single place where a track is formatted for the page,
// and [Track.URI] builds the provider URI used to start playback.
package models
