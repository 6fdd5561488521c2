// Package services implements the HTTP clients behind the [FeatureAPI] and [Player] interfaces.
//
// # Rating Server
//
// [APIService] performs raw requests against the feature-rating server and detects JSON bodies.
// Every request carries an X-Request-ID header and, when configured, waits on a token-bucket
// limiter before it is sent.
//
// [FeatureService] builds the typed endpoints on top of it:
//
//	GET  /api/features
//	GET  /api/spotify_token
//	GET  /api/features/{feature}/tracks/random_untrained
//	POST /api/features/{feature}/tracks/{id}/rate/{rating}
//	POST /api/features/{feature}/
//	POST /api/shutdown
//
// # Spotify Playback
//
// [PlayerService] issues PUT /v1/me/player/play through the zmb3/spotify client. The bearer
// token handed out by the rating server is wrapped in a static [oauth2.TokenSource]; there is no
// refresh.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrMalformedResponse] : body could not be decoded
//   - [shared.ErrNoUntrainedTracks] : every track of the feature is rated
//   - [shared.ErrInvalidRating] : rating outside {0, 1}
//   - [shared.ErrNotAuthenticated] : empty playback token
//   - [shared.ErrPlaybackFailed] : Spotify rejected the play command
package services
