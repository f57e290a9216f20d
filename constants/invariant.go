package constants

const (
	APP_NAME          = "Quill"
	MAX_POSTS_TO_SHOW = 2000
	MAX_POST_LENGTH   = 20000

	// layout of the date string shown on every post, e.g. "August 31, 2026"
	POST_DATE_LAYOUT = "January 2, 2006"
)

// gravatar default-image styles; every account gets one at registration
var GRAVATAR_STYLES = []string{"mg", "identicon", "monsterid", "wavatar", "retro", "robohash"}
