package models

// DefaultLanguageTag is used when a playback request does not name a language.
const DefaultLanguageTag = "en-US"

// PlaybackRequest asks the shared speech capability to narrate a text.
// SourceID identifies which story record (or transient narrative) is
// being read; at most one playback request is active system-wide.
type PlaybackRequest struct {
	Text        string
	LanguageTag string
	SourceID    string
}

// Language returns the request's language tag, falling back to
// DefaultLanguageTag when unset.
func (r PlaybackRequest) Language() string {
	if r.LanguageTag == "" {
		return DefaultLanguageTag
	}
	return r.LanguageTag
}
