package domain

// MediaKind classifies what kind of player a media URL needs.
type MediaKind string

const (
	// MediaKindImage is a static image shown for the alert's duration.
	MediaKindImage MediaKind = "image"
	// MediaKindVideo is a natively playable video file.
	MediaKindVideo MediaKind = "video"
	// MediaKindYouTube is an embedded YouTube player.
	MediaKindYouTube MediaKind = "youtube"
	// MediaKindTikTok is an embedded TikTok player.
	MediaKindTikTok MediaKind = "tiktok"
	// MediaKindInstagram is an embedded Instagram reel/post player.
	MediaKindInstagram MediaKind = "instagram"
	// MediaKindUnknown is anything the resolver could not classify.
	MediaKindUnknown MediaKind = "unknown"
)

// MediaBinding is resolved media attached to an alert.
type MediaBinding struct {
	// URL is the raw media URL as received on the wire.
	URL string
	// Kind selects the player implementation.
	Kind MediaKind
	// EmbedID is the platform-specific video/reel identifier, empty for
	// images and native video.
	EmbedID string
	// EmbedURL is the embeddable player reference built from EmbedID.
	EmbedURL string
	// StartSeconds is the playback seek offset, also used when looping.
	StartSeconds float64
}

// Loopable reports whether this media can signal end-of-playback and so
// participates in the loop-until-alert-expires policy. Images and embedded
// platform players expose no end callback and never loop.
func (m MediaBinding) Loopable() bool {
	return m.Kind == MediaKindVideo
}
