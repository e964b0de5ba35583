package adapters

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"alertcast/internal/features/overlay/domain"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".m4v":  true,
}

// EmbedResolver classifies media URLs by host/path pattern and extracts the
// platform identifier needed to build an embeddable player reference.
type EmbedResolver struct{}

// NewEmbedResolver creates a new EmbedResolver.
func NewEmbedResolver() *EmbedResolver {
	return &EmbedResolver{}
}

// Resolve classifies rawURL into a MediaBinding. An explicit type hint from
// the wire wins over pattern matching for the image/video split; platform
// URLs are always detected from the host.
func (r *EmbedResolver) Resolve(rawURL, explicitType string, startSeconds float64) domain.MediaBinding {
	binding := domain.MediaBinding{
		URL:          rawURL,
		Kind:         domain.MediaKindUnknown,
		StartSeconds: startSeconds,
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return binding
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")

	switch {
	case host == "youtu.be" || host == "youtube.com" || host == "m.youtube.com":
		if id := youtubeID(u, host); id != "" {
			binding.Kind = domain.MediaKindYouTube
			binding.EmbedID = id
			binding.EmbedURL = fmt.Sprintf("https://www.youtube.com/embed/%s?autoplay=1&start=%d", id, int(startSeconds))
			return binding
		}
	case host == "tiktok.com":
		if id := tiktokID(u); id != "" {
			binding.Kind = domain.MediaKindTikTok
			binding.EmbedID = id
			binding.EmbedURL = "https://www.tiktok.com/embed/v2/" + id
			return binding
		}
	case host == "instagram.com":
		if id := instagramID(u); id != "" {
			binding.Kind = domain.MediaKindInstagram
			binding.EmbedID = id
			binding.EmbedURL = fmt.Sprintf("https://www.instagram.com/reel/%s/embed", id)
			return binding
		}
	}

	switch strings.ToLower(explicitType) {
	case "image":
		binding.Kind = domain.MediaKindImage
		return binding
	case "video":
		binding.Kind = domain.MediaKindVideo
		return binding
	}

	ext := strings.ToLower(path.Ext(u.Path))
	switch {
	case imageExtensions[ext]:
		binding.Kind = domain.MediaKindImage
	case videoExtensions[ext]:
		binding.Kind = domain.MediaKindVideo
	}

	return binding
}

// youtubeID extracts the video id from watch, shorts, embed and short-link URLs.
func youtubeID(u *url.URL, host string) string {
	if host == "youtu.be" {
		return strings.Trim(u.Path, "/")
	}

	if v := u.Query().Get("v"); v != "" {
		return v
	}

	for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
		if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
			if i := strings.Index(rest, "/"); i >= 0 {
				rest = rest[:i]
			}
			return rest
		}
	}

	return ""
}

// tiktokID extracts the numeric video id from /@user/video/{id} URLs.
func tiktokID(u *url.URL) string {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part == "video" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

// instagramID extracts the shortcode from /reel/{code} and /p/{code} URLs.
func instagramID(u *url.URL) string {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if (part == "reel" || part == "p") && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
