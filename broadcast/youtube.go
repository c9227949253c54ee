package broadcast

import (
	"net/url"
	"regexp"
	"strings"
)

// Video ids are always 11 characters.
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// VideoID extracts the video id from a YouTube link. It understands
// youtu.be/ID, youtube.com/watch?v=ID, youtube.com/embed/ID and
// youtube.com/live/ID. Anything else reports false.
func VideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		id = segments[0]
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case u.Query().Get("v") != "":
			id = u.Query().Get("v")
		case len(segments) == 2 && (segments[0] == "embed" || segments[0] == "live" || segments[0] == "shorts"):
			id = segments[1]
		}
	}

	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

// EmbedURL derives a muted embeddable player URL from a YouTube link.
func EmbedURL(raw string, autoplay bool) (string, bool) {
	id, ok := VideoID(raw)
	if !ok {
		return "", false
	}

	ap := "0"
	if autoplay {
		ap = "1"
	}
	return "https://www.youtube.com/embed/" + id + "?autoplay=" + ap + "&mute=1&rel=0&modestbranding=1", true
}
