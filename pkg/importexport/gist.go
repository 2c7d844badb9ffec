package importexport

import (
	"net/url"
	"strings"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

// GistLocation is a resolved (id, sha?, file?) triple.
type GistLocation struct {
	ID   string
	SHA  string // empty if unspecified
	File string // empty if unspecified
}

// ParseGistLocation interprets a gist location string in any of the shapes
// GitHub supports: full gist.github.com/gist.githubusercontent.com/
// api.github.com URLs, or shorthand `{id}`, `{id}/{file}`, `{id}/{sha}`,
// `{id}/{sha}/{file}`. An empty or "gist" location falls back to
// configuredID.
func ParseGistLocation(location, configuredID string) (GistLocation, error) {
	location = strings.TrimSpace(location)
	if location == "" || location == "gist" {
		if configuredID == "" {
			return GistLocation{}, ierrors.GistMissingId
		}
		return GistLocation{ID: configuredID}, nil
	}

	if u, err := url.Parse(location); err == nil && u.Scheme != "" && u.Host != "" {
		return parseGistURL(u)
	}

	parts := strings.Split(location, "/")
	switch len(parts) {
	case 1:
		if isGistID(parts[0]) {
			return GistLocation{ID: parts[0]}, nil
		}
		if configuredID != "" {
			return GistLocation{ID: configuredID, File: parts[0]}, nil
		}
		return GistLocation{}, ierrors.GistMissingId
	case 2:
		if !isGistID(parts[0]) {
			return GistLocation{}, ierrors.GistInvalidLocation
		}
		loc := GistLocation{ID: parts[0]}
		if isGistSHA(parts[1]) {
			loc.SHA = parts[1]
		} else {
			loc.File = parts[1]
		}
		return loc, nil
	case 3:
		if !isGistID(parts[0]) || !isGistSHA(parts[1]) {
			return GistLocation{}, ierrors.GistInvalidLocation
		}
		return GistLocation{ID: parts[0], SHA: parts[1], File: parts[2]}, nil
	default:
		return GistLocation{}, ierrors.GistInvalidLocation
	}
}

func parseGistURL(u *url.URL) (GistLocation, error) {
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })

	switch u.Host {
	case "gist.github.com":
		if len(segments) < 2 {
			return GistLocation{}, ierrors.GistInvalidLocation
		}
		loc := GistLocation{ID: segments[1]}
		if len(segments) > 2 {
			if !isGistSHA(segments[2]) {
				return GistLocation{}, ierrors.GistInvalidLocation
			}
			loc.SHA = segments[2]
		}
		return loc, nil

	case "gist.githubusercontent.com":
		if len(segments) < 3 || segments[2] != "raw" {
			return GistLocation{}, ierrors.GistInvalidLocation
		}
		loc := GistLocation{ID: segments[1]}
		if len(segments) > 3 {
			if isGistSHA(segments[3]) {
				loc.SHA = segments[3]
				if len(segments) > 4 {
					loc.File = segments[4]
				}
			} else {
				loc.File = segments[3]
			}
		}
		return loc, nil

	case "api.github.com":
		if len(segments) < 2 || segments[0] != "gists" {
			return GistLocation{}, ierrors.GistInvalidLocation
		}
		loc := GistLocation{ID: segments[1]}
		if len(segments) > 2 {
			if !isGistSHA(segments[2]) {
				return GistLocation{}, ierrors.GistInvalidLocation
			}
			loc.SHA = segments[2]
		}
		return loc, nil

	default:
		return GistLocation{}, ierrors.GistInvalidLocation
	}
}

func isGistSHA(s string) bool {
	if len(s) != 40 {
		return false
	}
	return isHex(s)
}

func isGistID(s string) bool {
	return s != "" && isHex(s)
}

// IsRawGistURL reports whether location is a gist.githubusercontent.com raw
// content URL, which import treats as a plain HTTP fetch rather than an API
// call.
func IsRawGistURL(location string) bool {
	return strings.HasPrefix(location, "https://gist.githubusercontent.com")
}

// LooksLikeGistLocation reports whether location should be routed to the
// gist adapter: the "gist" placeholder, a gist.github.com /
// api.github.com/gists URL, or a raw gist URL (see IsRawGistURL).
func LooksLikeGistLocation(location string) bool {
	return location == "gist" ||
		strings.HasPrefix(location, "https://gist.github.com") ||
		strings.HasPrefix(location, "https://api.github.com/gists") ||
		IsRawGistURL(location)
}

// LooksLikeHTTPLocation reports whether location is a plain http(s) URL.
func LooksLikeHTTPLocation(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
