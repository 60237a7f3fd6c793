// Package uriutil converts between file system paths, file:// URIs and the
// remote URLs that own imported stylesheets.
package uriutil

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// IsRemote reports whether s is an absolute http or https URL
func IsRemote(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ToURI returns the document URI for an owning file: remote URLs are
// returned as-is, paths become file:// URIs.
func ToURI(owner string) string {
	if IsRemote(owner) || strings.HasPrefix(owner, "file://") {
		return owner
	}
	return PathToURI(owner)
}

// PathToURI converts a file system path to a file:// URI, percent-encoding
// each segment. Windows drive paths gain a leading slash (file:///C:/proj)
// and UNC paths keep their host (file://server/share).
func PathToURI(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	if runtime.GOOS == "windows" && strings.HasPrefix(absPath, `\\`) {
		return "file://" + escapeSegments(filepath.ToSlash(strings.TrimPrefix(absPath, `\\`)))
	}

	absPath = filepath.ToSlash(absPath)
	if !strings.HasPrefix(absPath, "/") {
		absPath = "/" + absPath
	}
	return "file://" + escapeSegments(absPath)
}

func escapeSegments(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		if seg != "" {
			segments[i] = url.PathEscape(seg)
		}
	}
	return strings.Join(segments, "/")
}

// URIToPath converts a file:// URI to a file system path. Anything that is
// not a parseable file URI is stripped of a file:// prefix and returned.
func URIToPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return fallbackPath(uri)
	}

	if parsed.Host != "" {
		if runtime.GOOS == "windows" {
			host, _ := url.PathUnescape(parsed.Host)
			p, _ := url.PathUnescape(parsed.Path)
			return `\\` + host + strings.ReplaceAll(p, "/", `\`)
		}
		return parsed.Host + parsed.Path
	}

	p, err := url.PathUnescape(parsed.Path)
	if err != nil {
		p = parsed.Path
	}
	return filepath.FromSlash(trimDriveSlash(p))
}

func fallbackPath(uri string) string {
	return filepath.FromSlash(trimDriveSlash(strings.TrimPrefix(uri, "file://")))
}

// trimDriveSlash turns /C:/proj into C:/proj
func trimDriveSlash(p string) string {
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		return p[1:]
	}
	return p
}
