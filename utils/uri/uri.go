/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package uri provides helpers for the "#!" hash addressing scheme and the
// view id marker carried in hash urls.
//
// Hash urls look like http://host/app/#!/users/1?tab=2&__vid=12 where the part after
// "#!" is the router url and __vid is the id of the view that created the entry.
package uri

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	// HashPrefix marks a router url inside the fragment
	HashPrefix = "#!"
	// VidKey query key of the view id
	VidKey = "__vid"
)

var (
	vidRegexp        = regexp.MustCompile(`[?&]` + VidKey + `=(\d+)`)
	leadingVidRegexp = regexp.MustCompile(`\?` + VidKey + `=\d+&`)
	anyVidRegexp     = regexp.MustCompile(`[?&]` + VidKey + `=\d+`)
	hashRouterRegexp = regexp.MustCompile(`#!(.*)$`)
	validHashRegexp  = regexp.MustCompile(`^#!.+`)
)

// GetHash returns the router url stored after "#!" in rawURL without the view id marker.
// It returns "" if rawURL has no "#!" fragment.
func GetHash(rawURL string) string {
	m := hashRouterRegexp.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return RemoveVid(m[1])
}

// Fragment returns the fragment of rawURL including the leading "#", or "".
func Fragment(rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		return rawURL[i:]
	}
	return ""
}

// IsValidHash reports whether fragment carries a non-empty router url.
func IsValidHash(fragment string) bool {
	return validHashRegexp.MatchString(fragment)
}

// AddVid appends the view id marker to s.
func AddVid(s string, vid int64) string {
	sep := "?"
	if strings.Contains(s, "?") {
		sep = "&"
	}
	return s + sep + VidKey + "=" + strconv.FormatInt(vid, 10)
}

// GetVid returns the view id carried by the fragment of rawURL, or 0 if there is none.
func GetVid(rawURL string) int64 {
	m := vidRegexp.FindStringSubmatch(Fragment(rawURL))
	if m == nil {
		return 0
	}
	vid, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return vid
}

// HasVid reports whether the fragment of rawURL carries a view id.
func HasVid(rawURL string) bool {
	return GetVid(rawURL) != 0
}

// RemoveVid removes the view id marker from s.
func RemoveVid(s string) string {
	s = leadingVidRegexp.ReplaceAllString(s, "?")
	return anyVidRegexp.ReplaceAllString(s, "")
}

// EqualsIgnoreSlash compares two paths ignoring one trailing slash.
func EqualsIgnoreSlash(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}

// AddEndSlash appends "/" to s unless it already ends with one.
func AddEndSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

// Origin returns scheme://host of rawURL, or "" if rawURL is not absolute.
func Origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// GetFullPath returns the absolute url of the router url path under urlRoot on the
// origin of href.
func GetFullPath(href, path, urlRoot string) string {
	return Origin(href) + urlRoot + path
}

// StripFragment returns rawURL without its fragment.
func StripFragment(rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// PathOf returns the path of rawURL, or "" if it cannot be parsed.
func PathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.EscapedPath()
}

// SearchOf returns the query of rawURL including the leading "?", or "".
func SearchOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return ""
	}
	return "?" + u.RawQuery
}

// Resolve resolves ref against base the way a browser resolves a location.
// Fragment-only references keep the document of base untouched.
func Resolve(base, ref string) string {
	if strings.HasPrefix(ref, "#") {
		return StripFragment(base) + ref
	}
	if ref == "" {
		return StripFragment(base)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if r.IsAbs() {
		return ref
	}
	if strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") {
		return Origin(base) + ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
