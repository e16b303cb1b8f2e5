package snowboard

import "strings"

// URL is a request target split into path segments and query pairs.
type URL struct {
	// Path holds the non-empty segments; "/" yields an empty slice.
	Path []string
	// Query maps keys to values, the last occurrence of a key wins.
	Query map[string]string
	// Fragment is the text after '#', empty when there is none.
	Fragment string
}

// ParseURL never fails. Malformed input degrades to whatever segments
// and pairs can be recovered.
func ParseURL(raw string) *URL {
	u := &URL{
		Path:  make([]string, 0, 4),
		Query: make(map[string]string),
	}

	raw, u.Fragment, _ = strings.Cut(raw, "#")
	path, query, hasQuery := strings.Cut(raw, "?")

	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			u.Path = append(u.Path, seg)
		}
	}

	if !hasQuery {
		return u
	}
	for _, pair := range strings.Split(query, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if key == "" {
			continue
		}
		u.Query[key] = value
	}
	return u
}

// At returns the i-th path segment or "" when there is none.
func (u *URL) At(i int) string {
	s, _ := u.Segment(i)
	return s
}

func (u *URL) Segment(i int) (string, bool) {
	if i < 0 || i >= len(u.Path) {
		return "", false
	}
	return u.Path[i], true
}

func (u *URL) Param(key string) (string, bool) {
	v, ok := u.Query[key]
	return v, ok
}
