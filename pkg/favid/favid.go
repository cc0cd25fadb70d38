// Package favid extracts a favorites collection identifier from user input.
package favid

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNoCollectionID is returned when no identifier can be found in the input.
var ErrNoCollectionID = errors.New("无法提取收藏夹ID")

var (
	digitsPattern    = regexp.MustCompile(`^\d+$`)
	medialistPattern = regexp.MustCompile(`^/medialist/detail/ml(\d+)`)
)

// Extract returns the collection id found in raw, which may be a bare numeric
// id, a medialist detail URL (/medialist/detail/ml{id}) or a space favlist URL
// carrying a fid query parameter.
func Extract(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNoCollectionID
	}

	if digitsPattern.MatchString(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "parse %q", raw), ErrNoCollectionID)
	}

	if m := medialistPattern.FindStringSubmatch(u.Path); m != nil {
		return m[1], nil
	}

	if strings.Contains(u.Path, "/favlist") {
		if fid := u.Query().Get("fid"); digitsPattern.MatchString(fid) {
			return fid, nil
		}
	}

	return "", ErrNoCollectionID
}
