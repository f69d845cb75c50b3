package store

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"site-sync/feature/content/models"
)

// Probe looks for a local attachment whose guid ends in the basename of
// remoteURL. When several match, the one stored under the post date's
// /YYYY/MM/ folder wins.
func (s *Store) Probe(ctx context.Context, remoteURL string, postDate time.Time) (int64, bool, error) {
	base := basename(remoteURL)
	if base == "" {
		return 0, false, nil
	}

	var rows []models.Post
	err := s.db.WithContext(ctx).
		Select("id", "guid").
		Where("post_type = ? AND guid LIKE ?", "attachment", "%/"+base).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return 0, false, fmt.Errorf("failed to probe %s: %w", base, err)
	}

	// LIKE wildcards in the basename may over-match.
	matches := rows[:0]
	for _, r := range rows {
		if strings.HasSuffix(r.GUID, "/"+base) {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return 0, false, nil
	}

	if !postDate.IsZero() {
		folder := postDate.UTC().Format("/2006/01/") + base
		for _, r := range matches {
			if strings.HasSuffix(r.GUID, folder) {
				return r.ID, true, nil
			}
		}
	}
	return matches[0].ID, true, nil
}

func basename(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	b := path.Base(p)
	if b == "." || b == "/" {
		return ""
	}
	return b
}
