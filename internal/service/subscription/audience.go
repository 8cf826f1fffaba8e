package subscription

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// DecodeAudienceID picks the audience id for a call. The requested id wins
// over fallback. Older forms sent several ids joined with "|"; only the first
// is honored and legacyMulti reports that the old shape was seen.
func DecodeAudienceID(requested, fallback string) (id string, legacyMulti bool) {
	id = strings.TrimSpace(requested)
	if id == "" {
		id = strings.TrimSpace(fallback)
	}
	if i := strings.IndexByte(id, '|'); i >= 0 {
		return strings.TrimSpace(id[:i]), true
	}
	return id, false
}

// resolveAudience applies the configured defaults to a requested id.
func (s *Service) resolveAudience(requested string) string {
	fallback := s.settings.AudienceID
	if fallback == "" && s.settings.LegacyListID != "" {
		fallback = s.settings.LegacyListID
		if strings.TrimSpace(requested) == "" {
			s.log.WithField("deprecated", "list_id setting").
				Warn("subscription: the list_id setting is deprecated, use audience_id")
		}
	}

	id, legacy := DecodeAudienceID(requested, fallback)
	if legacy {
		s.log.WithFields(logrus.Fields{
			"deprecated":  "multiple audience ids",
			"audience_id": id,
		}).Warn("subscription: pipe-separated audience ids are deprecated, only the first is used")
	}
	return id
}
