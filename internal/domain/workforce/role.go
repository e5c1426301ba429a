package workforce

import (
	"strings"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
)

// Specialists whose titles match these keywords are pinned to their home room
// except for breaks and meetings. Single words match whole title tokens,
// phrases match as substrings.
var restrictedRoleKeywords = []struct {
	kind     facility.RoomKind
	keywords []string
}{
	{facility.KindITRoom, []string{"it", "sysadmin", "system administrator", "network engineer", "devops", "helpdesk", "help desk", "tech support"}},
	{facility.KindReception, []string{"receptionist", "reception", "front desk", "concierge"}},
	{facility.KindStorage, []string{"storage", "warehouse", "inventory", "stock clerk"}},
}

// RestrictedRoleKind returns the department room kind a restricted specialist is pinned to
func RestrictedRoleKind(role string) (facility.RoomKind, bool) {
	title := strings.ToLower(strings.TrimSpace(role))
	if title == "" {
		return "", false
	}
	tokens := make(map[string]bool)
	for _, t := range strings.FieldsFunc(title, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '/' || r == ','
	}) {
		tokens[t] = true
	}

	for _, set := range restrictedRoleKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(kw, " ") {
				if strings.Contains(title, kw) {
					return set.kind, true
				}
				continue
			}
			if tokens[kw] {
				return set.kind, true
			}
		}
	}
	return "", false
}

// IsRoleRestricted reports whether the role is a pinned specialist
func IsRoleRestricted(role string) bool {
	_, ok := RestrictedRoleKind(role)
	return ok
}
