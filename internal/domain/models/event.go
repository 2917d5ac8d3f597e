package models

import (
	"slices"
	"time"

	"github.com/Temutjin2k/safebike-web/internal/domain/types"
)

// TabMessage is pushed to open browser tabs. It reaches the tabs of
// SessionKey and the signed-in tabs of every role in Audience; with neither
// set it reaches every tab.
type TabMessage struct {
	Type       types.TabEvent `json:"type"`
	SessionKey string         `json:"session,omitempty"`
	Audience   []types.Role   `json:"audience,omitempty"`
	PackageID  string         `json:"packageId,omitempty"`
	At         time.Time      `json:"at"`
}

// Reaches reports whether a tab of the given session and role gets msg.
func (m TabMessage) Reaches(sessionKey string, role types.Role) bool {
	if m.SessionKey == "" && len(m.Audience) == 0 {
		return true
	}
	if m.SessionKey != "" && sessionKey == m.SessionKey {
		return true
	}
	return role != types.RoleAnonymous && slices.Contains(m.Audience, role)
}

// TabSignal is what a browser tab receives: only enough to know it is stale.
type TabSignal struct {
	Type types.TabEvent `json:"type"`
	At   time.Time      `json:"at"`
}
