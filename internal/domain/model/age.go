package model

import (
	"fmt"
	"time"
)

// FormatAge renders the delta between createdAt and now as a short
// human-readable age: "15m ago", "5h ago", "3d ago", "2w ago". The caller
// guarantees now is not before createdAt.
func FormatAge(createdAt, now time.Time) string {
	minutes := int(now.Sub(createdAt).Minutes())

	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%dh ago", minutes/60)
	case minutes < 7*24*60:
		return fmt.Sprintf("%dd ago", minutes/(24*60))
	default:
		return fmt.Sprintf("%dw ago", minutes/(7*24*60))
	}
}

// FormatActivityAge renders a repo activity timestamp for the empty-state
// menu: "today" for same-day activity, otherwise whole days.
func FormatActivityAge(lastSeen, now time.Time) string {
	days := int(now.Sub(lastSeen).Hours() / 24)
	switch days {
	case 0:
		return "today"
	case 1:
		return "1d ago"
	default:
		return fmt.Sprintf("%dd ago", days)
	}
}
