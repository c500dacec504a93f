// Package notify is the notification gateway: permission handling, best-effort
// local notification delivery, and outbound WhatsApp contact links.
package notify

import "time"

// Permission is the three-state platform notification permission.
type Permission int

const (
	// PermissionDefault means the user has not been asked yet.
	PermissionDefault Permission = iota
	// PermissionGranted allows notifications to be shown.
	PermissionGranted
	// PermissionDenied suppresses all notifications.
	PermissionDenied
)

// String implements fmt.Stringer.
func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

// Notification is a delivered notification record.
type Notification struct {
	Title string    `json:"title"`
	Body  string    `json:"body,omitempty"`
	Tag   string    `json:"tag,omitempty"`
	At    time.Time `json:"at"`
}

// Gateway delivers notifications on a best-effort basis. Notify silently does
// nothing unless permission was granted; RequestPermission asks at most once
// while the state is undecided and never prompts again after an explicit
// grant or denial.
type Gateway interface {
	RequestPermission()
	Notify(title, body, tag string)
}
