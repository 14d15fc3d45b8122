package domain

import "time"

// Session records the workspace and sprint a chat user is currently working in.
type Session struct {
	UserID    string
	SpaceID   *string
	SprintID  *string
	UpdatedAt time.Time
}
