package subscription

import "time"

// Subscription is a user's saved subject: a (UserID, SubjectID) pair plus a
// snapshot of the subject's display fields taken at subscribe time. The pair
// is unique per user; the snapshot is never refreshed.
type Subscription struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	SubjectID    string    `json:"subject_id"`
	SubjectTitle string    `json:"subject_title"`
	SubjectDesc  string    `json:"subject_desc,omitempty"`
	SubjectIcon  string    `json:"subject_icon,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
