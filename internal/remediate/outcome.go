package remediate

import "fmt"

// Action strings recorded on an Outcome.
const (
	ActionUnlinked = "unlinked from post"
	ActionTrashed  = "moved to trash"
)

// ActionCleaned is recorded when the parent document body was rewritten.
func ActionCleaned(parentID int64) string {
	return fmt.Sprintf("cleaned post %d", parentID)
}

// Outcome describes what was done to one broken record.
type Outcome struct {
	AttachmentID int64    `json:"id"`
	URL          string   `json:"url"`
	ParentID     *int64   `json:"parent_id"`
	Actions      []string `json:"actions"`
}
