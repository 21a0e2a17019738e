package types

// Status is the soft-delete lifecycle of a record, independent of any business state
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)
