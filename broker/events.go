package broker

type EventType string

const (
	// Event types use the format <resource>.<action>
	TaskCreated EventType = "task.created"
	TaskUpdated EventType = "task.updated"
	TaskDeleted EventType = "task.deleted"

	TagCreated EventType = "tag.created"
	TagUpdated EventType = "tag.updated"
	TagDeleted EventType = "tag.deleted"

	SeedLoaded EventType = "seed.loaded"
)
