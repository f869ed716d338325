package broker

const (
	TaskEventsTopic = "task_events"
	TagEventsTopic  = "tag_events"
	SyncEventsTopic = "sync_events"
)

// AllTopics lists every subject the change feed listens on.
var AllTopics = []string{TaskEventsTopic, TagEventsTopic, SyncEventsTopic}

// TopicForEntity maps an outbox entity name to its subject.
func TopicForEntity(entity string) string {
	switch entity {
	case "task":
		return TaskEventsTopic
	case "tag":
		return TagEventsTopic
	default:
		return SyncEventsTopic
	}
}
