package domain

type Level string

const (
	LevelChapter  Level = "chapter"
	LevelTopic    Level = "topic"
	LevelSubtopic Level = "subtopic"
)

// ValidLevels is the canonical set of accepted curriculum level strings.
var ValidLevels = map[string]bool{
	"chapter": true, "topic": true, "subtopic": true,
}

type Category string

const (
	CategoryMust Category = "must"
	CategoryGood Category = "good"
	CategoryNice Category = "nice"
)

// CategoryRank orders categories by priority, lowest rank first.
func CategoryRank(c Category) int {
	switch c {
	case CategoryMust:
		return 0
	case CategoryGood:
		return 1
	case CategoryNice:
		return 2
	default:
		return 3
	}
}

// NormalizeCategory maps free-form category strings onto the canonical set.
// Unknown values fall back to "good".
func NormalizeCategory(raw string) Category {
	switch raw {
	case "must", "must_know", "high":
		return CategoryMust
	case "nice", "nice_to_know", "low":
		return CategoryNice
	case "good", "good_to_know", "medium", "":
		return CategoryGood
	default:
		return CategoryGood
	}
}

type QueueState string

const (
	QueueQueued     QueueState = "queued"
	QueueInProgress QueueState = "in_progress"
	QueueDone       QueueState = "done"
	QueueRemoved    QueueState = "removed"
)

type SliceStatus string

const (
	SliceScheduled SliceStatus = "scheduled"
	SliceCompleted SliceStatus = "completed"
)

// Duration constants for the rollup tree. Subtopics are atomic units;
// a topic's estimate never drops below the floor even when it has few
// subtopics.
const (
	SubtopicAtomicMin = 10
	TopicFloorMin     = 10
)
