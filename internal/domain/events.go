package domain

// NodeEventKind discriminates curriculum change notifications.
type NodeEventKind string

const (
	NodeCreated NodeEventKind = "created"
	NodeUpdated NodeEventKind = "updated"
	NodeDeleted NodeEventKind = "deleted"
)

// NodeEvent carries before/after snapshots of a curriculum node change.
// Before is nil on create, After is nil on delete.
type NodeEvent struct {
	Kind   NodeEventKind
	Before *CurriculumNode
	After  *CurriculumNode
}

// Node returns the most relevant snapshot: After when present, else Before.
func (e NodeEvent) Node() *CurriculumNode {
	if e.After != nil {
		return e.After
	}
	return e.Before
}
