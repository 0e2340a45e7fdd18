// Package treeitem defines the presentation descriptor shared by every
// published version of the cluster explorer contract.
package treeitem

// CollapsibleState describes whether a tree entry can be expanded.
type CollapsibleState int

const (
	// None marks a leaf.
	None CollapsibleState = iota
	// Collapsed marks an entry with children that starts closed.
	Collapsed
	// Expanded marks an entry with children that starts open.
	Expanded
)

func (s CollapsibleState) String() string {
	switch s {
	case None:
		return "none"
	case Collapsed:
		return "collapsed"
	case Expanded:
		return "expanded"
	}
	return "unknown"
}

// Command binds a tree entry to a command invoked on selection.
type Command struct {
	Command   string
	Title     string
	Arguments []any
}

// TreeItem is the display-facing representation of a node. The explorer core
// only reads and writes CollapsibleState; every other field is passed through.
type TreeItem struct {
	Label            string
	ID               string
	Description      string
	Tooltip          string
	CollapsibleState CollapsibleState
	ContextValue     string
	IconPath         string
	Command          *Command
}

// New returns a tree item with the given label and state.
func New(label string, state CollapsibleState) TreeItem {
	return TreeItem{Label: label, CollapsibleState: state}
}

// Clone returns a deep copy so customizers cannot alias command arguments.
func (t TreeItem) Clone() TreeItem {
	out := t
	if t.Command != nil {
		cmd := *t.Command
		cmd.Arguments = append([]any(nil), t.Command.Arguments...)
		out.Command = &cmd
	}
	return out
}
