package nodes

import (
	"context"
	"fmt"

	"github.com/sttts/kexplorer/pkg/api/treeitem"
)

// ConfigItemNode is one data key of a ConfigMap or Secret.
type ConfigItemNode struct {
	Name            string
	ParentKind      ResourceKind
	ParentNamespace string
	ParentName      string
}

func (n *ConfigItemNode) node()                              {}
func (n *ConfigItemNode) NodeType() NodeType                 { return NodeTypeConfigItem }
func (n *ConfigItemNode) GetChildren(context.Context) []Node { return nil }

func (n *ConfigItemNode) GetTreeItem() treeitem.TreeItem {
	item := treeitem.New(n.Name, treeitem.None)
	item.ID = fmt.Sprintf("configitem:%s/%s/%s", n.ParentKind.Command(), n.ParentName, n.Name)
	item.ContextValue = ContextValueConfigItem
	item.IconPath = "images/file.svg"
	item.Command = &treeitem.Command{
		Command:   CommandLoadConfigData,
		Title:     "Load",
		Arguments: []any{n.ParentKind.ManifestKind, n.ParentNamespace, n.ParentName, n.Name},
	}
	return item
}

// ErrorNode stands in for children that could not be fetched.
type ErrorNode struct {
	Label   string
	Message string
}

// NewErrorNode creates an error node.
func NewErrorNode(label, message string) *ErrorNode {
	return &ErrorNode{Label: label, Message: message}
}

func (n *ErrorNode) node()                              {}
func (n *ErrorNode) NodeType() NodeType                 { return NodeTypeError }
func (n *ErrorNode) GetChildren(context.Context) []Node { return nil }

func (n *ErrorNode) GetTreeItem() treeitem.TreeItem {
	item := treeitem.New(n.Label, treeitem.None)
	item.Tooltip = n.Message
	item.Description = n.Message
	item.ContextValue = ContextValueError
	item.IconPath = "images/error.svg"
	return item
}

// Foreign is a node owned by an extension.
type Foreign interface {
	Children(ctx context.Context) ([]Node, error)
	TreeItem() treeitem.TreeItem
	// Payload is the extension's own value, handed back to it unchanged.
	Payload() any
}

// ExtensionNode wraps a node contributed by an extension.
type ExtensionNode struct {
	foreign Foreign
}

// NewExtensionNode wraps f.
func NewExtensionNode(f Foreign) *ExtensionNode {
	return &ExtensionNode{foreign: f}
}

func (n *ExtensionNode) node()              {}
func (n *ExtensionNode) NodeType() NodeType { return NodeTypeExtension }

// Payload returns the extension-owned value.
func (n *ExtensionNode) Payload() any { return n.foreign.Payload() }

func (n *ExtensionNode) GetChildren(ctx context.Context) []Node {
	var children []Node
	err := recovered(func() error {
		var err error
		children, err = n.foreign.Children(ctx)
		return err
	})
	if err != nil {
		return []Node{NewErrorNode("Error", err.Error())}
	}
	return children
}

func (n *ExtensionNode) GetTreeItem() (item treeitem.TreeItem) {
	if err := recovered(func() error { item = n.foreign.TreeItem(); return nil }); err != nil {
		return NewErrorNode("Error", err.Error()).GetTreeItem()
	}
	return item
}
