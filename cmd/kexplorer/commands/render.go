package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/sttts/kexplorer/internal/explorer"
	"github.com/sttts/kexplorer/internal/explorer/nodes"
	"github.com/sttts/kexplorer/pkg/api/treeitem"
)

const (
	colorRed   = "1"
	colorBlue  = "4"
	colorCyan  = "6"
	colorGrey  = "8"
	colorWhite = "15"
)

var (
	branchStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGrey))
	contextStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorCyan)).Bold(true)
	inactiveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGrey))
	folderStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue)).Bold(true)
	resourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	descriptionStyle = lipgloss.NewStyle().Faint(true)
)

// treePrinter writes the explorer tree as indented text.
type treePrinter struct {
	explorer *explorer.Explorer
	out      io.Writer
	// depth limits how many levels are expanded; <= 0 expands everything.
	depth int
	// width truncates lines; <= 0 disables truncation.
	width   int
	noColor bool
}

func (p *treePrinter) Print(ctx context.Context) error {
	return p.print(ctx, nil, "", 1)
}

func (p *treePrinter) print(ctx context.Context, parent nodes.Node, prefix string, level int) error {
	children := p.explorer.GetChildren(ctx, parent)
	for i, n := range children {
		branch, indent := "├── ", "│   "
		if i == len(children)-1 {
			branch, indent = "└── ", "    "
		}

		item := p.explorer.GetTreeItem(ctx, n)
		line := branchStyle.Render(prefix+branch) + p.label(n, item)
		if p.width > 0 {
			line = ansi.Truncate(line, p.width, "…")
		}
		if p.noColor {
			line = ansi.Strip(line)
		}
		if _, err := fmt.Fprintln(p.out, line); err != nil {
			return err
		}

		if item.CollapsibleState == treeitem.None || (p.depth > 0 && level >= p.depth) {
			continue
		}
		if err := p.print(ctx, n, prefix+indent, level+1); err != nil {
			return err
		}
	}
	return nil
}

func (p *treePrinter) label(n nodes.Node, item treeitem.TreeItem) string {
	var style lipgloss.Style
	switch n.NodeType() {
	case nodes.NodeTypeContext:
		style = contextStyle
	case nodes.NodeTypeInactiveContext:
		style = inactiveStyle
	case nodes.NodeTypeGroupingFolder, nodes.NodeTypeResourceFolder:
		style = folderStyle
	case nodes.NodeTypeError:
		style = errorStyle
	default:
		style = resourceStyle
	}
	out := style.Render(item.Label)
	if item.Description != "" {
		out += " " + descriptionStyle.Render(item.Description)
	}
	return out
}

// highlight writes YAML with syntax highlighting in the given chroma style.
func highlight(w io.Writer, yamlText, theme string, noColor bool) error {
	if noColor {
		_, err := io.WriteString(w, yamlText)
		return err
	}

	lexer := chroma.Coalesce(lexers.Get("yaml"))
	style := styles.Get(theme)
	formatter := formatters.Get("terminal256")

	iterator, err := lexer.Tokenise(nil, yamlText)
	if err != nil {
		return fmt.Errorf("lexer tokenize: %w", err)
	}
	if err := formatter.Format(w, style, iterator); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	return nil
}
