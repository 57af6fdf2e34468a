package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/svgbundle/pkg/errors"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// anchor is one addressable image in a sprite.
type anchor struct {
	ID      string
	ViewBox string
}

// readAnchors lists the <view> anchors of a sprite in document order.
func readAnchors(data []byte) ([]anchor, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSVG, err, "parse sprite")
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return nil, errors.New(errors.ErrCodeInvalidSVG, "not an svg document")
	}
	var out []anchor
	for _, v := range root.SelectElements("view") {
		id := v.SelectAttrValue("id", "")
		if id == "" {
			continue
		}
		out = append(out, anchor{ID: id, ViewBox: v.SelectAttrValue("viewBox", "")})
	}
	return out, nil
}

func (c *CLI) browseCommand() *cobra.Command {
	var (
		url  string
		list bool
	)

	cmd := &cobra.Command{
		Use:   "browse <sprite.svg>",
		Short: "List the images in a sprite and pick a reference",
		Long: `List the anchors of a sprite. Selecting one prints the url() reference
that addresses it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", args[0])
			}
			anchors, err := readAnchors(data)
			if err != nil {
				return err
			}
			if url == "" {
				if opts, err := c.loadConfig(cmd); err == nil && opts.BundleURL != "" {
					url = opts.BundleURL
				} else {
					url = args[0]
				}
			}

			out := cmd.OutOrStdout()
			if list {
				for _, a := range anchors {
					fmt.Fprintf(out, "%s\t%s\n", a.ID, a.ViewBox)
				}
				return nil
			}
			if len(anchors) == 0 {
				printInfo("Sprite has no anchors")
				return nil
			}

			final, err := tea.NewProgram(newAnchorListModel(anchors, url)).Run()
			if err != nil {
				return err
			}
			if m := final.(anchorListModel); m.Selected != nil {
				fmt.Fprintln(out, m.reference(*m.Selected))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "bundle-url", "", "URL used when printing references (default: configured bundle_url)")
	cmd.Flags().BoolVar(&list, "list", false, "print id and viewBox per line instead of the interactive list")

	return cmd
}

// =============================================================================
// anchorListModel - Interactive anchor selection
// =============================================================================

type anchorListModel struct {
	Anchors  []anchor
	URL      string
	Cursor   int
	Offset   int
	Height   int
	Selected *anchor
}

func newAnchorListModel(anchors []anchor, url string) anchorListModel {
	return anchorListModel{Anchors: anchors, URL: url, Height: 15}
}

func (m anchorListModel) reference(a anchor) string {
	return fmt.Sprintf("url(%q)", m.URL+"#"+a.ID)
}

func (m anchorListModel) Init() tea.Cmd {
	return nil
}

func (m anchorListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Anchors)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			a := m.Anchors[m.Cursor]
			m.Selected = &a
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m anchorListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Sprite anchors"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Anchors))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		a := m.Anchors[i]
		rows = append(rows, []string{cursor, a.ID, a.ViewBox})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "viewBox").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %s", m.Cursor+1, len(m.Anchors),
		m.reference(m.Anchors[m.Cursor]))))

	return b.String()
}
