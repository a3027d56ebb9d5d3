package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockweek/pkg/block"
	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
	"github.com/matzehuels/blockweek/pkg/pipeline"
	"github.com/matzehuels/blockweek/pkg/render/text"
)

// viewCommand creates the interactive week browser.
func (c *CLI) viewCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "view [schedule.toml|schedule.json]",
		Short: "Browse a laid-out week in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(c.Logger)
			if err != nil {
				return err
			}
			runner := c.newRunner(flags.noCache)
			defer runner.Close()

			ctx := cmd.Context()
			week, err := runner.Load(ctx, args[0])
			if err != nil {
				return err
			}
			laid, stats, err := runner.Layout(ctx, week, opts)
			if err != nil {
				return err
			}
			if laid.Len() == 0 {
				return bwerrors.New(bwerrors.ErrCodeInvalidInput, "%s: no blocks on the selected days", args[0])
			}

			p := tea.NewProgram(newViewModel(laid, stats), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// Key bindings
// =============================================================================

type viewKeyMap struct {
	Prev key.Binding
	Next key.Binding
	Up   key.Binding
	Down key.Binding
	Help key.Binding
	Quit key.Binding
}

var viewKeys = viewKeyMap{
	Prev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
	Next: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next day")),
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k viewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Help, k.Quit}
}

func (k viewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next}, {k.Up, k.Down}, {k.Help, k.Quit}}
}

// =============================================================================
// viewModel
// =============================================================================

var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
	rowSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

// viewModel is the bubbletea model for browsing a week one day at a time.
type viewModel struct {
	week   block.Week
	stats  map[block.Day]*pipeline.DayStats
	days   []block.Day
	order  map[block.Day][]int // block indices sorted by start, then column
	day    int
	cursor int
	width  int
	help   help.Model
}

func newViewModel(week block.Week, stats map[block.Day]*pipeline.DayStats) viewModel {
	m := viewModel{
		week:  week,
		stats: stats,
		days:  week.Days(),
		order: make(map[block.Day][]int, len(week)),
		width: 80,
		help:  help.New(),
	}
	for d, blocks := range week {
		idx := make([]int, len(blocks))
		for i := range idx {
			idx[i] = i
		}
		slices.SortStableFunc(idx, func(a, b int) int {
			if blocks[a].Start != blocks[b].Start {
				return blocks[a].Start - blocks[b].Start
			}
			return blocks[a].Depth - blocks[b].Depth
		})
		m.order[d] = idx
	}
	return m
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, viewKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, viewKeys.Prev):
			m.day = (m.day + len(m.days) - 1) % len(m.days)
			m.cursor = 0
		case key.Matches(msg, viewKeys.Next):
			m.day = (m.day + 1) % len(m.days)
			m.cursor = 0
		case key.Matches(msg, viewKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, viewKeys.Down):
			if m.cursor < len(m.currentOrder())-1 {
				m.cursor++
			}
		case key.Matches(msg, viewKeys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m viewModel) currentDay() block.Day { return m.days[m.day] }

func (m viewModel) currentOrder() []int { return m.order[m.currentDay()] }

// selected returns the block under the cursor.
func (m viewModel) selected() (block.Block, bool) {
	order := m.currentOrder()
	if m.cursor >= len(order) {
		return block.Block{}, false
	}
	return m.week[m.currentDay()][order[m.cursor]], true
}

func (m viewModel) View() string {
	var b strings.Builder

	tabs := make([]string, len(m.days))
	for i, d := range m.days {
		if i == m.day {
			tabs[i] = tabActiveStyle.Render(d.Short())
		} else {
			tabs[i] = tabInactiveStyle.Render(d.Short())
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	day := m.currentDay()
	blocks := m.week[day]
	idWidth := 0
	for _, blk := range blocks {
		idWidth = max(idWidth, len(blk.ID))
	}
	barWidth := max(10, m.width-idWidth-20)

	for row, i := range m.currentOrder() {
		blk := blocks[i]
		line := fmt.Sprintf("%s-%s |%s| %s",
			bwerrors.FormatClock(blk.Start), bwerrors.FormatClock(blk.End),
			text.Bar(blk, text.Options{Width: barWidth, Fill: '█'}), blk.ID)
		switch {
		case row == m.cursor:
			line = rowSelectedStyle.Render("▸ " + line)
		case blk.Fixed:
			line = "  " + styleFixed.Render(line)
		default:
			line = "  " + styleFlexible.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if blk, ok := m.selected(); ok {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%s  column %d  path depth %d  left %.3f  width %.3f  %d conflicts",
			blk.ID, blk.Depth, blk.PathDepth, blk.Left, blk.Width, len(blk.Neighbors))))
		b.WriteString("\n")
	}
	if st := m.stats[day]; st != nil {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%d columns · %d fixed · %d components", st.Columns, st.Fixed, st.Components)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(viewKeys))
	return b.String()
}
