// Package day is the interactive day view: a slot timeline with the room's
// merged plan, live-updated as members make changes.
package day

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/haru/pkg/engine"
	"tableflip.dev/haru/pkg/timeutil"
	"tableflip.dev/haru/pkg/ui/calendar"
)

const windowSlots = 16

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	ownerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("109"))
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
)

// changed signals that the engine's merged view moved underneath us.
type changed struct{}

type Model struct {
	ctx   context.Context
	eng   *engine.Engine
	watch <-chan engine.Event

	date      string
	cursor    int
	typing    bool
	showMonth bool
	input     textinput.Model
	status    string
}

func New(ctx context.Context, eng *engine.Engine, date string) Model {
	ti := textinput.New()
	ti.Placeholder = "19.5-20.5 수영"
	ti.CharLimit = 80
	ti.Width = 40

	return Model{
		ctx:    ctx,
		eng:    eng,
		watch:  eng.Watch(ctx),
		date:   date,
		cursor: 18, // 09:00
		input:  ti,
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks on the engine's watch channel. Every delivery is
// collapsed into a single repaint; View reads the live merged state.
func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.watch; !ok {
			return nil
		}
		return changed{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changed:
		return m, m.waitForChange()

	case tea.KeyMsg:
		if m.typing {
			return m.updateTyping(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		if d, err := timeutil.AddDays(m.date, -1); err == nil {
			m.date = d
		}
		m.status = ""
	case "right", "l":
		if d, err := timeutil.AddDays(m.date, 1); err == nil {
			m.date = d
		}
		m.status = ""
	case "t":
		m.date = timeutil.Today()
		m.status = ""
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < timeutil.SlotsPerDay-1 {
			m.cursor++
		}
	case "x":
		if err := m.eng.DeleteTimeBlock(m.ctx, m.date, m.cursor); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("cleared %s", timeutil.FormatSlot(m.cursor))
		}
	case "m":
		m.showMonth = !m.showMonth
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n := int(msg.String()[0] - '0')
		todos := m.eng.DayTodos(m.date)
		if n <= len(todos) {
			if td, err := m.eng.ToggleTodo(m.ctx, todos[n-1].ID); err != nil {
				m.status = err.Error()
			} else if td.Completed {
				m.status = fmt.Sprintf("done: %s", td.Text)
			} else {
				m.status = fmt.Sprintf("reopened: %s", td.Text)
			}
		}
	case "a", "i":
		m.typing = true
		m.status = ""
		m.input.SetValue("")
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.typing = false
		m.input.Blur()
		return m, nil
	case "enter":
		raw := strings.TrimSpace(m.input.Value())
		m.typing = false
		m.input.Blur()
		if raw == "" {
			return m, nil
		}
		if _, ev, err := m.eng.QuickAdd(m.ctx, m.date, raw); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("scheduled %q %s", ev.Title, ev.Time)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	header := m.date
	if u, ok := m.eng.Identity(); ok {
		header += "  " + ownerStyle.Render(u.Name)
	}
	if code := m.eng.RoomCode(); code != "" {
		header += dimStyle.Render("  room "+code)
	}
	b.WriteString(titleStyle.Render(header) + "\n\n")

	if m.showMonth {
		b.WriteString(m.renderMonth() + "\n\n")
	}

	for _, ev := range m.eng.DayEvents(m.date) {
		when := ev.Time
		if when == "" {
			when = "--:--"
		}
		line := fmt.Sprintf("◆ %s  %s", when, ev.Title)
		if ev.OwnerName != "" {
			line += "  " + ownerStyle.Render(ev.OwnerName)
		}
		b.WriteString(eventStyle.Render(line) + "\n")
	}

	b.WriteString("\n")
	m.renderSlots(&b)

	todos := m.eng.DayTodos(m.date)
	if len(todos) > 0 {
		b.WriteString("\n")
		for i, td := range todos {
			num := ""
			if i < 9 {
				num = dimStyle.Render(fmt.Sprintf("%d ", i+1))
			}
			if td.Completed {
				b.WriteString(num + doneStyle.Render("✗ "+td.Text) + "\n")
			} else {
				b.WriteString(num + "· " + td.Text + "\n")
			}
		}
	}

	b.WriteString("\n")
	if m.typing {
		b.WriteString(m.input.View() + "\n")
		b.WriteString(dimStyle.Render("enter to schedule, esc to cancel") + "\n")
	} else {
		b.WriteString(dimStyle.Render("←/→ day · ↑/↓ slot · a add · x clear · 1-9 todo · m month · q quit") + "\n")
	}
	if m.status != "" {
		b.WriteString(dimStyle.Render(m.status) + "\n")
	}
	return b.String()
}

// renderMonth draws the month glance for the viewed date. A day is marked
// when anyone in the room planned something on it.
func (m Model) renderMonth() string {
	viewed, err := timeutil.ParseDate(m.date)
	if err != nil {
		return ""
	}
	today, _ := timeutil.ParseDate(timeutil.Today())

	var days []calendar.Day
	first := time.Date(viewed.Year(), viewed.Month(), 1, 0, 0, 0, 0, viewed.Location())
	for d := 1; d <= 31; d++ {
		date := first.AddDate(0, 0, d-1)
		if date.Month() != viewed.Month() {
			break
		}
		iso := date.Format(timeutil.LayoutISO)
		days = append(days, calendar.Day{
			Day:        d,
			HasPlan:    len(m.eng.DayBlocks(iso)) > 0 || len(m.eng.DayEvents(iso)) > 0,
			IsToday:    date.Equal(today),
			IsSelected: date.Equal(viewed),
		})
	}

	return calendar.Render(viewed, days, calendar.Options{
		HeaderStyle:   dimStyle,
		EmptyStyle:    dimStyle,
		PlanStyle:     eventStyle,
		TodayStyle:    lipgloss.NewStyle().Bold(true),
		SelectedStyle: cursorStyle,
		ShowHeader:    true,
	})
}

// renderSlots draws a window of the 48-slot timeline around the cursor. A
// slot can hold one block per member; all of them render on the row.
func (m Model) renderSlots(b *strings.Builder) {
	start := m.cursor - windowSlots/2
	if start < 0 {
		start = 0
	}
	if start > timeutil.SlotsPerDay-windowSlots {
		start = timeutil.SlotsPerDay - windowSlots
	}

	blocks := m.eng.DayBlocks(m.date)
	for slot := start; slot < start+windowSlots; slot++ {
		marker := "  "
		label := dimStyle.Render(timeutil.FormatSlot(slot))
		if slot == m.cursor {
			marker = cursorStyle.Render("› ")
			label = cursorStyle.Render(timeutil.FormatSlot(slot))
		}

		var cells []string
		for _, blk := range blocks {
			if blk.Slot != slot || blk.Empty() {
				continue
			}
			cell := blk.Note
			if c, ok := m.eng.Category(blk.CategoryID); ok {
				cell = c.Icon + " " + cell
			}
			if blk.OwnerName != "" {
				cell += " " + ownerStyle.Render(blk.OwnerName)
			}
			cells = append(cells, cell)
		}
		fmt.Fprintf(b, "%s%s  %s\n", marker, label, strings.Join(cells, dimStyle.Render("  |  ")))
	}
}
