package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/potentials/pkg/trace"
	"github.com/matzehuels/potentials/pkg/transport"
)

var (
	stepTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	stepDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	stepFrameStyle = lipgloss.NewStyle().Padding(1, 2)
)

// =============================================================================
// Pages
// =============================================================================

// stepPage is one screen of the walk-through.
type stepPage struct {
	Title string
	Body  string
}

// pageBuilder is a transport.Observer that turns each callback into a page.
type pageBuilder struct {
	pages     []stepPage
	iteration int
}

// buildPages replays tr into one page per event.
func buildPages(tr *trace.Trace) ([]stepPage, error) {
	b := &pageBuilder{}
	if err := trace.Replay(tr, b); err != nil {
		return nil, err
	}
	return b.pages, nil
}

func (b *pageBuilder) add(title string, parts ...string) {
	b.pages = append(b.pages, stepPage{Title: title, Body: strings.Join(parts, "\n\n")})
}

func (b *pageBuilder) OnStart(p transport.Problem) {
	s := transport.Snapshot{Costs: p.Costs, Supply: p.Supply, Demand: p.Demand, Plan: transport.NewPlan(p.Rows(), p.Cols())}
	b.add("Problem",
		planTable(s, nil),
		fmt.Sprintf("%d suppliers, %d consumers. Total supply %d, total demand %d.",
			p.Rows(), p.Cols(), p.TotalSupply(), p.TotalDemand()))
}

func (b *pageBuilder) OnBalanced(s transport.Snapshot, addedColumn bool, totalSupply, totalDemand int64) {
	what := fmt.Sprintf("a slack consumer B%d with demand %d", len(s.Demand), totalSupply-totalDemand)
	if !addedColumn {
		what = fmt.Sprintf("a slack supplier A%d with supply %d", len(s.Supply), totalDemand-totalSupply)
	}
	b.add("Closing the problem",
		planTable(s, nil),
		fmt.Sprintf("Supply %d and demand %d differ; added %s at zero cost.", totalSupply, totalDemand, what))
}

func (b *pageBuilder) OnInitialPlanBuilt(s transport.Snapshot) {
	b.add("Initial plan (minimum element)",
		planTable(s, nil),
		fmt.Sprintf("Basic cells: %d. Cost: %d.", len(s.Plan.BasicCells()), s.TotalCost))
}

func (b *pageBuilder) OnDegenerateFix(s transport.Snapshot) {
	b.add("Degenerate plan",
		planTable(s, nil),
		"Zero allocations were added so that every potential can be determined.")
}

func (b *pageBuilder) OnPotentialsComputed(s transport.Snapshot, u, v []int64) {
	b.add(b.prefix()+"Potentials",
		planTable(s, nil),
		"u = "+vector(u)+"\nv = "+vector(v))
}

func (b *pageBuilder) OnReducedCosts(s transport.Snapshot, sums, reduced transport.Matrix) {
	b.add(b.prefix()+"Reduced costs",
		matrixTable("u+v", sums),
		matrixTable("c-(u+v)", reduced))
}

func (b *pageBuilder) OnPlanRebuilt(s transport.Snapshot, cycle []transport.Cell, previous transport.Plan, _, _ []int64) {
	b.iteration++
	prev := s
	prev.Plan = previous
	prev.TotalCost = previous.Cost(s.Costs)
	b.add(fmt.Sprintf("Iteration %d: Rebuilding the plan", b.iteration),
		planTable(prev, cycleMarks(cycle)),
		planTable(s, nil),
		fmt.Sprintf("Cycle through %d cells. Cost %d → %d.", len(cycle), prev.TotalCost, s.TotalCost))
}

func (b *pageBuilder) OnOptimalSolutionFound(s transport.Snapshot) {
	b.add("Optimal plan",
		planTable(s, nil),
		StyleSuccess.Render(fmt.Sprintf("All reduced costs are non-negative. Minimum cost: %d.", s.TotalCost)))
}

func (b *pageBuilder) prefix() string {
	return fmt.Sprintf("Iteration %d: ", b.iteration+1)
}

func vector(xs []int64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

var _ transport.Observer = (*pageBuilder)(nil)

// =============================================================================
// StepModel - Interactive walk-through
// =============================================================================

// StepModel is the bubbletea model for stepping through a solve.
type StepModel struct {
	Pages  []stepPage
	Cursor int
}

// NewStepModel creates a step model positioned on the first page.
func NewStepModel(pages []stepPage) StepModel {
	return StepModel{Pages: pages}
}

func (m StepModel) Init() tea.Cmd {
	return nil
}

func (m StepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n", " ", "enter":
			if m.Cursor < len(m.Pages)-1 {
				m.Cursor++
			}
		case "left", "h", "p":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Pages)-1, 0)
		}
	}
	return m, nil
}

func (m StepModel) View() string {
	if len(m.Pages) == 0 {
		return stepDimStyle.Render("nothing to show") + "\n"
	}
	page := m.Pages[m.Cursor]

	var b strings.Builder
	b.WriteString(stepTitleStyle.Render(page.Title))
	b.WriteString("\n\n")
	b.WriteString(page.Body)
	b.WriteString("\n\n")
	b.WriteString(stepDimStyle.Render(fmt.Sprintf("[%d/%d]  ←/→ step  g/G first/last  q quit", m.Cursor+1, len(m.Pages))))
	return stepFrameStyle.Render(b.String())
}
