package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorYellow = lipgloss.Color("220")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// printOrderTable writes segments in print order with their weights
func printOrderTable(w io.Writer, title string, segments []ExportedSegment, order []int) {
	fmt.Fprintln(w, styleTitle.Render(title))
	fmt.Fprintln(w, styleHeader.Render(fmt.Sprintf("%5s  %5s  %-10s  %9s  %s", "order", "index", "kind", "weight", "segment")))

	for rank, i := range order {
		seg := segments[i]
		fmt.Fprintf(w, "%5d  %5d  %-10s  %s  %s\n",
			rank+1,
			i,
			seg.Kind,
			styleNumber.Render(fmt.Sprintf("%9.3f", seg.Weight)),
			styleDim.Render(formatSegment(seg.Segment)),
		)
	}
}

// printGraphSummary writes the connectivity summary
func printGraphSummary(w io.Writer, s GraphSummary) {
	fmt.Fprintln(w, styleTitle.Render("Lattice graph"))
	row := func(label string, value any) {
		fmt.Fprintf(w, "  %-12s %s\n", label, styleNumber.Render(fmt.Sprint(value)))
	}
	row("nodes", s.Nodes)
	row("edges", s.Edges)
	row("components", s.Components)
	row("max degree", s.MaxDegree)
	row("height", fmt.Sprintf("%.2f .. %.2f", s.MinZ, s.MaxZ))
	row("plan", fmt.Sprintf("(%.2f, %.2f) .. (%.2f, %.2f)",
		s.PlanBound.Min.X(), s.PlanBound.Min.Y(), s.PlanBound.Max.X(), s.PlanBound.Max.Y()))

	if s.Isolated > 0 {
		fmt.Fprintln(w, styleWarning.Render(fmt.Sprintf("  ! %d isolated nodes", s.Isolated)))
	}

	// Degree histogram
	counts := make(map[int]int)
	maxDegree := 0
	for _, d := range s.Degrees {
		counts[d]++
		maxDegree = max(maxDegree, d)
	}
	for d := 0; d <= maxDegree; d++ {
		if counts[d] == 0 {
			continue
		}
		fmt.Fprintf(w, "  degree %-4d %s %d\n", d, styleDim.Render(strings.Repeat("▪", min(counts[d], 40))), counts[d])
	}
}

// printTraversal writes edges in visit order
func printTraversal(w io.Writer, title string, visited []VisitedEdge) {
	fmt.Fprintln(w, styleTitle.Render(title))
	for _, ve := range visited {
		fmt.Fprintf(w, "%5d  %s %d → %d  %s\n",
			ve.Order,
			styleDim.Render("edge"),
			ve.From,
			ve.To,
			styleDim.Render(formatSegment(ve.Segment)),
		)
	}
}

func formatSegment(s Segment) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f) → (%.2f, %.2f, %.2f)",
		s.Start.X, s.Start.Y, s.Start.Z, s.End.X, s.End.Y, s.End.Z)
}
