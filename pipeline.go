package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage selects how far the pipeline runs
type Stage int

const (
	StageWeigh Stage = iota // weights only
	StageMerge              // weights, chain merging and pruning
)

// Result is the outcome of one pipeline run
type Result struct {
	ID        string            `json:"id"`
	Weighted  []WeightedSegment `json:"weighted"`
	Merged    []MergedSegment   `json:"merged,omitempty"`
	Order     []int             `json:"order"`
	Uncovered []int             `json:"uncovered,omitempty"`
	Elapsed   time.Duration     `json:"elapsedNs"`
}

// LinesAndWeightsOutput is the parallel (segments, weights) output pair
type LinesAndWeightsOutput struct {
	ID       string    `json:"id"`
	Segments []Segment `json:"segments"`
	Weights  []float64 `json:"weights"`
	Order    []int     `json:"order"`
}

// Output returns the final segments and weights of the run, in order of
// computation, with Order listing them by ascending weight.
func (r *Result) Output() LinesAndWeightsOutput {
	var lines []Segment
	var weights []float64
	if r.Merged != nil {
		lines, weights = MergedLinesAndWeights(r.Merged)
	} else {
		lines, weights = LinesAndWeights(r.Weighted)
	}
	return LinesAndWeightsOutput{ID: r.ID, Segments: lines, Weights: weights, Order: r.Order}
}

// Run weights the lattice and, for StageMerge, merges chains and checks
// that every connected node is still covered.
func Run(ctx context.Context, lattice *Lattice, cfg Config, stage Stage) (*Result, error) {
	logger := loggerFromContext(ctx)
	start := time.Now()

	result := &Result{ID: uuid.NewString()}
	logger.Info("processing lattice", "run", result.ID, "segments", len(lattice.Segments), "nodes", len(lattice.Nodes))

	p := newProgress(logger)
	weighted, err := AssignWeights(lattice.Segments, cfg.Tolerance, cfg.Weights)
	if err != nil {
		return nil, err
	}
	if cfg.Refine.Passes > 0 {
		weighted = RefineTies(weighted, cfg.Tolerance, cfg.Refine)
	}
	result.Weighted = weighted
	p.done("weights assigned", "segments", len(weighted))

	for _, ws := range weighted {
		logger.Debug("weighted segment", "index", ws.Index, "kind", ws.Kind, "weight", ws.Weight)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if stage == StageWeigh {
		lines, weights := LinesAndWeights(weighted)
		result.Order = sequence(lines, weights, cfg)
		result.Elapsed = time.Since(start)
		return result, nil
	}

	p = newProgress(logger)
	merged := MergeChains(weighted, cfg.Tolerance, cfg.Merge)
	result.Merged = merged
	p.done("chains merged", "before", len(weighted), "after", len(merged))

	lines, weights := MergedLinesAndWeights(merged)
	result.Order = sequence(lines, weights, cfg)

	graph := BuildGraph(lattice.Nodes, lattice.Segments, cfg.Tolerance, logger)
	connected := make([]Point, 0, len(graph.Nodes))
	connectedIdx := make([]int, 0, len(graph.Nodes))
	for i, node := range graph.Nodes {
		if graph.Degree(i) > 0 {
			connected = append(connected, node)
			connectedIdx = append(connectedIdx, i)
		}
	}
	for _, i := range Uncovered(connected, lines, cfg.Tolerance) {
		result.Uncovered = append(result.Uncovered, connectedIdx[i])
	}
	if len(result.Uncovered) > 0 {
		logger.Warn("nodes not covered after merging", "count", len(result.Uncovered))
	}

	result.Elapsed = time.Since(start)
	return result, nil
}

// sequence orders by weight, then keeps braces beside their verticals if asked
func sequence(lines []Segment, weights []float64, cfg Config) []int {
	order := Order(weights)
	if cfg.Order.Brace {
		order = BraceOrder(lines, order, cfg.Tolerance)
	}
	return order
}

// TraverseLattice builds the graph and walks it depth first
func TraverseLattice(ctx context.Context, lattice *Lattice, cfg Config, visit func(VisitedEdge) error) (*Graph, []VisitedEdge, error) {
	if len(lattice.Segments) == 0 {
		return nil, nil, fmt.Errorf("failed to traverse lattice: %w", ErrEmptyInput)
	}
	logger := loggerFromContext(ctx)

	paceDelay, err := cfg.PaceDuration()
	if err != nil {
		return nil, nil, err
	}

	graph := BuildGraph(lattice.Nodes, lattice.Segments, cfg.Tolerance, logger)

	p := newProgress(logger)
	visited, err := Traverse(ctx, graph, TraverseOptions{
		Visit:  visit,
		Pace:   paceDelay,
		Logger: logger,
	})
	if err != nil {
		return graph, visited, fmt.Errorf("traversal interrupted: %w", err)
	}
	p.done("traversal finished", "edges", len(visited))

	return graph, visited, nil
}

// TrailLattice builds the graph and searches it for the longest continuous
// trail within the configured budget. Running out of budget is not an error:
// it yields an empty trail and a warning. Cancellation of ctx is an error.
func TrailLattice(ctx context.Context, lattice *Lattice, cfg Config) (*Graph, []VisitedEdge, error) {
	if len(lattice.Segments) == 0 {
		return nil, nil, fmt.Errorf("failed to find trail: %w", ErrEmptyInput)
	}
	logger := loggerFromContext(ctx)

	budget, err := cfg.TrailTimeout()
	if err != nil {
		return nil, nil, err
	}

	graph := BuildGraph(lattice.Nodes, lattice.Segments, cfg.Tolerance, logger)

	searchCtx := ctx
	if budget > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	p := newProgress(logger)
	trail, err := LongestTrail(searchCtx, graph)
	switch {
	case err == nil:
		p.done("longest trail found", "edges", len(trail), "of", len(graph.Edges()))
	case ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded):
		logger.Warn("longest trail search timed out", "budget", budget)
	default:
		return graph, nil, fmt.Errorf("trail search interrupted: %w", err)
	}

	return graph, trail, nil
}
