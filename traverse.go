package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// VisitedEdge is an edge in the order the traversal reached it
type VisitedEdge struct {
	Edge
	Order   int     `json:"order"`
	Segment Segment `json:"segment"`
}

// TraverseOptions configures the depth-first walk
type TraverseOptions struct {
	// Visit is called for every edge as it is reached. An error is logged
	// and the walk continues.
	Visit func(VisitedEdge) error

	// Pace delays each visited edge for playback. Zero disables pacing.
	Pace time.Duration

	Logger *log.Logger
}

// frame is one level of the explicit DFS stack
type frame struct {
	vertex int
	next   int // position in the adjacency list still to explore
}

// Traverse walks the graph depth first, reaching every undirected edge once.
// The walk restarts from every vertex that still has unvisited edges, so
// disconnected components are covered. Neighbor order follows the adjacency
// lists, which makes the visit order deterministic.
func Traverse(ctx context.Context, g *Graph, opts TraverseOptions) ([]VisitedEdge, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	visitedEdges := make(map[[2]int]bool)
	visited := make([]VisitedEdge, 0)

	for start := range g.Nodes {
		if !hasUnvisitedEdge(g, start, visitedEdges) {
			continue
		}
		logger.Debug("starting traversal", "vertex", start)

		stack := []frame{{vertex: start}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			neighbors := g.Adjacency[top.vertex]

			if top.next >= len(neighbors) {
				logger.Debug("finished vertex", "vertex", top.vertex)
				stack = stack[:len(stack)-1]
				continue
			}

			neighbor := neighbors[top.next]
			top.next++

			edge := Edge{From: top.vertex, To: neighbor}
			if visitedEdges[edge.key()] {
				continue
			}
			visitedEdges[edge.key()] = true

			ve := VisitedEdge{
				Edge:    edge,
				Order:   len(visited) + 1,
				Segment: g.EdgeSegment(edge),
			}
			visited = append(visited, ve)

			if opts.Visit != nil {
				if err := opts.Visit(ve); err != nil {
					logger.Warn("visit failed, continuing", "from", edge.From, "to", edge.To, "err", err)
				}
			}

			if err := pace(ctx, opts.Pace); err != nil {
				return visited, err
			}

			stack = append(stack, frame{vertex: neighbor})
		}
	}

	return visited, nil
}

// hasUnvisitedEdge checks if any edge incident to v is still unvisited
func hasUnvisitedEdge(g *Graph, v int, visitedEdges map[[2]int]bool) bool {
	for _, n := range g.Adjacency[v] {
		if !visitedEdges[Edge{From: v, To: n}.key()] {
			return true
		}
	}
	return false
}

// pace waits d or until ctx is done
func pace(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// LongestTrail searches every start vertex for the longest walk that uses
// each edge at most once. The search is exhaustive and backtracks, so it is
// exponential on dense graphs; ctx bounds it. When ctx is done before the
// search finishes, an empty trail is returned with ctx's error.
// Among equally long trails the first one found wins.
func LongestTrail(ctx context.Context, g *Graph) ([]VisitedEdge, error) {
	var longest, current []Edge
	used := make(map[[2]int]bool)

	var walk func(v int) error
	walk = func(v int) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		for _, next := range g.Adjacency[v] {
			edge := Edge{From: v, To: next}
			if used[edge.key()] {
				continue
			}

			used[edge.key()] = true
			current = append(current, edge)

			if err := walk(next); err != nil {
				return err
			}

			delete(used, edge.key())
			current = current[:len(current)-1]
		}

		if len(current) > len(longest) {
			longest = append(longest[:0], current...)
		}
		return nil
	}

	for start := range g.Nodes {
		if err := walk(start); err != nil {
			return []VisitedEdge{}, err
		}
	}

	trail := make([]VisitedEdge, len(longest))
	for i, edge := range longest {
		trail[i] = VisitedEdge{Edge: edge, Order: i + 1, Segment: g.EdgeSegment(edge)}
	}
	return trail, nil
}
