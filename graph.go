package main

import (
	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
)

// Graph is the lattice connectivity: nodes by index and their neighbors
type Graph struct {
	Nodes     []Point
	Adjacency map[int][]int
}

// Edge is an undirected connection between two node indices
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// key returns the unordered pair identifying the edge
func (e Edge) key() [2]int {
	if e.From < e.To {
		return [2]int{e.From, e.To}
	}
	return [2]int{e.To, e.From}
}

// BuildGraph connects node indices along every segment.
// If nodes is empty, nodes are taken from the unique segment endpoints.
// Segments with an endpoint that is not a node are skipped.
func BuildGraph(nodes []Point, segments []Segment, tol Tolerance, logger *log.Logger) *Graph {
	if len(nodes) == 0 {
		nodes = NodesFromSegments(segments, tol)
	}

	graph := &Graph{
		Nodes:     nodes,
		Adjacency: make(map[int][]int, len(nodes)),
	}

	// Track vertex to node index mapping
	vertexToIdx := make(map[pointKey]int, len(nodes))
	for i, p := range nodes {
		graph.Adjacency[i] = nil
		// Keep the first node when the input repeats a point
		if _, exists := vertexToIdx[tol.Key(p)]; !exists {
			vertexToIdx[tol.Key(p)] = i
		}
	}

	skipped := 0
	for _, seg := range segments {
		from, okFrom := vertexToIdx[tol.Key(seg.Start)]
		to, okTo := vertexToIdx[tol.Key(seg.End)]
		if !okFrom || !okTo {
			skipped++
			logger.Debug("segment endpoint is not a node", "start", seg.Start, "end", seg.End)
			continue
		}
		graph.connect(from, to)
	}

	if skipped > 0 {
		logger.Warn("start or end point not found in nodes", "skipped", skipped)
	}

	return graph
}

// connect adds an undirected edge, listing each neighbor once
func (g *Graph) connect(a, b int) {
	if a == b || g.HasEdge(a, b) {
		return
	}
	g.Adjacency[a] = append(g.Adjacency[a], b)
	g.Adjacency[b] = append(g.Adjacency[b], a)
}

// HasEdge checks if a and b are neighbors
func (g *Graph) HasEdge(a, b int) bool {
	for _, n := range g.Adjacency[a] {
		if n == b {
			return true
		}
	}
	return false
}

// Edges returns every undirected edge once, ordered by node then neighbor
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0)

	// Use a map to avoid duplicate edges (since edges are bidirectional)
	seen := make(map[[2]int]bool)

	for i := range g.Nodes {
		for _, neighbor := range g.Adjacency[i] {
			e := Edge{From: i, To: neighbor}
			if !seen[e.key()] {
				seen[e.key()] = true
				edges = append(edges, e)
			}
		}
	}

	return edges
}

// EdgeSegment returns the geometry of an edge
func (g *Graph) EdgeSegment(e Edge) Segment {
	return Segment{Start: g.Nodes[e.From], End: g.Nodes[e.To]}
}

// Degree returns the number of neighbors of node i
func (g *Graph) Degree(i int) int {
	return len(g.Adjacency[i])
}

// NodesFromSegments collects unique endpoints in first-seen order
func NodesFromSegments(segments []Segment, tol Tolerance) []Point {
	seen := make(map[pointKey]bool)
	nodes := make([]Point, 0, len(segments)+1)

	for _, seg := range segments {
		for _, p := range [2]Point{seg.Start, seg.End} {
			k := tol.Key(p)
			if !seen[k] {
				seen[k] = true
				nodes = append(nodes, p)
			}
		}
	}

	return nodes
}

// GraphSummary describes the lattice connectivity
type GraphSummary struct {
	Nodes      int       `json:"nodes"`
	Edges      int       `json:"edges"`
	Isolated   int       `json:"isolated"`
	MaxDegree  int       `json:"maxDegree"`
	Degrees    []int     `json:"degrees"`
	PlanBound  orb.Bound `json:"planBound"`
	MinZ       float64   `json:"minZ"`
	MaxZ       float64   `json:"maxZ"`
	Components int       `json:"components"`
}

// Summarize reports node degrees, plan-view extents and component count
func (g *Graph) Summarize() GraphSummary {
	summary := GraphSummary{
		Nodes:   len(g.Nodes),
		Edges:   len(g.Edges()),
		Degrees: make([]int, len(g.Nodes)),
	}
	if len(g.Nodes) == 0 {
		return summary
	}

	first := g.Nodes[0]
	summary.PlanBound = orb.Bound{Min: orb.Point{first.X, first.Y}, Max: orb.Point{first.X, first.Y}}
	summary.MinZ, summary.MaxZ = first.Z, first.Z

	for i, p := range g.Nodes {
		d := g.Degree(i)
		summary.Degrees[i] = d
		if d == 0 {
			summary.Isolated++
		}
		summary.MaxDegree = max(summary.MaxDegree, d)
		summary.PlanBound = summary.PlanBound.Extend(orb.Point{p.X, p.Y})
		summary.MinZ = min(summary.MinZ, p.Z)
		summary.MaxZ = max(summary.MaxZ, p.Z)
	}

	summary.Components = g.countComponents()
	return summary
}

// countComponents counts connected components, isolated nodes included
func (g *Graph) countComponents() int {
	visited := make([]bool, len(g.Nodes))
	components := 0

	for start := range g.Nodes {
		if visited[start] {
			continue
		}
		components++
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range g.Adjacency[n] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
	}

	return components
}
