// Package dag provides the artifact dependency graph.
// It records "artifact depends on prerequisite" edges and answers ordering
// queries: a single topological order and Kahn-style execution batches.
package dag

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrCyclicDependency is matched by CyclicDependencyError.
var ErrCyclicDependency = errors.New("cyclic dependency")

// CyclicDependencyError is returned by ordering queries on a graph with a cycle.
// Path lists the artifacts along the cycle, first and last element equal.
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.Path, " -> "))
}

// Unwrap returns ErrCyclicDependency.
func (e *CyclicDependencyError) Unwrap() error {
	return ErrCyclicDependency
}

// Graph is a directed graph of artifact names.
//
// Writers are serialized by an internal lock, so one graph can be shared by
// blueprints built concurrently. Queries take a read lock.
type Graph struct {
	mu      sync.RWMutex
	nodes   map[string]struct{}
	edges   map[string][]string // prerequisite -> dependents
	parents map[string][]string // artifact -> prerequisites
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]struct{}),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// AddNode registers an artifact without dependencies.
func (g *Graph) AddNode(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addNode(id)
}

func (g *Graph) addNode(id string) {
	if _, exists := g.nodes[id]; !exists {
		g.nodes[id] = struct{}{}
		g.edges[id] = []string{}
		g.parents[id] = []string{}
	}
}

// AddEdge records that artifact depends on prerequisite. Both nodes are
// registered; adding the same edge twice has no effect. Self-loops are
// accepted and reported as cycles by the ordering queries.
func (g *Graph) AddEdge(artifact, prerequisite string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addNode(artifact)
	g.addNode(prerequisite)

	if !contains(g.edges[prerequisite], artifact) {
		g.edges[prerequisite] = append(g.edges[prerequisite], artifact)
	}
	if !contains(g.parents[artifact], prerequisite) {
		g.parents[artifact] = append(g.parents[artifact], prerequisite)
	}
}

// HasNode reports whether the artifact is known.
func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	count := 0
	for _, children := range g.edges {
		count += len(children)
	}
	return count
}

// HasCycle returns true if the graph contains a cycle, along with the cycle path.
func (g *Graph) HasCycle() (bool, []string) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	path := g.findCycle()
	return path != nil, path
}

func (g *Graph) findCycle() []string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string) // Track the path for error reporting

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		for _, childID := range g.edges[id] {
			if !visited[childID] {
				path[childID] = id
				if dfs(childID) {
					return true
				}
			} else if recStack[childID] {
				// Found cycle, reconstruct path
				cyclePath = []string{childID}
				for curr := id; curr != childID; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{childID}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	for _, id := range g.sortedIDs() {
		if !visited[id] {
			if dfs(id) {
				return cyclePath
			}
		}
	}
	return nil
}

// TopologicalOrder returns all artifacts, prerequisites first.
// Returns a CyclicDependencyError if the graph contains a cycle.
func (g *Graph) TopologicalOrder() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if cyclePath := g.findCycle(); cyclePath != nil {
		return nil, &CyclicDependencyError{Path: cyclePath}
	}

	visited := make(map[string]bool)
	result := make([]string, 0, len(g.nodes))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true

		// Visit all prerequisites first
		for _, parentID := range sortedCopy(g.parents[id]) {
			visit(parentID)
		}

		result = append(result, id)
	}

	for _, id := range g.sortedIDs() {
		visit(id)
	}

	return result, nil
}

// BatchOrder groups artifacts into levels with Kahn's algorithm. Level 0
// holds artifacts without prerequisites; level k holds artifacts whose
// prerequisites all lie in earlier levels. Members of a level may run
// concurrently. Each level is sorted for deterministic output.
// Returns a CyclicDependencyError if the graph contains a cycle.
func (g *Graph) BatchOrder() ([][]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	inDegree := make(map[string]int, len(g.nodes))
	var current []string
	for _, id := range g.sortedIDs() {
		inDegree[id] = len(g.parents[id])
		if inDegree[id] == 0 {
			current = append(current, id)
		}
	}

	levels := [][]string{}
	placed := 0
	for len(current) > 0 {
		levels = append(levels, current)
		placed += len(current)

		var next []string
		for _, id := range current {
			for _, child := range g.edges[id] {
				inDegree[child]--
				if inDegree[child] == 0 {
					next = append(next, child)
				}
			}
		}
		sort.Strings(next)
		current = next
	}

	if placed != len(g.nodes) {
		return nil, &CyclicDependencyError{Path: g.findCycle()}
	}
	return levels, nil
}

// GetAffectedNodes returns the given artifacts and all their downstream dependents.
func (g *Graph) GetAffectedNodes(changedIDs []string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	affected := make(map[string]bool)

	var markAffected func(id string)
	markAffected = func(id string) {
		if affected[id] {
			return
		}
		affected[id] = true

		for _, childID := range g.edges[id] {
			markAffected(childID)
		}
	}

	for _, id := range changedIDs {
		if _, exists := g.nodes[id]; exists {
			markAffected(id)
		}
	}

	return sortedKeys(affected)
}

// GetUpstreamNodes returns all transitive prerequisites of an artifact.
func (g *Graph) GetUpstreamNodes(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	upstream := make(map[string]bool)

	var markUpstream func(nodeID string)
	markUpstream = func(nodeID string) {
		for _, parentID := range g.parents[nodeID] {
			if !upstream[parentID] {
				upstream[parentID] = true
				markUpstream(parentID)
			}
		}
	}

	markUpstream(id)
	return sortedKeys(upstream)
}

// Subgraph returns a new graph containing only the specified nodes and their edges.
func (g *Graph) Subgraph(nodeIDs []string) *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	subgraph := NewGraph()
	nodeSet := make(map[string]bool)

	for _, id := range nodeIDs {
		if _, exists := g.nodes[id]; exists {
			nodeSet[id] = true
			subgraph.addNode(id)
		}
	}

	// Add edges between included nodes
	for id := range nodeSet {
		for _, childID := range g.edges[id] {
			if nodeSet[childID] {
				subgraph.AddEdge(childID, id)
			}
		}
	}

	return subgraph
}

func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
