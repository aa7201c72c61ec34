package blueprint

import (
	"fmt"
	"slices"

	"github.com/ninjasql/ninjasql/internal/dag"
	"github.com/ninjasql/ninjasql/pkg/scd2"
)

// Plan is the planned set of artifacts and their dependency graph.
type Plan struct {
	Graph     *dag.Graph
	Units     []*Unit
	Batch     scd2.BatchContext
	Dialect   string
	Strategy  scd2.LoadStrategy
	artifacts map[string]*Artifact
}

// Artifact returns an artifact by name.
func (p *Plan) Artifact(name string) (*Artifact, bool) {
	a, ok := p.artifacts[name]
	return a, ok
}

// Len returns the number of artifacts.
func (p *Plan) Len() int {
	return len(p.artifacts)
}

// Ordered returns the artifacts in execution order.
func (p *Plan) Ordered() ([]*Artifact, error) {
	order, err := p.Graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	return p.lookup(order)
}

// Batches returns the artifacts grouped into levels; artifacts within a
// level do not depend on each other.
func (p *Plan) Batches() ([][]*Artifact, error) {
	levels, err := p.Graph.BatchOrder()
	if err != nil {
		return nil, err
	}
	out := make([][]*Artifact, len(levels))
	for i, level := range levels {
		if out[i], err = p.lookup(level); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *Plan) lookup(names []string) ([]*Artifact, error) {
	out := make([]*Artifact, 0, len(names))
	for _, name := range names {
		a, ok := p.artifacts[name]
		if !ok {
			return nil, fmt.Errorf("artifact %q is in the graph but was not planned", name)
		}
		out = append(out, a)
	}
	return out, nil
}

// Select narrows the plan to the named artifacts and everything they depend on.
func (p *Plan) Select(names ...string) (*Plan, error) {
	if len(names) == 0 {
		return p, nil
	}

	keep := make(map[string]bool)
	for _, name := range names {
		if !p.Graph.HasNode(name) {
			return nil, fmt.Errorf("unknown artifact %q", name)
		}
		keep[name] = true
		for _, up := range p.Graph.GetUpstreamNodes(name) {
			keep[up] = true
		}
	}

	ids := make([]string, 0, len(keep))
	for id := range keep {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	sub := &Plan{
		Graph:     p.Graph.Subgraph(ids),
		Batch:     p.Batch,
		Dialect:   p.Dialect,
		Strategy:  p.Strategy,
		artifacts: make(map[string]*Artifact, len(ids)),
	}
	for _, id := range ids {
		sub.artifacts[id] = p.artifacts[id]
	}
	for _, u := range p.Units {
		for _, a := range u.Artifacts {
			if keep[a.Name] {
				sub.Units = append(sub.Units, u)
				break
			}
		}
	}
	return sub, nil
}
