package scd2

import "github.com/ninjasql/ninjasql/pkg/sqlexpr"

// Artifact is a named statement and the artifacts it must run after.
type Artifact struct {
	Name      string
	Kind      Kind
	Statement sqlexpr.Statement
	DependsOn []string
}

// Registrar records artifact dependencies. *dag.Graph implements it.
type Registrar interface {
	AddNode(artifact string)
	AddEdge(artifact, prerequisite string)
}

// ArtifactName returns the stable graph name of a statement for a table.
func ArtifactName(kind Kind, table string) string {
	switch kind {
	case KindTableLoadDDL:
		return "ddl_" + table
	case KindTableLoadReset, KindTableLoadInsert:
		return string(kind) + "_" + table
	default:
		return "scd2_" + string(kind) + "_" + table
	}
}

// Name returns the artifact name of one of this generator's statements.
func (g *Generator) Name(kind Kind) string {
	if kind == KindTableLoadDDL {
		return ArtifactName(kind, g.controlTable)
	}
	return ArtifactName(kind, g.history().Name())
}

// Artifacts returns the generator's statements in execution order with their
// dependencies: the control-table statements first (control-table strategy
// only), then new_insert, [open_row_check,] updated_insert, updated_update and
// deleted_update, each depending on its predecessor.
func (g *Generator) Artifacts() []Artifact {
	var out []Artifact
	add := func(kind Kind, stmt sqlexpr.Statement, deps ...string) {
		out = append(out, Artifact{Name: g.Name(kind), Kind: kind, Statement: stmt, DependsOn: deps})
	}

	var first []string
	if g.Strategy() == StrategyControlTable {
		add(KindTableLoadDDL, g.TableLoadDDL())
		add(KindTableLoadReset, g.TableLoadReset(), g.Name(KindTableLoadDDL))
		add(KindTableLoadInsert, g.TableLoadInsert(*g.batch), g.Name(KindTableLoadReset))
		first = []string{g.Name(KindTableLoadInsert)}
	}

	add(KindNewInsert, g.NewInsert(), first...)
	prev := g.Name(KindNewInsert)
	if g.openRowCheck {
		add(KindOpenRowCheck, g.OpenRowConflicts(), prev)
		prev = g.Name(KindOpenRowCheck)
	}
	add(KindUpdatedInsert, g.UpdatedInsert(), prev)
	add(KindUpdatedUpdate, g.UpdatedUpdate(), g.Name(KindUpdatedInsert))
	add(KindDeletedUpdate, g.DeletedUpdate(), g.Name(KindUpdatedUpdate))
	return out
}

// Register adds the dependency edges of Artifacts to r.
func (g *Generator) Register(r Registrar) {
	for _, a := range g.Artifacts() {
		r.AddNode(a.Name)
		for _, dep := range a.DependsOn {
			r.AddEdge(a.Name, dep)
		}
	}
}
