// Package blueprint assembles the artifacts of every load unit of a project:
// staging and history DDL, the control-table statements and the four SCD2
// statements. All artifacts are registered into one dependency graph.
package blueprint

import (
	"github.com/ninjasql/ninjasql/internal/config"
	"github.com/ninjasql/ninjasql/internal/source"
	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/scd2"
)

// Artifact kinds added on top of the scd2 statement kinds.
const (
	KindStagingDDL scd2.Kind = "ddl_staging"
	KindHistoryDDL scd2.Kind = "ddl_history"
)

// StagingDDLName is the artifact name of a staging table's DDL.
func StagingDDLName(staging string) string {
	return string(KindStagingDDL) + "_" + staging
}

// HistoryDDLName is the artifact name of a history table's DDL.
func HistoryDDLName(history string) string {
	return string(KindHistoryDDL) + "_" + history
}

// Artifact is a rendered statement.
type Artifact struct {
	Name      string
	Kind      scd2.Kind
	Unit      string // source name, empty for shared artifacts
	SQL       string
	Args      []any
	DependsOn []string
}

// Unit is one load unit: a source with its staging and history tables.
type Unit struct {
	Source    config.SourceConfig
	Table     *source.Table
	Staging   *scd2.TableDescriptor
	History   *scd2.TableDescriptor
	Generator *scd2.Generator
	Artifacts []*Artifact
}

// Types returns the inferred staging column types.
func (u *Unit) Types() map[string]core.LogicalType {
	return u.Table.Types()
}
