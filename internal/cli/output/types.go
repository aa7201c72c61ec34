package output

// PlanArtifact is one artifact in plan output.
type PlanArtifact struct {
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Unit      string   `json:"unit,omitempty"`
	DependsOn []string `json:"depends_on,omitempty"`
}

// PlanOutput is the JSON form of the plan command.
type PlanOutput struct {
	Dialect   string           `json:"dialect"`
	Strategy  string           `json:"strategy"`
	BatchDate string           `json:"batch_date"`
	Batches   [][]PlanArtifact `json:"batches"`
}

// DiffOutput lists artifact changes since the previous run.
type DiffOutput struct {
	Added     []string `json:"added"`
	Changed   []string `json:"changed"`
	Removed   []string `json:"removed"`
	Unchanged int      `json:"unchanged"`
	// Affected holds added and changed artifacts plus everything downstream
	// of them: the statements to re-apply.
	Affected []string `json:"affected"`
}

// GenerateOutput is the JSON form of the generate command.
type GenerateOutput struct {
	RunID     string      `json:"run_id,omitempty"`
	OutputDir string      `json:"output_dir"`
	Artifacts int         `json:"artifacts"`
	Batches   int         `json:"batches"`
	Diff      *DiffOutput `json:"diff,omitempty"`
}

// RenderOutput is the JSON form of the render command.
type RenderOutput struct {
	File      string `json:"file"`
	BatchDate string `json:"batch_date"`
	SQL       string `json:"sql"`
}

// TableLoadOutput is the JSON form of the tableload command.
type TableLoadOutput struct {
	History   string   `json:"history"`
	BatchDate string   `json:"batch_date"`
	DDL       string   `json:"ddl"`
	Reset     string   `json:"reset"`
	Insert    string   `json:"insert"`
	Args      []string `json:"args,omitempty"`
}

// ColumnInfo is one column in introspect output.
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Position int    `json:"position"`
}

// IntrospectOutput is the JSON form of the introspect command.
type IntrospectOutput struct {
	Table      string       `json:"table"`
	Schema     string       `json:"schema"`
	Name       string       `json:"name"`
	LogicalKey []string     `json:"logical_key,omitempty"`
	Columns    []ColumnInfo `json:"columns"`
}

// ApplyOutput is the JSON form of the apply command.
type ApplyOutput struct {
	Target   string   `json:"target"`
	DryRun   bool     `json:"dry_run"`
	Executed []string `json:"executed"`
}

// RunInfo summarizes one recorded generation run.
type RunInfo struct {
	ID        string `json:"id"`
	StartedAt string `json:"started_at"`
	BatchDate string `json:"batch_date"`
	Dialect   string `json:"dialect"`
	Strategy  string `json:"strategy"`
	Artifacts int    `json:"artifacts"`
}

// HistoryOutput is the JSON form of the history command.
type HistoryOutput struct {
	Runs []RunInfo `json:"runs"`
}

// MacroFunction is one public macro function.
type MacroFunction struct {
	Signature string `json:"signature"`
	Doc       string `json:"doc,omitempty"`
	Line      int    `json:"line"`
}

// MacroNamespace is one macro file.
type MacroNamespace struct {
	Name      string          `json:"name"`
	File      string          `json:"file"`
	Functions []MacroFunction `json:"functions"`
}

// MacrosOutput is the JSON form of the macros command.
type MacrosOutput struct {
	Dir        string           `json:"dir"`
	Namespaces []MacroNamespace `json:"namespaces"`
}
