package config

// Default configuration values.
const (
	DefaultOutputDir    = "build"
	DefaultStatePath    = ".ninjasql/state.db"
	DefaultStrategy     = "templated"
	DefaultControlTable = "tableloads"
	DefaultBinding      = "dialect"
	DefaultOutput       = "auto"
	DefaultMacrosDir    = "macros"

	DefaultStagingPrefix = "STG_"
	DefaultHistoryPrefix = "PERS_STG_"
)

// defaults returns the lowest-precedence configuration layer.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"output_dir":         DefaultOutputDir,
		"state_path":         DefaultStatePath,
		"staging.prefix":     DefaultStagingPrefix,
		"history.prefix":     DefaultHistoryPrefix,
		"scd2.strategy":      DefaultStrategy,
		"scd2.control_table": DefaultControlTable,
		"render.binding":     DefaultBinding,
		"render.macros_dir":  DefaultMacrosDir,
		"verbose":            false,
		"output":             DefaultOutput,
	}
}
