package adapter

import (
	"context"
	"fmt"

	"github.com/ninjasql/ninjasql/pkg/scd2"
)

// Introspect reads a live table's columns and builds its descriptor. The
// descriptor is named as given; logicalKey may be empty for tables that are
// only used as history targets.
func Introspect(ctx context.Context, a Adapter, table string, logicalKey ...string) (*scd2.TableDescriptor, *Metadata, error) {
	meta, err := a.GetTableMetadata(ctx, table)
	if err != nil {
		return nil, nil, err
	}
	desc, err := scd2.NewTableDescriptor(table, meta.ColumnNames(), logicalKey...)
	if err != nil {
		return nil, nil, fmt.Errorf("introspect %s: %w", table, err)
	}
	return desc, meta, nil
}
