package rewrite

import (
	"fmt"

	"github.com/tsfans/ms-sql-rewrite/metadata"
)

// Placeholder is a builder segment whose text is only known at ToSQL time.
type Placeholder interface {
	fmt.Stringer
	placeholder()
}

// 库名占位符，LogicSchemaName已转为小写；Alias目前始终为空
type SchemaPlaceholder struct {
	LogicSchemaName string
	Alias           string
}

func NewSchemaPlaceholder(logicSchemaName string, alias string) *SchemaPlaceholder {
	return &SchemaPlaceholder{LogicSchemaName: logicSchemaName, Alias: alias}
}

func (p *SchemaPlaceholder) String() string {
	if p.Alias != "" {
		return fmt.Sprintf("${schema:%v as %v}", p.LogicSchemaName, p.Alias)
	}
	return fmt.Sprintf("${schema:%v}", p.LogicSchemaName)
}

func (*SchemaPlaceholder) placeholder() {}

func (p *SchemaPlaceholder) resolve(metaData metadata.DataSourceMetaData) (text string, err error) {
	if metaData == nil {
		err = &SchemaNotFoundError{SchemaName: p.LogicSchemaName}
		return
	}
	ds, ok := metaData.DataSource(p.LogicSchemaName)
	if !ok {
		err = &SchemaNotFoundError{SchemaName: p.LogicSchemaName, Known: metaData.SchemaNames()}
		return
	}
	text = ds.Schema
	return
}
