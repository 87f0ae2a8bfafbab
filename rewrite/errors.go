package rewrite

import (
	"errors"
	"fmt"

	"github.com/tsfans/ms-sql-rewrite/parser"
)

var ErrBuilderConsumed = errors.New("sql builder already consumed")

// SchemaNotFoundError is returned when a schema placeholder has no data source.
type SchemaNotFoundError struct {
	SchemaName string
	Known      []string
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("schema [%v] not found in data source metadata,valid schemas=%v", e.SchemaName, e.Known)
}

// MalformedTokenError is returned when a token span does not fit the original SQL
// or overlaps an earlier token.
type MalformedTokenError struct {
	Token  parser.Token
	Reason string
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("malformed token %v: %v", e.Token, e.Reason)
}
