package parser

import "fmt"

// Token marks a region of the original SQL that a rewrite engine may need to replace.
// The set of implementations is closed: SchemaToken and TableToken.
type Token interface {
	// byte offset where OriginalLiterals starts in the original SQL
	BeginPosition() int
	OriginalLiterals() string
	token()
}

// 库名标记，e.g. user_db in `select * from user_db.orders`
type SchemaToken struct {
	Begin      int
	Literals   string
	SchemaName string
}

func NewSchemaToken(begin int, literals string, schemaName string) *SchemaToken {
	return &SchemaToken{Begin: begin, Literals: literals, SchemaName: schemaName}
}

func (t *SchemaToken) BeginPosition() int {
	return t.Begin
}

func (t *SchemaToken) OriginalLiterals() string {
	return t.Literals
}

func (t *SchemaToken) String() string {
	return fmt.Sprintf("SchemaToken(begin=%v,literals=%v,schema=%v)", t.Begin, t.Literals, t.SchemaName)
}

func (*SchemaToken) token() {}

// 表名标记，紧跟在库名之后的表名
type TableToken struct {
	Begin     int
	Literals  string
	TableName string
}

func NewTableToken(begin int, literals string, tableName string) *TableToken {
	return &TableToken{Begin: begin, Literals: literals, TableName: tableName}
}

func (t *TableToken) BeginPosition() int {
	return t.Begin
}

func (t *TableToken) OriginalLiterals() string {
	return t.Literals
}

func (t *TableToken) String() string {
	return fmt.Sprintf("TableToken(begin=%v,literals=%v,table=%v)", t.Begin, t.Literals, t.TableName)
}

func (*TableToken) token() {}

// SQLStatement is a parsed statement together with the tokens found in its text.
type SQLStatement struct {
	SQL     string
	Tokens  []Token
	Schemas []string
}

func (s *SQLStatement) OriginalSQL() string {
	return s.SQL
}

func (s *SQLStatement) SQLTokens() []Token {
	return s.Tokens
}
