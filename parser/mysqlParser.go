package parser

import (
	"fmt"
	"slices"
	"strings"

	tiParser "github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/types/parser_driver"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
)

var (
	// 其后出现的 a.b 一定是 库名.表名
	tableContextWords = map[string]bool{
		"from": true, "join": true, "straight_join": true, "update": true, "into": true,
		"table": true, "tables": true, "using": true, "desc": true, "describe": true, "explain": true,
	}
	// SHOW ... FROM db, SHOW ... IN db, USE db
	schemaContextWords = map[string]bool{"from": true, "in": true, "use": true}
)

type MySQLStatementParser struct {
	sql    string
	parser *tiParser.Parser
	stmts  []ast.StmtNode
	names  *schemaCollector
}

func NewMySQLStatementParser(sql string) StatementParser {
	return &MySQLStatementParser{sql: sql, parser: tiParser.New(), names: newSchemaCollector()}
}

func (parser *MySQLStatementParser) Parse() (stmt *SQLStatement, err error) {
	err = parser.parse()
	if err != nil {
		err = fmt.Errorf("parse sql failed,err=[%v],sql=[%v]", err.Error(), parser.sql)
		return
	}

	schemas := maps.Keys(parser.names.schemas)
	slices.Sort(schemas)
	stmt = &SQLStatement{
		SQL:     parser.sql,
		Tokens:  parser.extractTokens(),
		Schemas: schemas,
	}
	log.Debugf("schemas=%v,tokens=%v", stmt.Schemas, stmt.Tokens)

	return
}

func (parser *MySQLStatementParser) parse() (err error) {
	log.Debugf("original sql is [%v]", parser.sql)

	parser.stmts, _, err = parser.parser.Parse(parser.sql, "", "")
	if err != nil {
		return
	}
	if len(parser.stmts) == 0 {
		err = fmt.Errorf("parse empty sql=%v", parser.sql)
		return
	}

	for _, stmt := range parser.stmts {
		stmt.Accept(parser.names)
	}

	return
}

// 在原始SQL中定位库名，只有语法树中出现过的库名才会生成标记
func (parser *MySQLStatementParser) extractTokens() (tokens []Token) {
	names := parser.names
	if len(names.schemas) == 0 {
		return
	}
	for _, chain := range scanIdentifierChains(parser.sql) {
		head := chain.idents[0]
		key := strings.ToLower(head.name)
		switch {
		case len(chain.idents) == 1:
			if names.bareSchemas[key] && schemaContextWords[chain.prev] {
				tokens = append(tokens, NewSchemaToken(head.begin, head.literals, head.name))
			}
			continue
		case !names.schemas[key]:
			continue
		case len(chain.idents) == 2 && names.tables[key] && !tableContextWords[chain.prev]:
			// table.column through a table name or alias spelled like a schema
			continue
		}
		table := chain.idents[1]
		tokens = append(tokens,
			NewSchemaToken(head.begin, head.literals, head.name),
			NewTableToken(table.begin, table.literals, table.name),
		)
	}
	return
}

// 收集语法树中的库名，以及未限定库名的表名和表别名
type schemaCollector struct {
	schemas map[string]bool
	// schema names written without a table: SHOW ... FROM db, USE db
	bareSchemas map[string]bool
	tables      map[string]bool
}

func newSchemaCollector() *schemaCollector {
	return &schemaCollector{schemas: map[string]bool{}, bareSchemas: map[string]bool{}, tables: map[string]bool{}}
}

func (c *schemaCollector) Enter(n ast.Node) (node ast.Node, skipChildren bool) {
	switch node := n.(type) {
	case *ast.TableName:
		if node.Schema.O != "" {
			c.schemas[node.Schema.L] = true
		} else {
			c.tables[node.Name.L] = true
		}
	case *ast.TableSource:
		if node.AsName.O != "" {
			c.tables[node.AsName.L] = true
		}
	case *ast.ColumnName:
		if node.Schema.O != "" {
			c.schemas[node.Schema.L] = true
		}
	case *ast.ShowStmt:
		c.addBareSchema(node.DBName)
	case *ast.UseStmt:
		c.addBareSchema(node.DBName)
	}
	return n, false
}

func (c *schemaCollector) addBareSchema(name string) {
	if name == "" {
		return
	}
	c.schemas[strings.ToLower(name)] = true
	c.bareSchemas[strings.ToLower(name)] = true
}

func (c *schemaCollector) Leave(n ast.Node) (node ast.Node, ok bool) {
	return n, true
}
