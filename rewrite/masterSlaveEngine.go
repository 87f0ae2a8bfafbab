package rewrite

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tsfans/ms-sql-rewrite/metadata"
	"github.com/tsfans/ms-sql-rewrite/parser"
	"github.com/tsfans/ms-sql-rewrite/rule"
)

// 读写分离SQL改写引擎，将库名改写为实际数据源的库名
type MasterSlaveSQLRewriteEngine struct {
	masterSlaveRule *rule.MasterSlaveRule
	originalSQL     string
	sqlTokens       []parser.Token
	metaData        metadata.DataSourceMetaData
}

func NewMasterSlaveSQLRewriteEngine(masterSlaveRule *rule.MasterSlaveRule, originalSQL string, sqlStatement Statement, metaData metadata.DataSourceMetaData) SQLRewriteEngine {
	engine := &MasterSlaveSQLRewriteEngine{
		masterSlaveRule: masterSlaveRule,
		originalSQL:     originalSQL,
		metaData:        metaData,
	}
	if sqlStatement != nil {
		engine.sqlTokens = sqlStatement.SQLTokens()
	}
	return engine
}

// Rewrite replaces every schema token span of originalSQL with the schema name of
// its data source. Other token spans are left as written.
func Rewrite(originalSQL string, tokens []parser.Token, masterSlaveRule *rule.MasterSlaveRule, metaData metadata.DataSourceMetaData) (string, error) {
	engine := &MasterSlaveSQLRewriteEngine{
		masterSlaveRule: masterSlaveRule,
		originalSQL:     originalSQL,
		sqlTokens:       tokens,
		metaData:        metaData,
	}
	return engine.Rewrite()
}

func (engine *MasterSlaveSQLRewriteEngine) Rewrite() (sql string, err error) {
	if len(engine.sqlTokens) == 0 {
		sql = engine.originalSQL
		return
	}

	builder, err := engine.build()
	if err != nil {
		log.Debugf("build sql failed,err=[%v],sql=[%v]", err.Error(), engine.originalSQL)
		return
	}
	log.Debugf("original sql=[%v],template=[%v]", engine.originalSQL, builder)

	return builder.ToSQL(engine.masterSlaveRule, engine.metaData)
}

// build splices the original SQL into literals and schema placeholders.
func (engine *MasterSlaveSQLRewriteEngine) build() (builder *SQLBuilder, err error) {
	var tokens []parser.Token
	tokens, err = sortByBeginPosition(engine.sqlTokens)
	if err != nil {
		return
	}

	builder = NewSQLBuilder()
	// cursor: end of the last replaced span; covered: end of the last token of any kind
	cursor, covered := 0, 0
	for _, each := range tokens {
		var end int
		end, err = engine.checkToken(each, covered)
		if err != nil {
			builder = nil
			return
		}
		covered = end

		switch token := each.(type) {
		case *parser.SchemaToken:
			builder.AppendLiterals(engine.originalSQL[cursor:token.Begin])
			builder.AppendPlaceholder(NewSchemaPlaceholder(strings.ToLower(token.SchemaName), ""))
			cursor = end
		case *parser.TableToken:
			// 表名由分片改写引擎处理，此处保留原文
		default:
			err = fmt.Errorf("unsupported token type=%T", token)
			builder = nil
			return
		}
	}
	builder.AppendLiterals(engine.originalSQL[cursor:])

	return
}

func (engine *MasterSlaveSQLRewriteEngine) checkToken(token parser.Token, covered int) (end int, err error) {
	begin := token.BeginPosition()
	end = begin + len(token.OriginalLiterals())
	switch {
	case begin < 0 || begin > len(engine.originalSQL):
		err = &MalformedTokenError{Token: token, Reason: fmt.Sprintf("begin position out of range [0,%v]", len(engine.originalSQL))}
	case end > len(engine.originalSQL):
		err = &MalformedTokenError{Token: token, Reason: fmt.Sprintf("end position %v out of range [0,%v]", end, len(engine.originalSQL))}
	case begin < covered:
		err = &MalformedTokenError{Token: token, Reason: fmt.Sprintf("overlaps previous token ending at %v", covered)}
	case engine.originalSQL[begin:end] != token.OriginalLiterals():
		err = &MalformedTokenError{Token: token, Reason: fmt.Sprintf("sql text is [%v]", engine.originalSQL[begin:end])}
	}
	return
}

// sortByBeginPosition returns a sorted copy; tokens sharing a begin position keep their order.
func sortByBeginPosition(tokens []parser.Token) (sorted []parser.Token, err error) {
	for _, each := range tokens {
		if each == nil {
			err = &MalformedTokenError{Reason: "nil token"}
			return
		}
	}
	sorted = slices.Clone(tokens)
	slices.SortStableFunc(sorted, func(a, b parser.Token) int {
		return cmp.Compare(a.BeginPosition(), b.BeginPosition())
	})
	return
}
