package rewrite

import "github.com/tsfans/ms-sql-rewrite/parser"

// SQL改写引擎
type SQLRewriteEngine interface {
	// 返回改写后的SQL
	Rewrite() (string, error)
}

// 提供改写标记的SQL语句
type Statement interface {
	SQLTokens() []parser.Token
}
