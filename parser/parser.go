package parser

// SQL解析器，包含：语法树解析、语法校验、改写标记提取
type StatementParser interface {
	// 返回带改写标记的SQL语句
	Parse() (*SQLStatement, error)
}

// 代表一个SQL对象
type SQL interface {
	// 获取原始SQL
	OriginalSQL() string
}
