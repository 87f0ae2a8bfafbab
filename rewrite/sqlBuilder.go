package rewrite

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tsfans/ms-sql-rewrite/metadata"
	"github.com/tsfans/ms-sql-rewrite/rule"
)

// 原始SQL文本或占位符，placeholder为nil时为文本
type segment struct {
	literals    string
	placeholder Placeholder
}

// SQLBuilder collects literal text and placeholders in output order. ToSQL
// resolves the placeholders and can be called only once.
type SQLBuilder struct {
	segments []segment
	consumed bool
}

func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{}
}

func (b *SQLBuilder) AppendLiterals(literals string) {
	b.segments = append(b.segments, segment{literals: literals})
}

func (b *SQLBuilder) AppendPlaceholder(placeholder Placeholder) {
	b.segments = append(b.segments, segment{placeholder: placeholder})
}

func (b *SQLBuilder) String() string {
	var result strings.Builder
	for _, each := range b.segments {
		if each.placeholder == nil {
			result.WriteString(each.literals)
		} else {
			result.WriteString(each.placeholder.String())
		}
	}
	return result.String()
}

// ToSQL resolves every placeholder against metaData in segment order. The rule is
// carried for logging only; schema resolution does not depend on master/slave choice.
func (b *SQLBuilder) ToSQL(masterSlaveRule *rule.MasterSlaveRule, metaData metadata.DataSourceMetaData) (sql string, err error) {
	if b.consumed {
		err = ErrBuilderConsumed
		return
	}
	b.consumed = true
	segments := b.segments
	b.segments = nil

	var result strings.Builder
	for _, each := range segments {
		if each.placeholder == nil {
			result.WriteString(each.literals)
			continue
		}
		switch placeholder := each.placeholder.(type) {
		case *SchemaPlaceholder:
			var text string
			text, err = placeholder.resolve(metaData)
			if err != nil {
				return
			}
			result.WriteString(text)
		default:
			err = fmt.Errorf("unsupported placeholder type=%T", placeholder)
			return
		}
	}
	sql = result.String()
	log.Debugf("rule=%v,rewritten sql=[%v]", masterSlaveRule, sql)

	return
}
