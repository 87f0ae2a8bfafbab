package metadata

import (
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// 从数据源连接串中解析出的信息
type URLInfo struct {
	Host   string
	Port   string
	Schema string
}

// ParseURL accepts a MySQL DSN (user:pw@tcp(host:port)/db), a postgres:// URL
// or a mongodb:// URL.
func ParseURL(url string) (info URLInfo, err error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return parsePostgresURL(url)
	case strings.HasPrefix(url, "mongodb://"):
		return parseMongoURL(url)
	case strings.Contains(url, "://"):
		err = fmt.Errorf("unsupported url scheme,url=%v", url)
		return
	}
	return parseMySQLDSN(url)
}

func parseMySQLDSN(dsn string) (info URLInfo, err error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return
	}
	info.Schema = cfg.DBName
	if cfg.Net == "unix" {
		info.Host = cfg.Addr
		return
	}
	info.Host, info.Port = splitHostPort(cfg.Addr)
	return
}

func parsePostgresURL(url string) (info URLInfo, err error) {
	conn, err := pq.ParseURL(url)
	if err != nil {
		return
	}
	// conn looks like: dbname='ds' host='localhost' port='5432'
	for _, kv := range strings.Fields(conn) {
		k, v, _ := strings.Cut(kv, "=")
		v = strings.Trim(v, "'")
		switch k {
		case "host":
			info.Host = v
		case "port":
			info.Port = v
		case "dbname":
			info.Schema = v
		}
	}
	return
}

func parseMongoURL(url string) (info URLInfo, err error) {
	cs, err := connstring.ParseAndValidate(url)
	if err != nil {
		return
	}
	info.Schema = cs.Database
	if len(cs.Hosts) > 0 {
		info.Host, info.Port = splitHostPort(cs.Hosts[0])
	}
	return
}

func splitHostPort(addr string) (host, port string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, ""
	}
	return
}
