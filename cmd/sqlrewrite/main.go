// Command sqlrewrite rewrites schema names in SQL statements to the schema names of
// the data sources configured for a master/slave rule.
//
//	sqlrewrite -config proxy.yaml "select * from user_db.orders"
//	echo "select * from user_db.orders" | sqlrewrite -config proxy.yaml -watch
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tsfans/ms-sql-rewrite/config"
	"github.com/tsfans/ms-sql-rewrite/metadata"
	"github.com/tsfans/ms-sql-rewrite/parser"
	"github.com/tsfans/ms-sql-rewrite/rewrite"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("sqlrewrite", flag.ContinueOnError)
	configPath := fs.String("config", "proxy.yaml", "path to the proxy config file")
	watch := fs.Bool("watch", false, "reload data sources when the config file changes")
	mongoTimeout := fs.Duration("mongo-timeout", 10*time.Second, "timeout for loading data sources from mongo")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config failed,err=[%v],path=[%v]", err.Error(), *configPath)
	}
	cfg.ApplyLogLevel()
	if *watch && cfg.MongoMetadata != nil {
		log.Warnf("-watch ignored,data sources come from mongo_metadata,path=[%v]", *configPath)
	}

	var metaData *metadata.MemoryMetaData
	if cfg.MongoMetadata != nil {
		metaData, err = loadMongoMetaData(cfg.MongoMetadata, *mongoTimeout)
	} else {
		metaData, err = metadata.NewMemoryMetaData(cfg.DataSources...)
	}
	if err != nil {
		return err
	}

	if *watch && cfg.MongoMetadata == nil {
		var watcher *metadata.Watcher
		watcher, err = metadata.NewWatcher(*configPath, metaData, cfg.DataSourceLoader())
		if err != nil {
			return err
		}
		if err = watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	statements := fs.Args()
	failed := 0
	handle := func(sql string) {
		result, err := rewriteSQL(cfg, metaData, sql)
		if err != nil {
			failed++
			log.Errorf("rewrite sql failed,err=[%v]", err)
			return
		}
		fmt.Fprintln(out, result)
	}
	if len(statements) > 0 {
		for _, sql := range statements {
			handle(sql)
		}
	} else {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			sql := strings.TrimSpace(scanner.Text())
			if sql == "" {
				continue
			}
			handle(sql)
		}
		if err = scanner.Err(); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%v statements failed to rewrite", failed)
	}
	return nil
}

func rewriteSQL(cfg *config.Config, metaData metadata.DataSourceMetaData, sql string) (string, error) {
	stmt, err := parser.NewMySQLStatementParser(sql).Parse()
	if err != nil {
		return "", err
	}
	engine := rewrite.NewMasterSlaveSQLRewriteEngine(&cfg.MasterSlaveRule, stmt.OriginalSQL(), stmt, metaData)
	return engine.Rewrite()
}

func loadMongoMetaData(mongoConfig *config.MongoConfig, timeout time.Duration) (*metadata.MemoryMetaData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := metadata.ConnectMongo(ctx, mongoConfig.URI)
	if err != nil {
		return nil, err
	}
	defer client.Disconnect(ctx)

	coll := client.Database(mongoConfig.Database).Collection(mongoConfig.Collection)
	dataSources, err := metadata.LoadMongo(ctx, coll)
	if err != nil {
		return nil, err
	}
	return metadata.NewMemoryMetaData(dataSources...)
}
