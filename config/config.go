package config

import (
	"fmt"
	"os"
	"slices"

	log "github.com/sirupsen/logrus"
	"github.com/tsfans/ms-sql-rewrite/metadata"
	"github.com/tsfans/ms-sql-rewrite/rule"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel        string                 `yaml:"log_level"`
	MasterSlaveRule rule.MasterSlaveRule   `yaml:"master_slave_rule"`
	DataSources     []*metadata.DataSource `yaml:"data_sources"`
	MongoMetadata   *MongoConfig           `yaml:"mongo_metadata,omitempty"`
}

// 从MongoDB集合加载数据源
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (cfg *Config, err error) {
	cfg = &Config{}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = fmt.Errorf("parse config failed,err=[%v]", err.Error())
		return nil, err
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return
}

func (cfg *Config) Validate() (err error) {
	if cfg.LogLevel != "" {
		if _, err = log.ParseLevel(cfg.LogLevel); err != nil {
			return
		}
	}
	err = cfg.MasterSlaveRule.Validate()
	if err != nil {
		return
	}
	if cfg.MongoMetadata != nil {
		m := cfg.MongoMetadata
		if m.URI == "" || m.Database == "" || m.Collection == "" {
			err = fmt.Errorf("mongo_metadata needs uri, database and collection")
			return
		}
		return
	}
	if len(cfg.DataSources) == 0 {
		err = fmt.Errorf("no data sources configured")
		return
	}
	// NewMemoryMetaData checks names, urls and duplicates
	_, err = metadata.NewMemoryMetaData(cfg.DataSources...)
	return
}

// ApplyLogLevel sets the logrus level; an empty level keeps the current one.
func (cfg *Config) ApplyLogLevel() {
	if cfg.LogLevel == "" {
		return
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return
	}
	log.SetLevel(level)
}

// DataSourceLoader returns the metadata.Loader used for hot reload. Only the
// data sources of the reloaded file take effect; a changed master_slave_rule or
// log_level is logged and ignored until restart.
func (cfg *Config) DataSourceLoader() metadata.Loader {
	return func(path string) ([]*metadata.DataSource, error) {
		reloaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		if !sameRule(&cfg.MasterSlaveRule, &reloaded.MasterSlaveRule) {
			log.Warnf("master_slave_rule changed,only data_sources are reloaded,restart to apply,rule=[%v],path=[%v]", reloaded.MasterSlaveRule.String(), path)
		}
		if reloaded.LogLevel != cfg.LogLevel {
			log.Warnf("log_level changed,only data_sources are reloaded,restart to apply,level=[%v],path=[%v]", reloaded.LogLevel, path)
		}
		if reloaded.MongoMetadata != nil {
			log.Warnf("mongo_metadata is not watched,only data_sources are reloaded,path=[%v]", path)
		}
		return reloaded.DataSources, nil
	}
}

func sameRule(a, b *rule.MasterSlaveRule) bool {
	return a.Name == b.Name &&
		a.MasterDataSourceName == b.MasterDataSourceName &&
		slices.Equal(a.SlaveDataSourceNames, b.SlaveDataSourceNames)
}
