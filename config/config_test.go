package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var (
	CONFIG = `
log_level: debug
master_slave_rule:
  name: ms_ds
  master_data_source_name: master_ds
  slave_data_source_names: [slave_ds_0, slave_ds_1]
data_sources:
  - name: user_db
    url: root:pw@tcp(127.0.0.1:3306)/ds_master_0
  - name: order_db
    schema: ds_order
`
	MONGO_CONFIG = `
master_slave_rule:
  name: ms_ds
  master_data_source_name: master_ds
mongo_metadata:
  uri: mongodb://localhost:27017
  database: proxy
  collection: data_sources
`
	INVALID_CONFIGS = []string{
		"master_slave_rule: [",
		"log_level: loud\nmaster_slave_rule: {name: a, master_data_source_name: m}\ndata_sources: [{name: a, schema: b}]",
		"master_slave_rule: {name: a}\ndata_sources: [{name: a, schema: b}]",
		"master_slave_rule: {name: a, master_data_source_name: m}",
		"master_slave_rule: {name: a, master_data_source_name: m}\ndata_sources: [{name: a}]",
		"master_slave_rule: {name: a, master_data_source_name: m}\nmongo_metadata: {uri: 'mongodb://x'}",
	}
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy.yaml")
	if err := os.WriteFile(path, []byte(CONFIG), 0o644); err != nil {
		t.Fatalf("write failed,err=%v", err.Error())
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config failed,err=%v", err.Error())
	}
	if cfg.MasterSlaveRule.Name != "ms_ds" || len(cfg.MasterSlaveRule.SlaveDataSourceNames) != 2 {
		t.Errorf("unexpected rule %v", cfg.MasterSlaveRule)
	}
	if len(cfg.DataSources) != 2 || cfg.DataSources[1].Schema != "ds_order" {
		t.Errorf("unexpected data sources %v", cfg.DataSources)
	}

	dataSources, err := cfg.DataSourceLoader()(path)
	if err != nil || len(dataSources) != 2 {
		t.Errorf("load data sources failed,err=%v", err)
	}

	level := log.GetLevel()
	defer log.SetLevel(level)
	cfg.ApplyLogLevel()
	if log.GetLevel() != log.DebugLevel {
		t.Errorf("expected debug level,got %v", log.GetLevel())
	}
}

func TestParseMongoConfig(t *testing.T) {
	cfg, err := Parse([]byte(MONGO_CONFIG))
	if err != nil {
		t.Fatalf("parse config failed,err=%v", err.Error())
	}
	if cfg.MongoMetadata == nil || cfg.MongoMetadata.Collection != "data_sources" {
		t.Errorf("unexpected mongo config %v", cfg.MongoMetadata)
	}
}

func TestParseInvalidConfig(t *testing.T) {
	for _, data := range INVALID_CONFIGS {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("expected error for config [%v]", data)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestDataSourceLoaderWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy.yaml")
	if err := os.WriteFile(path, []byte(CONFIG), 0o644); err != nil {
		t.Fatalf("write failed,err=%v", err.Error())
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config failed,err=%v", err.Error())
	}
	loader := cfg.DataSourceLoader()
	hook := test.NewGlobal()
	defer hook.Reset()

	if _, err = loader(path); err != nil {
		t.Fatalf("reload failed,err=%v", err.Error())
	}
	if len(hook.AllEntries()) != 0 {
		t.Errorf("unchanged config should not warn,got %v", hook.AllEntries())
	}

	changed := strings.Replace(CONFIG, "log_level: debug", "log_level: info", 1)
	changed = strings.Replace(changed, "slave_ds_1]", "slave_ds_2]", 1)
	if err = os.WriteFile(path, []byte(changed), 0o644); err != nil {
		t.Fatalf("write failed,err=%v", err.Error())
	}
	dataSources, err := loader(path)
	if err != nil || len(dataSources) != 2 {
		t.Fatalf("reload failed,err=%v", err)
	}
	var ruleWarned, levelWarned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level != log.WarnLevel {
			continue
		}
		ruleWarned = ruleWarned || strings.HasPrefix(entry.Message, "master_slave_rule changed")
		levelWarned = levelWarned || strings.HasPrefix(entry.Message, "log_level changed")
	}
	if !ruleWarned || !levelWarned {
		t.Errorf("expected rule and log level warnings,got %v", hook.AllEntries())
	}
	if cfg.MasterSlaveRule.SlaveDataSourceNames[1] != "slave_ds_1" || cfg.LogLevel != "debug" {
		t.Errorf("running config should not change,got %v", cfg)
	}
}
