package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var (
	CONFIG = `
master_slave_rule:
  name: ms_ds
  master_data_source_name: master_ds
  slave_data_source_names: [slave_ds_0]
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
  uri: mongodb://127.0.0.1:1
  database: proxy
  collection: data_sources
`
)

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "proxy.yaml")
	if err := os.WriteFile(path, []byte(CONFIG), 0o644); err != nil {
		t.Fatalf("write failed,err=%v", err.Error())
	}
	return path
}

func TestRunWithArgs(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{
		"-config", writeConfig(t),
		"select * from user_db.orders where id=1",
		"update `ORDER_DB`.orders set paid = 1",
	}, strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("run failed,err=%v", err.Error())
	}
	expected := "select * from ds_master_0.orders where id=1\nupdate `ds_order`.orders set paid = 1\n"
	if out.String() != expected {
		t.Errorf("expected [%v],got [%v]", expected, out.String())
	}
}

func TestRunWithStdin(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("select 1\n\nselect * from missing_db.t\nselect * from order_db.t\n")
	err := run([]string{"-config", writeConfig(t)}, in, &out)
	if err == nil {
		t.Errorf("expected error for missing schema")
	}
	expected := "select 1\nselect * from ds_order.t\n"
	if out.String() != expected {
		t.Errorf("expected [%v],got [%v]", expected, out.String())
	}
}

func TestRunMissingConfig(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml"), "select 1"}, strings.NewReader(""), &out)
	if err == nil {
		t.Errorf("expected error for missing config")
	}
}

func TestRunWatchWithMongoWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy.yaml")
	if err := os.WriteFile(path, []byte(MONGO_CONFIG), 0o644); err != nil {
		t.Fatalf("write failed,err=%v", err.Error())
	}
	hook := test.NewGlobal()
	defer hook.Reset()

	var out bytes.Buffer
	err := run([]string{"-config", path, "-watch", "-mongo-timeout", "200ms", "select 1"}, strings.NewReader(""), &out)
	if err == nil {
		t.Errorf("expected error for unreachable mongo")
	}
	warned := false
	for _, entry := range hook.AllEntries() {
		if entry.Level == log.WarnLevel && strings.HasPrefix(entry.Message, "-watch ignored") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected -watch warning,got %v", hook.AllEntries())
	}
}
