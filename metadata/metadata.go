package metadata

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
)

// 数据源元数据，提供库名到物理数据源的映射
type DataSourceMetaData interface {
	// schemaName不区分大小写
	DataSource(schemaName string) (*DataSource, bool)
	SchemaNames() []string
}

// DataSource describes the physical data source a logical schema name is routed to.
// Schema is the name substituted into rewritten SQL; it is taken from URL when empty.
type DataSource struct {
	Name   string `yaml:"name" bson:"name"`
	URL    string `yaml:"url,omitempty" bson:"url,omitempty"`
	Schema string `yaml:"schema,omitempty" bson:"schema,omitempty"`
	Host   string `yaml:"host,omitempty" bson:"host,omitempty"`
	Port   string `yaml:"port,omitempty" bson:"port,omitempty"`
}

func (ds DataSource) String() string {
	return fmt.Sprintf("%v(%v:%v/%v)", ds.Name, ds.Host, ds.Port, ds.Schema)
}

// MemoryMetaData is a DataSourceMetaData held in memory. It is safe for concurrent
// use and can be replaced wholesale with Reload.
type MemoryMetaData struct {
	mu          sync.RWMutex
	dataSources map[string]*DataSource
}

func NewMemoryMetaData(dataSources ...*DataSource) (metaData *MemoryMetaData, err error) {
	metaData = &MemoryMetaData{dataSources: map[string]*DataSource{}}
	err = metaData.Reload(dataSources)
	if err != nil {
		metaData = nil
	}
	return
}

// Reload replaces all data sources. On error the previous data sources are kept.
func (m *MemoryMetaData) Reload(dataSources []*DataSource) (err error) {
	built := make(map[string]*DataSource, len(dataSources))
	for _, each := range dataSources {
		var ds *DataSource
		ds, err = normalize(each)
		if err != nil {
			return
		}
		key := strings.ToLower(ds.Name)
		if _, ok := built[key]; ok {
			err = fmt.Errorf("duplicate data source name=%v", ds.Name)
			return
		}
		built[key] = ds
	}

	m.mu.Lock()
	m.dataSources = built
	m.mu.Unlock()
	log.Debugf("data sources reloaded,schemas=%v", maps.Keys(built))

	return
}

func (m *MemoryMetaData) DataSource(schemaName string) (ds *DataSource, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ds, ok = m.dataSources[strings.ToLower(schemaName)]
	return
}

func (m *MemoryMetaData) SchemaNames() (names []string) {
	m.mu.RLock()
	names = maps.Keys(m.dataSources)
	m.mu.RUnlock()
	slices.Sort(names)
	return
}

func normalize(source *DataSource) (ds *DataSource, err error) {
	if source == nil {
		err = fmt.Errorf("nil data source")
		return
	}
	if source.Name == "" {
		err = fmt.Errorf("data source name is required,data source=%v", *source)
		return
	}
	copied := *source
	ds = &copied
	if ds.URL != "" {
		var info URLInfo
		info, err = ParseURL(ds.URL)
		if err != nil {
			err = fmt.Errorf("invalid data source url,err=[%v],name=[%v]", err.Error(), ds.Name)
			return
		}
		if ds.Schema == "" {
			ds.Schema = info.Schema
		}
		if ds.Host == "" {
			ds.Host = info.Host
		}
		if ds.Port == "" {
			ds.Port = info.Port
		}
	}
	if ds.Schema == "" {
		err = fmt.Errorf("data source [%v] has no schema", ds.Name)
	}
	return
}
