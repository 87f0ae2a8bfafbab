package rule

import (
	"fmt"
	"slices"
)

// 读写分离规则，一个主库和若干从库
type MasterSlaveRule struct {
	Name                 string   `yaml:"name"`
	MasterDataSourceName string   `yaml:"master_data_source_name"`
	SlaveDataSourceNames []string `yaml:"slave_data_source_names"`
}

func (r *MasterSlaveRule) Validate() (err error) {
	if r.Name == "" {
		err = fmt.Errorf("master slave rule name is required")
		return
	}
	if r.MasterDataSourceName == "" {
		err = fmt.Errorf("master data source is required,rule=%v", r.Name)
		return
	}
	if slices.Contains(r.SlaveDataSourceNames, r.MasterDataSourceName) {
		err = fmt.Errorf("master data source [%v] can't be a slave,rule=%v", r.MasterDataSourceName, r.Name)
		return
	}
	for i, slave := range r.SlaveDataSourceNames {
		if slave == "" {
			err = fmt.Errorf("empty slave data source name,rule=%v", r.Name)
			return
		}
		if slices.Contains(r.SlaveDataSourceNames[:i], slave) {
			err = fmt.Errorf("duplicate slave data source [%v],rule=%v", slave, r.Name)
			return
		}
	}
	return
}

func (r *MasterSlaveRule) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v(master=%v,slaves=%v)", r.Name, r.MasterDataSourceName, r.SlaveDataSourceNames)
}
