package rule

import (
	"testing"
)

func TestValidateMasterSlaveRule(t *testing.T) {
	valid := []*MasterSlaveRule{
		{Name: "ms_ds", MasterDataSourceName: "master_ds"},
		{Name: "ms_ds", MasterDataSourceName: "master_ds", SlaveDataSourceNames: []string{"slave_ds_0", "slave_ds_1"}},
	}
	for _, r := range valid {
		if err := r.Validate(); err != nil {
			t.Errorf("rule %v should be valid,err=%v", r, err.Error())
		}
	}

	invalid := []*MasterSlaveRule{
		{MasterDataSourceName: "master_ds"},
		{Name: "ms_ds"},
		{Name: "ms_ds", MasterDataSourceName: "master_ds", SlaveDataSourceNames: []string{"master_ds"}},
		{Name: "ms_ds", MasterDataSourceName: "master_ds", SlaveDataSourceNames: []string{"slave_ds_0", "slave_ds_0"}},
		{Name: "ms_ds", MasterDataSourceName: "master_ds", SlaveDataSourceNames: []string{""}},
	}
	for _, r := range invalid {
		if err := r.Validate(); err == nil {
			t.Errorf("rule %v should be invalid", r)
		}
	}
}

func TestNilRuleString(t *testing.T) {
	var r *MasterSlaveRule
	if r.String() != "<nil>" {
		t.Errorf("unexpected string %v", r.String())
	}
}
