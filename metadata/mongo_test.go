package metadata

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestDecodeMongoDocument(t *testing.T) {
	doc, err := bson.Marshal(bson.D{
		{Key: "_id", Value: "65a0c1"},
		{Key: "name", Value: "User_DB"},
		{Key: "url", Value: "mongodb://mongo-0:27017/ds_mongo_0"},
	})
	if err != nil {
		t.Fatalf("marshal failed,err=%v", err.Error())
	}
	var ds DataSource
	err = bson.Unmarshal(doc, &ds)
	if err != nil {
		t.Fatalf("unmarshal failed,err=%v", err.Error())
	}

	metaData, err := NewMemoryMetaData(&ds)
	if err != nil {
		t.Fatalf("create metadata failed,err=%v", err.Error())
	}
	resolved, ok := metaData.DataSource("user_db")
	if !ok || resolved.Schema != "ds_mongo_0" || resolved.Host != "mongo-0" {
		t.Errorf("unexpected data source %v", resolved)
	}
}
