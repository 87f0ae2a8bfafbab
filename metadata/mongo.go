package metadata

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongo(ctx context.Context, uri string) (client *mongo.Client, err error) {
	client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		err = fmt.Errorf("connect mongo failed,err=[%v]", err.Error())
		return
	}
	err = client.Ping(ctx, nil)
	if err != nil {
		_ = client.Disconnect(ctx)
		client = nil
		err = fmt.Errorf("ping mongo failed,err=[%v]", err.Error())
	}
	return
}

// LoadMongo reads every document of coll as a DataSource, sorted by name.
func LoadMongo(ctx context.Context, coll *mongo.Collection) (dataSources []*DataSource, err error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		err = fmt.Errorf("find data sources failed,err=[%v],collection=[%v]", err.Error(), coll.Name())
		return
	}
	err = cursor.All(ctx, &dataSources)
	if err != nil {
		err = fmt.Errorf("decode data sources failed,err=[%v],collection=[%v]", err.Error(), coll.Name())
		return
	}
	log.Debugf("loaded %v data sources from mongo collection=%v", len(dataSources), coll.Name())
	return
}
