package kvstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore 基于Firestore的存储，每个键对应集合中的一个文档
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStore 创建Firestore存储
func NewFirestoreStore(config Config) (Store, error) {
	if config.ProjectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore store")
	}
	collection := config.Collection
	if collection == "" {
		collection = "dashboard"
	}

	client, err := firestore.NewClient(context.Background(), config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreStore{client: client, collection: collection}, nil
}

// Get 读取值
func (f *FirestoreStore) Get(ctx context.Context, key string) (string, bool, error) {
	snap, err := f.client.Collection(f.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	raw, err := snap.DataAt("value")
	if err != nil {
		return "", false, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", false, nil
	}
	return value, true, nil
}

// Set 覆盖写入值
func (f *FirestoreStore) Set(ctx context.Context, key string, value string) error {
	_, err := f.client.Collection(f.collection).Doc(key).Set(ctx, map[string]interface{}{
		"value":     value,
		"updatedAt": time.Now(),
	})
	return err
}

// Delete 删除键
func (f *FirestoreStore) Delete(ctx context.Context, key string) error {
	_, err := f.client.Collection(f.collection).Doc(key).Delete(ctx)
	return err
}

// Close 关闭Firestore客户端
func (f *FirestoreStore) Close() error {
	return f.client.Close()
}

func init() {
	Register("firestore", NewFirestoreStore)
}
