package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	pkPrefix    = "STATE#"
	skValue     = "VALUE#"
	ttlDuration = 30 * 24 * time.Hour // state expires after 30 idle days
)

// dynamodbAPI is the minimal DynamoDB interface required by DynamoStore.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStore keeps widget state in a DynamoDB table, one item per key, for
// hosted deployments that cannot rely on a local file. The context methods
// carry the deadline; the Get/Put/Delete trio adapts them to the storage
// interface the widget components consume.
type DynamoStore struct {
	api       dynamodbAPI
	tableName string
	ctx       context.Context
}

// NewDynamo creates a DynamoStore over the given table. ctx bounds every
// storage call made through the non-context trio.
func NewDynamo(ctx context.Context, api dynamodbAPI, tableName string) (*DynamoStore, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &DynamoStore{api: api, tableName: tableName, ctx: ctx}, nil
}

// statePK returns the partition key for a state key.
func statePK(key string) string {
	return pkPrefix + key
}

// ttlValue returns a Unix timestamp 30 days in the future.
func ttlValue() int64 {
	return time.Now().Add(ttlDuration).Unix()
}

// Get returns the value stored under key, reporting whether it exists.
func (s *DynamoStore) Get(key string) ([]byte, bool, error) {
	out, err := s.api.GetItem(s.ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: statePK(key)},
			"SK": &types.AttributeValueMemberS{Value: skValue},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("repository: Get %q: %w", key, err)
	}
	if out == nil || len(out.Item) == 0 {
		return nil, false, nil
	}
	v, ok := out.Item["value"]
	if !ok {
		return nil, false, fmt.Errorf("repository: Get %q: missing value attribute", key)
	}
	b, ok := v.(*types.AttributeValueMemberB)
	if !ok {
		return nil, false, fmt.Errorf("repository: Get %q: value attribute is not binary", key)
	}
	return b.Value, true, nil
}

// Put stores value under key, replacing any previous value and refreshing
// the item TTL.
func (s *DynamoStore) Put(key string, value []byte) error {
	_, err := s.api.PutItem(s.ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"PK":    &types.AttributeValueMemberS{Value: statePK(key)},
			"SK":    &types.AttributeValueMemberS{Value: skValue},
			"value": &types.AttributeValueMemberB{Value: value},
			"ttl":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ttlValue())},
		},
	})
	if err != nil {
		return fmt.Errorf("repository: Put %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *DynamoStore) Delete(key string) error {
	_, err := s.api.DeleteItem(s.ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: statePK(key)},
			"SK": &types.AttributeValueMemberS{Value: skValue},
		},
	})
	if err != nil {
		return fmt.Errorf("repository: Delete %q: %w", key, err)
	}
	return nil
}
