package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	getOut        *dynamodb.GetItemOutput
	getErr        error
	putErr        error
	deleteErr     error
	lastGetInput  *dynamodb.GetItemInput
	lastPutInput  *dynamodb.PutItemInput
	lastDeleteIn  *dynamodb.DeleteItemInput
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.lastGetInput = in
	return f.getOut, f.getErr
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPutInput = in
	return &dynamodb.PutItemOutput{}, f.putErr
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.lastDeleteIn = in
	return &dynamodb.DeleteItemOutput{}, f.deleteErr
}

func mustNewDynamo(t *testing.T, db *fakeDynamo) *DynamoStore {
	t.Helper()
	s, err := NewDynamo(context.Background(), db, "test-table")
	require.NoError(t, err)
	return s
}

func TestNewDynamo_NilAPI(t *testing.T) {
	_, err := NewDynamo(context.Background(), nil, "test-table")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be nil")
}

func TestNewDynamo_EmptyTableName(t *testing.T) {
	_, err := NewDynamo(context.Background(), &fakeDynamo{}, " ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be empty")
}

func TestDynamoGet_HappyPath(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
		"PK":    &types.AttributeValueMemberS{Value: "STATE#loreal_theme"},
		"SK":    &types.AttributeValueMemberS{Value: skValue},
		"value": &types.AttributeValueMemberB{Value: []byte("warm")},
	}}}
	s := mustNewDynamo(t, db)

	v, ok, err := s.Get("loreal_theme")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("warm"), v)
	require.Equal(t, "STATE#loreal_theme", db.lastGetInput.Key["PK"].(*types.AttributeValueMemberS).Value)
	require.True(t, *db.lastGetInput.ConsistentRead)
}

func TestDynamoGet_MissingItem(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{}}
	s := mustNewDynamo(t, db)

	_, ok, err := s.Get("loreal_theme")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDynamoGet_APIError(t *testing.T) {
	db := &fakeDynamo{getErr: errors.New("ResourceNotFoundException")}
	s := mustNewDynamo(t, db)

	_, _, err := s.Get("loreal_theme")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Get")
}

func TestDynamoGet_MalformedValueAttribute(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
		"PK":    &types.AttributeValueMemberS{Value: "STATE#k"},
		"SK":    &types.AttributeValueMemberS{Value: skValue},
		"value": &types.AttributeValueMemberS{Value: "not-binary"},
	}}}
	s := mustNewDynamo(t, db)

	_, _, err := s.Get("k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not binary")
}

func TestDynamoPut_WritesItemWithTTL(t *testing.T) {
	db := &fakeDynamo{}
	s := mustNewDynamo(t, db)

	require.NoError(t, s.Put("loreal_chat_history_v1", []byte(`[]`)))
	require.Equal(t, "STATE#loreal_chat_history_v1", db.lastPutInput.Item["PK"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, []byte(`[]`), db.lastPutInput.Item["value"].(*types.AttributeValueMemberB).Value)
	require.NotEmpty(t, db.lastPutInput.Item["ttl"].(*types.AttributeValueMemberN).Value)
}

func TestDynamoPut_APIError(t *testing.T) {
	db := &fakeDynamo{putErr: errors.New("ProvisionedThroughputExceededException")}
	s := mustNewDynamo(t, db)

	err := s.Put("k", []byte("v"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Put")
}

func TestDynamoDelete_HappyPath(t *testing.T) {
	db := &fakeDynamo{}
	s := mustNewDynamo(t, db)

	require.NoError(t, s.Delete("loreal_chat_history_v1"))
	require.Equal(t, "STATE#loreal_chat_history_v1", db.lastDeleteIn.Key["PK"].(*types.AttributeValueMemberS).Value)
}

func TestDynamoDelete_APIError(t *testing.T) {
	db := &fakeDynamo{deleteErr: errors.New("internal server error")}
	s := mustNewDynamo(t, db)

	err := s.Delete("k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Delete")
}
