package store

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	items  map[string]map[string]types.AttributeValue
	tables []string
	err    error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tables = append(f.tables, aws.ToString(in.TableName))

	id := in.Item["import_id"].(*types.AttributeValueMemberS).Value
	if _, ok := f.items[id]; ok && in.ConditionExpression != nil {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")}
	}
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := in.Key["import_id"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[id]}, nil
}

func TestDynamoStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDynamo()
	s := NewDynamoStore(ddb, "estimate_imports")
	rec := sampleRecord("d1")

	require.NoError(t, s.Put(ctx, rec))
	assert.Equal(t, []string{"estimate_imports"}, ddb.tables)

	item := ddb.items["d1"]
	_, ok := item["estimate_json"].(*types.AttributeValueMemberS)
	assert.True(t, ok, "estimate stored as a JSON string")

	got, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assertRoundTrip(t, rec, got)
}

func TestDynamoStoreDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewDynamoStore(newFakeDynamo(), "t")

	require.NoError(t, s.Put(ctx, sampleRecord("d1")))
	assert.ErrorIs(t, s.Put(ctx, sampleRecord("d1")), ErrAlreadyExists)
}

func TestDynamoStoreNotFound(t *testing.T) {
	_, err := NewDynamoStore(newFakeDynamo(), "t").Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDynamoStoreWithoutEstimate(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDynamo()
	s := NewDynamoStore(ddb, "t")

	rec := sampleRecord("m1")
	rec.Kind = KindMarkdown
	rec.Estimate = nil
	require.NoError(t, s.Put(ctx, rec))

	_, ok := ddb.items["m1"]["estimate_json"]
	assert.False(t, ok)

	got, err := s.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, got.Estimate)
	assert.Equal(t, KindMarkdown, got.Kind)
}

func TestDynamoStoreClientError(t *testing.T) {
	ddb := newFakeDynamo()
	ddb.err = errors.New("throttled")
	s := NewDynamoStore(ddb, "t")

	err := s.Put(context.Background(), sampleRecord("x"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyExists)

	_, err = s.Get(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
