package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/orceu/orceu-api-saas/pkg/orcamento/parser"
)

// DynamoAPI is the part of the DynamoDB client the store uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoConfig configures the DynamoDB client.
type DynamoConfig struct {
	Region string
	// Endpoint overrides the service URL, e.g. http://localhost:8000 for
	// DynamoDB Local.
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// NewDynamoClient creates a DynamoDB client. Static credentials are used
// when both keys are set; otherwise the default AWS credential chain applies.
func NewDynamoClient(ctx context.Context, cfg DynamoConfig) (*dynamodb.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// recordItem is the DynamoDB shape of a Record. The estimate tree is kept
// as a JSON document in a string attribute.
type recordItem struct {
	ImportID  string       `dynamodbav:"import_id"`
	TenantID  string       `dynamodbav:"tenant_id,omitempty"`
	Kind      string       `dynamodbav:"kind"`
	FileName  string       `dynamodbav:"file_name"`
	SheetName string       `dynamodbav:"sheet_name,omitempty"`
	Estimate  string       `dynamodbav:"estimate_json,omitempty"`
	Stats     parser.Stats `dynamodbav:"stats"`
	CreatedAt string       `dynamodbav:"created_at"`
}

// DynamoStore persists records in a DynamoDB table with partition key
// import_id (string).
type DynamoStore struct {
	ddb       DynamoAPI
	tableName string
}

var _ Store = (*DynamoStore)(nil)

// NewDynamoStore creates a store on the given table.
func NewDynamoStore(ddb DynamoAPI, tableName string) *DynamoStore {
	return &DynamoStore{ddb: ddb, tableName: tableName}
}

// Put writes rec unless a record with the same id exists.
func (s *DynamoStore) Put(ctx context.Context, rec *Record) error {
	est, err := encodeEstimate(rec.Estimate)
	if err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(recordItem{
		ImportID:  rec.ImportID,
		TenantID:  rec.TenantID,
		Kind:      rec.Kind,
		FileName:  rec.FileName,
		SheetName: rec.SheetName,
		Estimate:  string(est),
		Stats:     rec.Stats,
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "import_id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

// Get reads the record with the given id.
func (s *DynamoStore) Get(ctx context.Context, importID string) (*Record, error) {
	out, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"import_id": &types.AttributeValueMemberS{Value: importID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var it recordItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}

	est, err := decodeEstimate([]byte(it.Estimate))
	if err != nil {
		return nil, err
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)

	return &Record{
		ImportID:  it.ImportID,
		TenantID:  it.TenantID,
		Kind:      it.Kind,
		FileName:  it.FileName,
		SheetName: it.SheetName,
		Estimate:  est,
		Stats:     it.Stats,
		CreatedAt: createdAt,
	}, nil
}
