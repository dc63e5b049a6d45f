package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cloudtodo/api/internal/model"
)

// DynamoAPI is the subset of the DynamoDB client used by the driver.
// Narrowing the dependency to these five calls keeps the driver testable
// against a fake.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// NewDynamoClient builds a DynamoDB client for the given region. A non-empty
// endpoint points the client at a local DynamoDB with static credentials.
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if endpoint != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// DynamoTodoRepository stores todo records in a single DynamoDB table keyed
// by id, with an ownerId/createdAt global secondary index serving
// newest-first owner-scoped listing.
type DynamoTodoRepository struct {
	client    DynamoAPI
	tableName string
	indexName string
}

func NewDynamoTodo(client DynamoAPI, tableName, indexName string) *DynamoTodoRepository {
	return &DynamoTodoRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
	}
}

func (r *DynamoTodoRepository) Insert(ctx context.Context, todo model.Todo) error {
	item, err := attributevalue.MarshalMap(todo)
	if err != nil {
		return fmt.Errorf("failed to marshal todo: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("id %s: %w", todo.ID, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert todo: %w", err)
	}

	return nil
}

func (r *DynamoTodoRepository) GetByID(ctx context.Context, id string) (model.Todo, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to get todo: %w", err)
	}
	if len(out.Item) == 0 {
		return model.Todo{}, ErrNotFound
	}

	var todo model.Todo
	if err := attributevalue.UnmarshalMap(out.Item, &todo); err != nil {
		return model.Todo{}, fmt.Errorf("failed to unmarshal todo: %w", err)
	}
	return todo, nil
}

// FindByIdempotencyKey scans the table for a record carrying the given key.
// The table has no index on idempotencyKey; a paged scan is the documented
// trade-off for a lookup that only runs on keyed creates.
func (r *DynamoTodoRepository) FindByIdempotencyKey(ctx context.Context, ownerID, key string) (model.Todo, error) {
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(r.tableName),
			FilterExpression: aws.String("ownerId = :owner AND idempotencyKey = :key"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":owner": &types.AttributeValueMemberS{Value: ownerID},
				":key":   &types.AttributeValueMemberS{Value: key},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return model.Todo{}, fmt.Errorf("failed to scan for idempotency key: %w", err)
		}

		if len(out.Items) > 0 {
			var todo model.Todo
			if err := attributevalue.UnmarshalMap(out.Items[0], &todo); err != nil {
				return model.Todo{}, fmt.Errorf("failed to unmarshal todo: %w", err)
			}
			return todo, nil
		}

		if out.LastEvaluatedKey == nil {
			return model.Todo{}, ErrNotFound
		}
		startKey = out.LastEvaluatedKey
	}
}

// Update replaces the stored record, requiring it to still exist at
// expectedVersion. The caller is responsible for having bumped todo.Version.
func (r *DynamoTodoRepository) Update(ctx context.Context, todo model.Todo, expectedVersion int64) error {
	item, err := attributevalue.MarshalMap(todo)
	if err != nil {
		return fmt.Errorf("failed to marshal todo: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(id) AND version = :expected"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("id %s at version %d: %w", todo.ID, expectedVersion, ErrVersionConflict)
		}
		return fmt.Errorf("failed to update todo: %w", err)
	}

	return nil
}

func (r *DynamoTodoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

func (r *DynamoTodoRepository) ListByOwner(ctx context.Context, params model.TodoListParams) (model.TodoListResult, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("ownerId = :owner"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: params.OwnerID},
		},
		// Newest first on the createdAt range key.
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(params.Limit)),
	}

	if params.PageToken != "" {
		cursor, err := decodeCursor(params.PageToken)
		if err != nil {
			return model.TodoListResult{}, err
		}
		in.ExclusiveStartKey = map[string]types.AttributeValue{
			"id":        &types.AttributeValueMemberS{Value: cursor.ID},
			"ownerId":   &types.AttributeValueMemberS{Value: cursor.OwnerID},
			"createdAt": &types.AttributeValueMemberS{Value: cursor.CreatedAt},
		}
	}

	out, err := r.client.Query(ctx, in)
	if err != nil {
		return model.TodoListResult{}, fmt.Errorf("failed to list todos: %w", err)
	}

	items := make([]model.Todo, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return model.TodoListResult{}, fmt.Errorf("failed to unmarshal todos: %w", err)
	}

	var nextToken string
	if out.LastEvaluatedKey != nil {
		cursor, err := cursorFromKey(out.LastEvaluatedKey)
		if err != nil {
			return model.TodoListResult{}, err
		}
		nextToken = encodeCursor(cursor)
	}

	return model.TodoListResult{
		Items:         items,
		NextPageToken: nextToken,
		Count:         len(items),
		Limit:         params.Limit,
		HasMore:       nextToken != "",
	}, nil
}

func (r *DynamoTodoRepository) Ping(ctx context.Context) error {
	_, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}
	return nil
}

func cursorFromKey(key map[string]types.AttributeValue) (pageCursor, error) {
	var c pageCursor
	if err := attributevalue.UnmarshalMap(key, &c); err != nil {
		return pageCursor{}, fmt.Errorf("failed to decode continuation key: %w", err)
	}
	return c, nil
}

// ensure compile-time interface compliance
var _ TodoRepository = (*DynamoTodoRepository)(nil)
