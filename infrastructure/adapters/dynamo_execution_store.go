package adapters

import (
	"context"
	"time"

	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/config"
	"github.com/Natasha24s/AIStoryTeller/domain"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
)

type dynamoExecutionItem struct {
	domain.ExecutionRecord
	TTL int64 `dynamodbav:"ttl"`
}

type dynamoExecutionStore struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

func NewDynamoExecutionStore(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB,
	dynamoConfig *config.DynamoConfig) outbound.ExecutionStorePort {
	return &dynamoExecutionStore{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (s *dynamoExecutionStore) Create(ctx context.Context, record *domain.ExecutionRecord) error {
	return s.put(ctx, record)
}

func (s *dynamoExecutionStore) Update(ctx context.Context, record *domain.ExecutionRecord) error {
	return s.put(ctx, record)
}

func (s *dynamoExecutionStore) put(ctx context.Context, record *domain.ExecutionRecord) error {
	item := dynamoExecutionItem{
		ExecutionRecord: *record,
		TTL:             time.Now().Add(time.Duration(s.dynamoConfig.TtlMinutes) * time.Minute).Unix(),
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to marshal execution record", map[string]interface{}{
			"execution_id": record.ExecutionID,
		})
		return err
	}

	input := &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(s.dynamoConfig.TableName),
	}

	_, err = s.dynamoSvc.PutItemWithContext(ctx, input)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to save execution record", map[string]interface{}{
			"execution_id": record.ExecutionID,
		})
		return err
	}

	return nil
}

func (s *dynamoExecutionStore) Get(ctx context.Context, executionID string) (*domain.ExecutionRecord, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.dynamoConfig.TableName),
		Key: map[string]*dynamodb.AttributeValue{
			"execution_id": {S: aws.String(executionID)},
		},
		ConsistentRead: aws.Bool(true),
	}

	res, err := s.dynamoSvc.GetItemWithContext(ctx, input)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to get execution record", map[string]interface{}{
			"execution_id": executionID,
		})
		return nil, err
	}

	if len(res.Item) == 0 {
		return nil, domain.ErrExecutionNotFound
	}

	var item dynamoExecutionItem
	if err := dynamodbattribute.UnmarshalMap(res.Item, &item); err != nil {
		s.logger.ErrorWithFields(err, "Failed to unmarshal execution record", map[string]interface{}{
			"execution_id": executionID,
		})
		return nil, err
	}

	record := item.ExecutionRecord
	return &record, nil
}
