package trips

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Fideloin/carrier-bot/core/logger"
	"log/slog"
)

// DynamoAPI is the subset of the DynamoDB client the store uses; tests
// substitute a fake.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoConfig names the trips table and its two search indexes.
type DynamoConfig struct {
	Table        string
	BelarusIndex string
	SpainIndex   string
}

// DynamoStore implements Store on a DynamoDB table with primary key
// (user_id, trip_id) and one GSI per destination date, each keyed by
// (dummy_partition_key, date).
type DynamoStore struct {
	client DynamoAPI
	cfg    DynamoConfig
}

// NewDynamoStore creates a store over an existing client.
func NewDynamoStore(client DynamoAPI, cfg DynamoConfig) *DynamoStore {
	return &DynamoStore{client: client, cfg: cfg}
}

// NewDynamoClient builds a DynamoDB client from the ambient AWS environment.
func NewDynamoClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg), nil
}

// Save upserts the record and stamps the search shard key.
func (s *DynamoStore) Save(ctx context.Context, trip Trip) error {
	trip.ShardKey = searchShardKey
	item, err := attributevalue.MarshalMap(trip)
	if err != nil {
		return unavailable("save", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.cfg.Table),
		Item:      item,
	})
	if err != nil {
		s.logErr(ctx, "save", err, slog.Int64("user_id", trip.OwnerID))
		return unavailable("save", err)
	}
	return nil
}

// Delete removes one record; absent records are a no-op because DeleteItem
// without a condition expression succeeds regardless.
func (s *DynamoStore) Delete(ctx context.Context, ownerID int64, tripID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.cfg.Table),
		Key:       tripKey(ownerID, tripID),
	})
	if err != nil {
		s.logErr(ctx, "delete", err, slog.Int64("user_id", ownerID), slog.String("trip_id", tripID))
		return unavailable("delete", err)
	}
	return nil
}

// ListByOwner queries the primary key with a consistent read so a listing
// immediately after Save observes the new record.
func (s *DynamoStore) ListByOwner(ctx context.Context, ownerID int64) ([]Trip, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.cfg.Table),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": numberAttr(ownerID),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		s.logErr(ctx, "list_by_owner", err, slog.Int64("user_id", ownerID))
		return nil, unavailable("list_by_owner", err)
	}
	return unmarshalTrips(out.Items)
}

// SearchByMonth queries the destination's GSI for the calendar month. Key
// conditions cannot combine >= with <, so the half-open month range is
// expressed as BETWEEN first..last day, which is equivalent for
// YYYY-MM-DD-formatted values. GSI reads are eventually consistent; a just
// saved trip may trail the search by a moment.
func (s *DynamoStore) SearchByMonth(ctx context.Context, dst Destination, year, month int) ([]Trip, error) {
	index, dateAttr := s.cfg.BelarusIndex, "to_belarus_date"
	if dst == DestinationSpain {
		index, dateAttr = s.cfg.SpainIndex, "to_spain_date"
	}
	first, last := MonthRange(year, month)

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.cfg.Table),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("dummy_partition_key = :shard AND #d BETWEEN :from AND :to"),
		ExpressionAttributeNames: map[string]string{
			"#d": dateAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":shard": &types.AttributeValueMemberS{Value: searchShardKey},
			":from":  &types.AttributeValueMemberS{Value: first},
			":to":    &types.AttributeValueMemberS{Value: last},
		},
	})
	if err != nil {
		s.logErr(ctx, "search_by_month", err,
			slog.String("destination", string(dst)),
			slog.Int("year", year),
			slog.Int("month", month),
		)
		return nil, unavailable("search_by_month", err)
	}
	return unmarshalTrips(out.Items)
}

func (s *DynamoStore) logErr(ctx context.Context, op string, err error, extras ...slog.Attr) {
	attrs := append([]slog.Attr{
		slog.String("op", op),
		slog.String("table", s.cfg.Table),
		slog.String("err", err.Error()),
	}, extras...)
	logger.Error(ctx, "db", "dynamo.failed", attrs...)
}

func tripKey(ownerID int64, tripID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"user_id": numberAttr(ownerID),
		"trip_id": &types.AttributeValueMemberS{Value: tripID},
	}
}

func numberAttr(n int64) types.AttributeValue {
	v, _ := attributevalue.Marshal(n)
	return v
}

func unmarshalTrips(items []map[string]types.AttributeValue) ([]Trip, error) {
	var list []Trip
	if err := attributevalue.UnmarshalListOfMaps(items, &list); err != nil {
		return nil, unavailable("unmarshal", err)
	}
	return list, nil
}
