// Package dynamodb stores search records in an Amazon DynamoDB table.
//
// Record IDs are committed with a conditional PutItem, so several processes
// can archive into the same table without overwriting each other.
//
// Table schema:
//   - Partition key: archive (string) - the archive name
//   - Sort key: id (number) - the record ID
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name corrmin-records \
//	  --attribute-definitions AttributeName=archive,AttributeType=S AttributeName=id,AttributeType=N \
//	  --key-schema AttributeName=archive,KeyType=HASH AttributeName=id,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/corrmin/archive"
	"github.com/hupe1980/corrmin/codec"
)

// DefaultArchive is the partition key used when no archive name is given.
const DefaultArchive = "corrmin"

// maxCommitAttempts bounds the retries of Append when another writer
// claims the same ID first.
const maxCommitAttempts = 8

// ErrConcurrentModification is returned when Append loses the race for a
// record ID more than maxCommitAttempts times.
var ErrConcurrentModification = errors.New("dynamodb: concurrent modification detected")

// Client is the subset of the DynamoDB API used by Store.
// *dynamodb.Client satisfies it.
type Client interface {
	PutItem(ctx context.Context, params *ddb.PutItemInput, optFns ...func(*ddb.Options)) (*ddb.PutItemOutput, error)
	GetItem(ctx context.Context, params *ddb.GetItemInput, optFns ...func(*ddb.Options)) (*ddb.GetItemOutput, error)
	Query(ctx context.Context, params *ddb.QueryInput, optFns ...func(*ddb.Options)) (*ddb.QueryOutput, error)
}

// Store is an archive.Store backed by a DynamoDB table.
type Store struct {
	client  Client
	table   string
	archive string
	codec   codec.Codec
}

var _ archive.Store = (*Store)(nil)

type options struct {
	region  string
	archive string
	codec   codec.Codec
}

// Option configures New and NewStore.
type Option func(*options)

// WithRegion sets the AWS region used by New.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithArchive sets the partition key, so one table can hold several
// independent archives.
func WithArchive(name string) Option {
	return func(o *options) {
		o.archive = name
	}
}

// WithCodec selects the record payload codec. The default is codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// New creates a store for table using the default AWS credential chain.
func New(ctx context.Context, table string, optFns ...Option) (*Store, error) {
	var o options
	for _, fn := range optFns {
		fn(&o)
	}

	var loadOpts []func(*config.LoadOptions) error
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: load aws config: %w", err)
	}

	return NewStore(ddb.NewFromConfig(cfg), table, optFns...), nil
}

// NewStore creates a store over an existing client.
func NewStore(client Client, table string, optFns ...Option) *Store {
	o := options{archive: DefaultArchive, codec: codec.Default}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.archive == "" {
		o.archive = DefaultArchive
	}
	if o.codec == nil {
		o.codec = codec.Default
	}

	return &Store{
		client:  client,
		table:   table,
		archive: o.archive,
		codec:   o.codec,
	}
}

// Append stores rec under the next free ID and sets rec.ID.
func (s *Store) Append(ctx context.Context, rec *archive.Record) (uint64, error) {
	for range maxCommitAttempts {
		last, err := s.latest(ctx)
		if err != nil {
			return 0, err
		}

		rec.ID = last + 1
		payload, err := s.codec.Marshal(rec)
		if err != nil {
			rec.ID = 0
			return 0, fmt.Errorf("encode record: %w", err)
		}

		_, err = s.client.PutItem(ctx, &ddb.PutItemInput{
			TableName: aws.String(s.table),
			Item: map[string]types.AttributeValue{
				"archive":    &types.AttributeValueMemberS{Value: s.archive},
				"id":         &types.AttributeValueMemberN{Value: strconv.FormatUint(rec.ID, 10)},
				"run_id":     &types.AttributeValueMemberS{Value: rec.RunID},
				"created_at": &types.AttributeValueMemberS{Value: rec.CreatedAt.UTC().Format(time.RFC3339Nano)},
				"codec":      &types.AttributeValueMemberS{Value: s.codec.Name()},
				"payload":    &types.AttributeValueMemberB{Value: payload},
			},
			ConditionExpression: aws.String("attribute_not_exists(id)"),
		})
		if err == nil {
			return rec.ID, nil
		}

		var condErr *types.ConditionalCheckFailedException
		if !errors.As(err, &condErr) {
			rec.ID = 0
			return 0, fmt.Errorf("dynamodb: put record: %w", err)
		}
	}

	rec.ID = 0
	return 0, ErrConcurrentModification
}

// Get loads the record with the given ID.
func (s *Store) Get(ctx context.Context, id uint64) (*archive.Record, error) {
	resp, err := s.client.GetItem(ctx, &ddb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"archive": &types.AttributeValueMemberS{Value: s.archive},
			"id":      &types.AttributeValueMemberN{Value: strconv.FormatUint(id, 10)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb: get record %d: %w", id, err)
	}
	if len(resp.Item) == 0 {
		return nil, fmt.Errorf("%w: %d", archive.ErrNotFound, id)
	}
	return decode(resp.Item)
}

// List returns every record of the archive ordered by ID.
func (s *Store) List(ctx context.Context) ([]*archive.Record, error) {
	var (
		out   []*archive.Record
		start map[string]types.AttributeValue
	)
	for {
		resp, err := s.client.Query(ctx, &ddb.QueryInput{
			TableName:              aws.String(s.table),
			KeyConditionExpression: aws.String("archive = :a"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":a": &types.AttributeValueMemberS{Value: s.archive},
			},
			ScanIndexForward:  aws.Bool(true),
			ConsistentRead:    aws.Bool(true),
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, fmt.Errorf("dynamodb: list records: %w", err)
		}

		for _, item := range resp.Items {
			rec, err := decode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}

		if len(resp.LastEvaluatedKey) == 0 {
			return out, nil
		}
		start = resp.LastEvaluatedKey
	}
}

// Close is a no-op; the client holds no per-store resources.
func (s *Store) Close() error { return nil }

// latest returns the highest committed ID, or 0 for an empty archive.
func (s *Store) latest(ctx context.Context) (uint64, error) {
	resp, err := s.client.Query(ctx, &ddb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("archive = :a"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":a": &types.AttributeValueMemberS{Value: s.archive},
		},
		ProjectionExpression: aws.String("id"),
		ScanIndexForward:     aws.Bool(false),
		ConsistentRead:       aws.Bool(true),
		Limit:                aws.Int32(1),
	})
	if err != nil {
		return 0, fmt.Errorf("dynamodb: query latest record: %w", err)
	}
	if len(resp.Items) == 0 {
		return 0, nil
	}
	return parseID(resp.Items[0])
}

func parseID(item map[string]types.AttributeValue) (uint64, error) {
	attr, ok := item["id"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.New("dynamodb: invalid id attribute")
	}
	id, err := strconv.ParseUint(attr.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("dynamodb: parse id: %w", err)
	}
	return id, nil
}

func decode(item map[string]types.AttributeValue) (*archive.Record, error) {
	id, err := parseID(item)
	if err != nil {
		return nil, err
	}
	name, ok := item["codec"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("decode record %d: invalid codec attribute", id)
	}
	payload, ok := item["payload"].(*types.AttributeValueMemberB)
	if !ok {
		return nil, fmt.Errorf("decode record %d: invalid payload attribute", id)
	}

	c, ok := codec.ByName(name.Value)
	if !ok {
		return nil, fmt.Errorf("decode record %d: unknown codec %q", id, name.Value)
	}
	rec := &archive.Record{}
	if err := c.Unmarshal(payload.Value, rec); err != nil {
		return nil, fmt.Errorf("decode record %d: %w", id, err)
	}
	rec.ID = id
	return rec, nil
}
