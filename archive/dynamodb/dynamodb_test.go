package dynamodb

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/corrmin/archive"
	"github.com/hupe1980/corrmin/codec"
	"github.com/hupe1980/corrmin/model"
)

// mockDDBClient is an in-memory DynamoDB mock for testing.
type mockDDBClient struct {
	mu       sync.RWMutex
	items    map[string]map[string]types.AttributeValue // archive:id -> item
	pageSize int

	// beforePut runs before every PutItem, outside the lock.
	beforePut func()
	puts      int
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{items: make(map[string]map[string]types.AttributeValue)}
}

func itemKey(item map[string]types.AttributeValue) string {
	return item["archive"].(*types.AttributeValueMemberS).Value + ":" +
		item["id"].(*types.AttributeValueMemberN).Value
}

func itemID(item map[string]types.AttributeValue) uint64 {
	id, _ := strconv.ParseUint(item["id"].(*types.AttributeValueMemberN).Value, 10, 64)
	return id
}

func (m *mockDDBClient) PutItem(_ context.Context, params *ddb.PutItemInput, _ ...func(*ddb.Options)) (*ddb.PutItemOutput, error) {
	if m.beforePut != nil {
		m.beforePut()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++

	key := itemKey(params.Item)
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(id)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}
	m.items[key] = params.Item
	return &ddb.PutItemOutput{}, nil
}

func (m *mockDDBClient) GetItem(_ context.Context, params *ddb.GetItemInput, _ ...func(*ddb.Options)) (*ddb.GetItemOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if item, ok := m.items[itemKey(params.Key)]; ok {
		return &ddb.GetItemOutput{Item: item}, nil
	}
	return &ddb.GetItemOutput{}, nil
}

func (m *mockDDBClient) Query(_ context.Context, params *ddb.QueryInput, _ ...func(*ddb.Options)) (*ddb.QueryOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name := params.ExpressionAttributeValues[":a"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["archive"].(*types.AttributeValueMemberS).Value == name {
			items = append(items, item)
		}
	}

	asc := params.ScanIndexForward == nil || *params.ScanIndexForward
	sort.Slice(items, func(i, j int) bool {
		if asc {
			return itemID(items[i]) < itemID(items[j])
		}
		return itemID(items[i]) > itemID(items[j])
	})

	if params.ExclusiveStartKey != nil {
		after := itemID(params.ExclusiveStartKey)
		for len(items) > 0 && itemID(items[0]) <= after {
			items = items[1:]
		}
	}

	limit := len(items)
	if params.Limit != nil {
		limit = min(limit, int(*params.Limit))
	}
	if m.pageSize > 0 {
		limit = min(limit, m.pageSize)
	}

	out := &ddb.QueryOutput{Items: items[:limit]}
	if limit < len(items) {
		out.LastEvaluatedKey = items[limit-1]
	}
	return out, nil
}

func newRecord(runID string) *archive.Record {
	return &archive.Record{
		RunID:     runID,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Bound:     1,
		PhaseRef:  1,
		PhaseDef:  1,
		Results:   []model.Result{{Distance: 0, Ref: model.Identity(), Def: model.Identity()}},
		Pairs:     3480,
	}
}

func TestStore_AppendGetList(t *testing.T) {
	ctx := context.Background()
	client := newMockDDBClient()
	client.pageSize = 2
	s := NewStore(client, "corrmin-records", WithCodec(codec.MsgPack{}))

	for i := 1; i <= 5; i++ {
		id, err := s.Append(ctx, newRecord("run-"+strconv.Itoa(i)))
		require.NoError(t, err)
		assert.Equal(t, uint64(i), id)
	}

	got, err := s.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.ID)
	assert.Equal(t, "run-3", got.RunID)
	assert.Equal(t, int64(3480), got.Pairs)
	assert.Equal(t, model.Identity(), got.Results[0].Def)

	recs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 5)
	for i, rec := range recs {
		assert.Equal(t, uint64(i+1), rec.ID)
	}

	_, err = s.Get(ctx, 42)
	require.ErrorIs(t, err, archive.ErrNotFound)
	assert.NoError(t, s.Close())
}

func TestStore_ArchivesAreIndependent(t *testing.T) {
	ctx := context.Background()
	client := newMockDDBClient()
	a := NewStore(client, "t", WithArchive("a"))
	b := NewStore(client, "t", WithArchive("b"))

	_, err := a.Append(ctx, newRecord("a1"))
	require.NoError(t, err)
	id, err := b.Append(ctx, newRecord("b1"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	recs, err := a.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "a1", recs[0].RunID)
}

func TestStore_AppendNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	client := newMockDDBClient()
	s := NewStore(client, "t")
	other := NewStore(client, "t")

	// Another writer commits ID 1 between our query and our put.
	client.beforePut = func() {
		client.beforePut = nil
		_, err := other.Append(ctx, newRecord("other"))
		require.NoError(t, err)
	}

	id, err := s.Append(ctx, newRecord("mine"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id)

	first, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "other", first.RunID)

	second, err := s.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "mine", second.RunID)
}

func TestStore_AppendGivesUp(t *testing.T) {
	ctx := context.Background()
	client := newMockDDBClient()
	s := NewStore(client, "t")

	// Every put races with a writer that claims the same ID.
	client.beforePut = func() {
		client.mu.Lock()
		defer client.mu.Unlock()
		id := strconv.Itoa(len(client.items) + 1)
		client.items["corrmin:"+id] = map[string]types.AttributeValue{
			"archive": &types.AttributeValueMemberS{Value: "corrmin"},
			"id":      &types.AttributeValueMemberN{Value: id},
		}
	}

	rec := newRecord("loser")
	_, err := s.Append(ctx, rec)
	require.ErrorIs(t, err, ErrConcurrentModification)
	assert.Zero(t, rec.ID)
	assert.Equal(t, maxCommitAttempts, client.puts)
}
