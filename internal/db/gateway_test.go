package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() models.FeedbackRecord {
	return models.FeedbackRecord{
		ID:              "5f0c6a3e-8a8e-4b7e-9a55-0c2f3c1f9d11",
		Feedback:        "The app keeps crashing and it's a huge security vulnerability",
		Sentiment:       "Negative 😞",
		Summary:         "App crashes, security concern.",
		Category:        "Application Errors",
		FlaggedKeywords: []string{"security", "vulnerability", "crash"},
		BaselineScore:   -0.42,
		CreatedAt:       time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

type recordingCreator struct {
	fields map[string]any
	err    error
}

func (r *recordingCreator) CreateRecord(_ context.Context, fields map[string]any) error {
	r.fields = fields
	return r.err
}

func TestAirtableGateway_Fields(t *testing.T) {
	creator := &recordingCreator{}
	require.NoError(t, NewAirtableGateway(creator).Save(context.Background(), sampleRecord()))

	assert.Equal(t, map[string]any{
		"Feedback":         "The app keeps crashing and it's a huge security vulnerability",
		"Sentiment":        "Negative 😞",
		"Summary":          "App crashes, security concern.",
		"Category":         "Application Errors",
		"Flagged Keywords": "security, vulnerability, crash",
	}, creator.fields)
}

func TestAirtableFields_NoFlagsIsNoneSentinel(t *testing.T) {
	rec := sampleRecord()
	rec.FlaggedKeywords = nil
	assert.Equal(t, "None", AirtableFields(rec)["Flagged Keywords"])
}

type fakeDynamo struct {
	input *dynamodb.PutItemInput
	err   error
}

func (f *fakeDynamo) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.input = params
	return &dynamodb.PutItemOutput{}, f.err
}

func TestDynamoDBGateway_Save(t *testing.T) {
	fake := &fakeDynamo{}
	require.NoError(t, NewDynamoDBGateway(fake, "FeedbackResults").Save(context.Background(), sampleRecord()))

	require.NotNil(t, fake.input)
	assert.Equal(t, "FeedbackResults", *fake.input.TableName)

	item := fake.input.Item
	assert.Equal(t, &types.AttributeValueMemberS{Value: "5f0c6a3e-8a8e-4b7e-9a55-0c2f3c1f9d11"}, item["id"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "Application Errors"}, item["category"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "security, vulnerability, crash"}, item["flagged_keywords_text"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1725192000"}, item["created_at_unix"])
}

func TestDynamoDBGateway_ErrorIsPersistenceError(t *testing.T) {
	fake := &fakeDynamo{err: errors.New("ResourceNotFoundException")}
	err := NewDynamoDBGateway(fake, "missing").Save(context.Background(), sampleRecord())

	var perr *models.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "dynamodb", perr.Backend)
}

type fakeExecer struct {
	sql  string
	args []any
	err  error
}

func (f *fakeExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = sql
	f.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func TestPostgresGateway_Save(t *testing.T) {
	fake := &fakeExecer{}
	rec := sampleRecord()
	rec.FlaggedKeywords = nil

	require.NoError(t, NewPostgresGateway(fake).Save(context.Background(), rec))
	assert.Contains(t, fake.sql, "INSERT INTO feedback_results")
	require.Len(t, fake.args, 8)
	assert.Equal(t, rec.ID, fake.args[0])
	assert.Equal(t, []string{}, fake.args[5])
}

func TestMigrate_RequiresDSN(t *testing.T) {
	var cfgErr *models.ConfigurationError
	assert.ErrorAs(t, Migrate(context.Background(), ""), &cfgErr)
}

type captureProducer struct {
	msgs []*kafka.Message
}

func (p *captureProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	p.msgs = append(p.msgs, msg)
	deliveryChan <- msg
	return nil
}

func TestKafkaGateway_Save(t *testing.T) {
	p := &captureProducer{}
	require.NoError(t, NewKafkaGateway(p, "feedback-results").Save(context.Background(), sampleRecord()))

	require.Len(t, p.msgs, 1)
	assert.Equal(t, []byte("5f0c6a3e-8a8e-4b7e-9a55-0c2f3c1f9d11"), p.msgs[0].Key)
	assert.Contains(t, string(p.msgs[0].Value), `"category":"Application Errors"`)
}

type stubGateway struct {
	name  string
	err   error
	saved int
}

func (s *stubGateway) Name() string { return s.name }

func (s *stubGateway) Save(context.Context, models.FeedbackRecord) error {
	s.saved++
	return s.err
}

func TestFanout_ContinuesPastFailures(t *testing.T) {
	first := &stubGateway{name: "first", err: errors.New("boom")}
	second := &stubGateway{name: "second"}

	err := NewFanout(first, second).Save(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Equal(t, 1, first.saved)
	assert.Equal(t, 1, second.saved)

	var perr *models.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "first", perr.Backend)
}

func TestFanout_AllSucceed(t *testing.T) {
	assert.NoError(t, NewFanout(&stubGateway{name: "a"}, &stubGateway{name: "b"}).Save(context.Background(), sampleRecord()))
}

func TestOpen_AirtableOnly(t *testing.T) {
	cfg := config.Config{PersistenceBackends: []string{"airtable"}}
	gw, closeFn, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, "airtable", gw.Name())
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, _, err := Open(context.Background(), config.Config{PersistenceBackends: []string{"mongo"}})
	assert.ErrorContains(t, err, "unknown persistence backend")
}
