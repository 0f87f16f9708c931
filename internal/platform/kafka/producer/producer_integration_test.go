//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"dsledger/internal/platform/kafka/producer"
	"dsledger/pkg/testutil/containers"
)

type ProducerSuite struct {
	suite.Suite
	broker   *containers.RedpandaContainer
	producer *producer.Producer
}

func TestProducerSuite(t *testing.T) {
	suite.Run(t, new(ProducerSuite))
}

func (s *ProducerSuite) SetupSuite() {
	s.broker = containers.NewRedpandaContainer(s.T())
	p, err := producer.New(producer.Config{Brokers: []string{s.broker.Broker}, ClientID: "dsledger-test"})
	s.Require().NoError(err)
	s.producer = p
	s.T().Cleanup(p.Close)
}

func (s *ProducerSuite) TestPing() {
	s.NoError(s.producer.Ping(context.Background()))
}

func (s *ProducerSuite) TestEnsureTopicIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.producer.EnsureTopic(ctx, "ledger.audit.ensure", 1, 1))
	s.NoError(s.producer.EnsureTopic(ctx, "ledger.audit.ensure", 1, 1))
}

func (s *ProducerSuite) TestPublishDeliversKeyValueAndHeaders() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const topic = "ledger.audit.publish"
	s.Require().NoError(s.producer.EnsureTopic(ctx, topic, 1, 1))
	s.Require().NoError(s.producer.Publish(ctx, producer.Message{
		Topic:   topic,
		Key:     []byte("0x00000000000000000000000000000000000000a1"),
		Value:   []byte(`{"action":"tokens_issued"}`),
		Headers: map[string]string{"event_id": "evt-1"},
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var records []*kgo.Record
	for len(records) == 0 {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(ctx.Err(), "timed out waiting for the published record")
		records = append(records, fetches.Records()...)
	}

	rec := records[0]
	s.Equal("0x00000000000000000000000000000000000000a1", string(rec.Key))
	s.JSONEq(`{"action":"tokens_issued"}`, string(rec.Value))
	s.Require().Len(rec.Headers, 1)
	s.Equal("event_id", rec.Headers[0].Key)
	s.Equal("evt-1", string(rec.Headers[0].Value))
}

func (s *ProducerSuite) TestPublishNothingIsNoop() {
	s.NoError(s.producer.Publish(context.Background()))
}
