package publisher

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"math/rand/v2"

	"github.com/redis/go-redis/v9"

	"productworker/internal/scrape"
	"productworker/pkg/errors"
)

// RedisPublisher implements Publisher over Redis streams. Batches are
// JSON-serialized, base64 encoded and spread across streamCount streams.
type RedisPublisher struct {
	client          *redis.Client
	ctx             context.Context
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(ctx context.Context, addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:          client,
		ctx:             ctx,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// PublishProducts publishes one source's product batch to a Redis stream.
// The batch is keyed by the source host so consumers can route per site.
func (p *RedisPublisher) PublishProducts(host string, records []scrape.ProductRecord) error {
	if len(records) == 0 {
		return nil
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return errors.NewPublisher(host, "failed to serialize product batch", err)
	}
	encoded := base64.StdEncoding.EncodeToString(payload)

	// random stream name by streamCount
	// if streamCount is 10, stream name will be stream:0 ~ stream:9
	stream := p.streamPrefix + ":" + strconv.Itoa(rand.IntN(p.streamCount))

	err = p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			host: encoded,
		},
	}).Err()
	if err != nil {
		return errors.NewPublisher(host, "failed to publish product batch", err)
	}
	return nil
}

// TrimStreams trims all streams to the configured maximum length
func (p *RedisPublisher) TrimStreams() error {
	pattern := p.streamPrefix + ":*"
	streams, err := p.client.Keys(p.ctx, pattern).Result()
	if err != nil {
		return errors.NewPublisher(pattern, "failed to list streams", err)
	}

	for _, stream := range streams {
		err := p.client.XTrimMaxLen(p.ctx, stream, int64(p.streamMaxLength)).Err()
		if err != nil {
			return errors.NewPublisher(stream, "failed to trim stream", err)
		}
	}

	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
