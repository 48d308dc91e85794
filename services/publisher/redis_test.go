package publisher

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productworker/internal/scrape"
)

func TestRedisPublisher(t *testing.T) {
	ctx := context.Background()
	pub := NewRedisPublisher(ctx, "localhost:6379", 0, "test_products", 1, 100)
	defer pub.Close()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   0,
	})
	defer client.Close()

	// Test if Redis is available
	_, err := client.Ping(ctx).Result()
	if err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	err = client.XGroupCreateMkStream(ctx, "test_products:0", "test_group", "$").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		t.Fatal(err)
	}

	messages := make(chan string, 1)

	go func() {
		message, err := client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Streams:  []string{"test_products:0", ">"},
			Group:    "test_group",
			Consumer: "test_consumer",
			Block:    0,
		}).Result()
		assert.NoError(t, err)
		messages <- message[0].Messages[0].Values["shop.example"].(string)
	}()

	time.Sleep(100 * time.Millisecond)

	price := 19.99
	records := []scrape.ProductRecord{
		{Title: "Sample Product", Price: &price, SourcePage: 1},
	}
	err = pub.PublishProducts("shop.example", records)
	assert.NoError(t, err)

	select {
	case msg := <-messages:
		decoded, err := base64.StdEncoding.DecodeString(msg)
		require.NoError(t, err)

		var got []scrape.ProductRecord
		require.NoError(t, json.Unmarshal(decoded, &got))
		require.Len(t, got, 1)
		assert.Equal(t, "Sample Product", got[0].Title)
		require.NotNil(t, got[0].Price)
		assert.Equal(t, 19.99, *got[0].Price)
	case <-time.After(1 * time.Second):
		t.Error("Timed out waiting for message")
	}
}

func TestRedisPublisherSkipsEmptyBatch(t *testing.T) {
	// An empty batch must not touch the connection at all; an unreachable
	// address would otherwise fail the call.
	pub := NewRedisPublisher(context.Background(), "localhost:1", 0, "test_products", 1, 100)
	defer pub.Close()

	assert.NoError(t, pub.PublishProducts("shop.example", nil))
}
