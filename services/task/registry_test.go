package task

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productworker/internal/scrape"
)

func TestRegistryLifecycle(t *testing.T) {
	reg := NewRegistry()
	req := scrape.ScrapeRequest{URLs: []string{"https://shop.example/list"}, MaxPages: 2}

	id := reg.Create(req)
	require.NotEmpty(t, id)

	got, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, 0, got.Progress)
	assert.Equal(t, req.URLs, got.Request.URLs)

	require.NoError(t, reg.Start(id))
	got, _ = reg.Get(id)
	assert.Equal(t, StatusRunning, got.Status)

	require.NoError(t, reg.UpdateProgress(id, 1, 2))
	got, _ = reg.Get(id)
	assert.Equal(t, 50, got.Progress)

	result := &scrape.Result{StopReasons: map[string]scrape.StopReason{
		"https://shop.example/list": scrape.StopMaxPages,
	}}
	require.NoError(t, reg.Complete(id, result))
	got, _ = reg.Get(id)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	require.NotNil(t, got.Result)
	assert.Equal(t, scrape.StopMaxPages, got.Result.StopReasons["https://shop.example/list"])
}

func TestRegistryFail(t *testing.T) {
	reg := NewRegistry()
	id := reg.Create(scrape.ScrapeRequest{URLs: []string{"https://shop.example"}})

	require.NoError(t, reg.Start(id))
	require.NoError(t, reg.Fail(id, fmt.Errorf("seed unreachable")))

	got, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "seed unreachable", got.Error)
}

func TestRegistryUnknownID(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Get("missing")
	assert.Error(t, err)
	assert.Error(t, reg.Start("missing"))
	assert.Error(t, reg.Complete("missing", nil))
}

func TestRegistryProgressClamped(t *testing.T) {
	reg := NewRegistry()
	id := reg.Create(scrape.ScrapeRequest{URLs: []string{"https://shop.example"}})

	require.NoError(t, reg.UpdateProgress(id, 7, 5))
	got, _ := reg.Get(id)
	assert.Equal(t, 100, got.Progress)

	// zero total is ignored rather than dividing by zero
	require.NoError(t, reg.UpdateProgress(id, 1, 0))
	got, _ = reg.Get(id)
	assert.Equal(t, 100, got.Progress)
}

func TestRegistryListNewestFirst(t *testing.T) {
	reg := NewRegistry()

	first := reg.Create(scrape.ScrapeRequest{URLs: []string{"https://a.example"}})
	time.Sleep(2 * time.Millisecond)
	second := reg.Create(scrape.ScrapeRequest{URLs: []string{"https://b.example"}})

	tasks := reg.List()
	require.Len(t, tasks, 2)
	assert.Equal(t, second, tasks[0].ID)
	assert.Equal(t, first, tasks[1].ID)
}
