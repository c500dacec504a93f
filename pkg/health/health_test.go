package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pass(_ context.Context) error { return nil }

func fail(msg string) CheckFunc {
	return func(_ context.Context) error { return errors.New(msg) }
}

func getStatus(t *testing.T, endpoint http.HandlerFunc, path string) (int, statusResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	endpoint(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body statusResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return w.Code, body
}

func TestLiveEndpoint(t *testing.T) {
	t.Run("all passing", func(t *testing.T) {
		h := New()
		h.AddLivenessCheck("a", time.Second, pass)
		h.AddLivenessCheck("b", time.Second, pass)

		code, body := getStatus(t, h.LiveEndpoint, "/livez")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body.Status)
	})

	t.Run("no probes", func(t *testing.T) {
		code, body := getStatus(t, New().LiveEndpoint, "/livez")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body.Status)
	})

	t.Run("failure past threshold", func(t *testing.T) {
		h := New()
		h.AddLivenessCheck("store", time.Second, fail("disk gone"))

		ctx := context.Background()
		for range failAfter {
			h.liveness[0].exec(ctx)
		}

		code, body := getStatus(t, h.LiveEndpoint, "/livez")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", body.Status)
		assert.Equal(t, "disk gone", body.Checks["store"])
	})

	t.Run("failure below threshold stays healthy", func(t *testing.T) {
		h := New()
		h.AddLivenessCheck("flaky", time.Second, fail("blip"))

		ctx := context.Background()
		for range failAfter - 1 {
			h.liveness[0].exec(ctx)
		}

		code, _ := getStatus(t, h.LiveEndpoint, "/livez")
		assert.Equal(t, http.StatusOK, code)
	})
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("ready and passing", func(t *testing.T) {
		h := New()
		h.AddReadinessCheck("store", time.Second, pass)
		h.SetReady(true)

		code, body := getStatus(t, h.ReadyEndpoint, "/readyz")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body.Status)
	})

	t.Run("not ready until SetReady", func(t *testing.T) {
		h := New()
		h.AddReadinessCheck("store", time.Second, pass)

		code, body := getStatus(t, h.ReadyEndpoint, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Contains(t, body.Checks, "_readiness")
	})

	t.Run("drained on SetReady false", func(t *testing.T) {
		h := New()
		h.SetReady(true)
		code, _ := getStatus(t, h.ReadyEndpoint, "/readyz")
		require.Equal(t, http.StatusOK, code)

		h.SetReady(false)
		code, _ = getStatus(t, h.ReadyEndpoint, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, code)
	})

	t.Run("reports only failing probes", func(t *testing.T) {
		h := New()
		h.AddReadinessCheck("store", time.Second, pass)
		h.AddReadinessCheck("catalog", time.Second, fail("missing file"))
		h.SetReady(true)

		ctx := context.Background()
		for range failAfter {
			h.readiness[1].exec(ctx)
		}

		code, body := getStatus(t, h.ReadyEndpoint, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Contains(t, body.Checks, "catalog")
		assert.NotContains(t, body.Checks, "store")
	})
}

func TestIsReady(t *testing.T) {
	h := New()
	h.AddReadinessCheck("store", time.Second, pass)

	assert.False(t, h.IsReady())
	h.SetReady(true)
	assert.True(t, h.IsReady())
	h.SetReady(false)
	assert.False(t, h.IsReady())
}

func TestProbeRecovery(t *testing.T) {
	failing := true
	h := New()
	h.AddLivenessCheck("flaky", time.Second, func(_ context.Context) error {
		if failing {
			return errors.New("down")
		}
		return nil
	})
	p := h.liveness[0]
	ctx := context.Background()

	for range failAfter {
		p.exec(ctx)
	}
	require.False(t, p.healthy.Load())

	failing = false
	for range passAfter {
		p.exec(ctx)
	}
	assert.True(t, p.healthy.Load())
}

func TestProbeLastError(t *testing.T) {
	h := New()
	h.AddLivenessCheck("store", time.Second, fail("timeout"))
	p := h.liveness[0]

	assert.Nil(t, p.err())
	p.exec(context.Background())
	assert.EqualError(t, p.err(), "timeout")
}

func TestStartStop(t *testing.T) {
	h := New()
	h.AddLivenessCheck("a", time.Second, pass)

	h.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	h.Stop()
	h.Stop()
}

func TestConcurrentEndpoints(t *testing.T) {
	h := New()
	h.AddLivenessCheck("l", time.Second, fail("err"))
	h.AddReadinessCheck("r", time.Second, pass)
	h.SetReady(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.Start(ctx, 10*time.Millisecond)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				h.IsReady()
				getStatus(t, h.LiveEndpoint, "/livez")
				getStatus(t, h.ReadyEndpoint, "/readyz")
			}
		}()
	}
	wg.Wait()
	h.Stop()
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(100000)(context.Background()))

	err := GoroutineCountCheck(0)(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds threshold")
}

func TestCheckerFunc(t *testing.T) {
	calls := 0
	check := CheckerFunc(func() error {
		calls++
		return nil
	})
	assert.NoError(t, check(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestGCMaxPauseCheck(t *testing.T) {
	assert.NoError(t, GCMaxPauseCheck(time.Hour)(context.Background()))
}
