package postal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const tokyoStation = `{"message":null,"results":[{"address1":"東京都","address2":"千代田区","address3":"丸の内","kana1":"ﾄｳｷｮｳﾄ","kana2":"ﾁﾖﾀﾞｸ","kana3":"ﾏﾙﾉｳﾁ","prefcode":"13","zipcode":"1000005"}],"status":200}`

func TestLookup(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		gotQuery = r.URL.Query().Get("zipcode")
		w.Header().Set("Content-Type", "text/plain;charset=utf-8")
		w.Write([]byte(tokyoStation))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, zap.NewNop())
	addr, err := c.Lookup(context.Background(), "100-0005")
	require.NoError(t, err)
	assert.Equal(t, "東京都千代田区丸の内", addr)
	assert.Equal(t, "1000005", gotQuery)

	addr, err = c.Lookup(context.Background(), "1000005")
	require.NoError(t, err)
	assert.Equal(t, "東京都千代田区丸の内", addr)
}

func TestLookupInvalidCodeSkipsRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())
	for _, code := range []string{"", "123", "123-45", "abc"} {
		_, err := c.Lookup(context.Background(), code)
		assert.ErrorIs(t, err, ErrInvalidCode, code)
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestLookupFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"no results": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"message":null,"results":null,"status":200}`))
		},
		"api error": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"message":"パラメータ「郵便番号」の桁数が不正です。","results":null,"status":400}`))
		},
		"http error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			c := NewClient(srv.URL, time.Second, zap.NewNop())
			addr, err := c.Lookup(context.Background(), "100-0005")
			assert.ErrorIs(t, err, ErrLookupFailed)
			assert.Empty(t, addr)
		})
	}
}

func TestLookupUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, 200*time.Millisecond, zap.NewNop())
	_, err := c.Lookup(context.Background(), "100-0005")
	assert.ErrorIs(t, err, ErrLookupFailed)
}

func TestLookupCoalescesConcurrentCalls(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		w.Write([]byte(tokyoStation))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Lookup(context.Background(), "100-0005")
		}(i)
	}
	// Let every goroutine join the in-flight call before answering.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, "東京都千代田区丸の内", r)
	}
}

func TestLookupDoesNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		panic(http.ErrAbortHandler)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())
	_, err := c.Lookup(context.Background(), "100-0005")
	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLookupSurvivesCancelledCaller(t *testing.T) {
	var calls int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		started <- struct{}{}
		<-release
		w.Write([]byte(tokyoStation))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Lookup(ctx, "100-0005")
		firstErr <- err
	}()
	<-started

	second := make(chan string, 1)
	go func() {
		addr, _ := c.Lookup(context.Background(), "100-0005")
		second <- addr
	}()
	// Let the second caller join the in-flight call.
	time.Sleep(100 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, ErrLookupFailed)

	close(release)
	assert.Equal(t, "東京都千代田区丸の内", <-second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
