package scanner

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

	"github.com/theopenlane/recon/internal/jsonvalue"
	"github.com/theopenlane/recon/internal/reconapi"
	"github.com/theopenlane/recon/internal/types"
)

var fixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

// fetchFunc adapts a function to the Fetcher interface
type fetchFunc func(ctx context.Context, scanType types.ScanType, domain string) (*jsonvalue.Object, error)

func (f fetchFunc) Fetch(ctx context.Context, scanType types.ScanType, domain string) (*jsonvalue.Object, error) {
	return f(ctx, scanType, domain)
}

// blockingFetcher holds every request until release is closed
type blockingFetcher struct {
	release chan struct{}
	calls   atomic.Int32
}

func newBlockingFetcher() *blockingFetcher {
	return &blockingFetcher{release: make(chan struct{})}
}

func (b *blockingFetcher) Fetch(ctx context.Context, _ types.ScanType, domain string) (*jsonvalue.Object, error) {
	b.calls.Add(1)

	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, &reconapi.TransportError{Err: ctx.Err()}
	}

	return jsonvalue.NewObject(jsonvalue.Member{Key: "domain", Value: jsonvalue.String(domain)}), nil
}

// newRemoteScanner wires a scanner to a recon client talking to the given handler
func newRemoteScanner(t *testing.T, handler http.HandlerFunc, opts ...ScanOption) *Scanner {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := reconapi.New(server.URL, reconapi.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	s, err := New(client, append([]ScanOption{WithClock(fixedClock)}, opts...)...)
	require.NoError(t, err)

	return s
}

func TestNew(t *testing.T) {
	s, err := New(fetchFunc(func(context.Context, types.ScanType, string) (*jsonvalue.Object, error) {
		return jsonvalue.NewObject(), nil
	}))
	require.NoError(t, err)

	assert.NotNil(t, s.options)
	assert.False(t, s.Loading())
	assert.Nil(t, s.Result())
}

func TestNew_MissingFetcher(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrMissingFetcher)
}

func TestScan_IPSuccess(t *testing.T) {
	var requested string

	s := newRemoteScanner(t, func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ip": "93.184.216.34"}`))
	})

	result, err := s.Scan(context.Background(), "example.com", types.ScanTypeIP)
	require.NoError(t, err)

	assert.Equal(t, "/ip/example.com", requested)
	assert.Equal(t, "example.com", result.Domain)
	assert.Equal(t, types.ScanTypeIP, result.ScanType)
	assert.Empty(t, result.Error)
	assert.Equal(t, "2024-01-15T10:30:00.000Z", result.Timestamp)
	require.NoError(t, result.Validate())

	ip, ok := result.Data.Get("ip")
	require.True(t, ok)
	assert.Equal(t, jsonvalue.String("93.184.216.34"), ip)

	state := s.State()
	assert.False(t, state.Loading)
	assert.Same(t, result, state.Result)
}

func TestScan_ValidationFailures(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "empty", input: "", wantErr: "Domain is required"},
		{name: "blank", input: "   ", wantErr: "Domain is required"},
		{name: "contains space", input: "not a domain", wantErr: "Invalid domain format (e.g. example.com)"},
		{name: "too long", input: longLabelDomain(254), wantErr: "Domain too long"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			var states []State

			s, err := New(fetchFunc(func(context.Context, types.ScanType, string) (*jsonvalue.Object, error) {
				calls.Add(1)
				return jsonvalue.NewObject(), nil
			}), WithClock(fixedClock), WithListener(func(st State) { states = append(states, st) }))
			require.NoError(t, err)

			result, err := s.Scan(context.Background(), tc.input, types.ScanTypeDNS)
			require.NoError(t, err)

			assert.Equal(t, tc.wantErr, result.Error)
			assert.Nil(t, result.Data)
			assert.Equal(t, tc.input, result.Domain)
			assert.Equal(t, types.ScanTypeDNS, result.ScanType)
			assert.Equal(t, "2024-01-15T10:30:00.000Z", result.Timestamp)
			require.NoError(t, result.Validate())

			assert.Zero(t, calls.Load(), "validation failures must not reach the network")

			require.Len(t, states, 1, "validation failures never enter the loading state")
			assert.False(t, states[0].Loading)
			assert.Same(t, result, states[0].Result)
		})
	}
}

// longLabelDomain returns a syntactically valid hostname of n characters
func longLabelDomain(n int) string {
	b := make([]byte, 0, n)
	for len(b)+64+2 <= n {
		for range 63 {
			b = append(b, 'a')
		}

		b = append(b, '.')
	}

	for len(b) < n {
		b = append(b, 'z')
	}

	return string(b)
}

func TestScan_LengthBoundary(t *testing.T) {
	s, err := New(fetchFunc(func(context.Context, types.ScanType, string) (*jsonvalue.Object, error) {
		return jsonvalue.NewObject(), nil
	}))
	require.NoError(t, err)

	result, err := s.Scan(context.Background(), longLabelDomain(253), types.ScanTypeIP)
	require.NoError(t, err)
	assert.False(t, result.Failed())

	result, err = s.Scan(context.Background(), longLabelDomain(254), types.ScanTypeIP)
	require.NoError(t, err)
	assert.Equal(t, "Domain too long", result.Error)
}

func TestScan_RemoteError(t *testing.T) {
	s := newRemoteScanner(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/headers/example.com", r.URL.Path)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	result, err := s.Scan(context.Background(), "example.com", types.ScanTypeHeaders)
	require.NoError(t, err)

	assert.Equal(t, "Server responded with 503: Service Unavailable", result.Error)
	assert.Nil(t, result.Data)
	assert.Equal(t, "example.com", result.Domain)
	require.NoError(t, result.Validate())
	assert.False(t, s.Loading())
}

func TestScan_DecodeError(t *testing.T) {
	s := newRemoteScanner(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	result, err := s.Scan(context.Background(), "example.com", types.ScanTypeDNS)
	require.NoError(t, err)

	assert.Equal(t, "Failed to parse server response", result.Error)
	assert.Nil(t, result.Data)
}

func TestScan_TransportErrorWithoutMessage(t *testing.T) {
	s, err := New(fetchFunc(func(context.Context, types.ScanType, string) (*jsonvalue.Object, error) {
		return nil, &reconapi.TransportError{}
	}), WithClock(fixedClock))
	require.NoError(t, err)

	result, err := s.Scan(context.Background(), "example.com", types.ScanTypeIP)
	require.NoError(t, err)

	assert.Equal(t, "An unexpected error occurred", result.Error)
	require.NoError(t, result.Validate())
}

func TestScan_TransportErrorMessage(t *testing.T) {
	client, err := reconapi.New("http://localhost:1", reconapi.WithHTTPClient(&http.Client{Timeout: 2 * time.Second}))
	require.NoError(t, err)

	s, err := New(client)
	require.NoError(t, err)

	result, err := s.Scan(context.Background(), "example.com", types.ScanTypeIP)
	require.NoError(t, err)

	assert.True(t, result.Failed())
	assert.NotEmpty(t, result.Error)
	assert.NotEqual(t, types.UnexpectedErrorMessage, result.Error)
}

func TestScan_Timeout(t *testing.T) {
	fetcher := newBlockingFetcher()

	s, err := New(fetcher, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	result, err := s.Scan(context.Background(), "example.com", types.ScanTypeIP)
	require.NoError(t, err)

	assert.Equal(t, context.DeadlineExceeded.Error(), result.Error)
	assert.False(t, s.Loading())
}

func TestScan_TrimsDomainBeforeDispatch(t *testing.T) {
	var gotDomain string

	s, err := New(fetchFunc(func(_ context.Context, _ types.ScanType, domain string) (*jsonvalue.Object, error) {
		gotDomain = domain
		return jsonvalue.NewObject(), nil
	}))
	require.NoError(t, err)

	result, err := s.Scan(context.Background(), "  example.com\t", types.ScanTypeIP)
	require.NoError(t, err)

	assert.Equal(t, "example.com", gotDomain)
	assert.Equal(t, "example.com", result.Domain)
}

func TestScan_UnsupportedScanType(t *testing.T) {
	s, err := New(newBlockingFetcher())
	require.NoError(t, err)

	_, err = s.Scan(context.Background(), "example.com", types.ScanType("ssl"))
	assert.ErrorIs(t, err, ErrUnsupportedScanType)
	assert.Equal(t, uint64(0), s.State().Sequence)
}

func TestScan_RejectsWhileInFlight(t *testing.T) {
	fetcher := newBlockingFetcher()

	s, err := New(fetcher)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var first *types.ScanResult
	var firstErr error

	wg.Go(func() {
		first, firstErr = s.Scan(context.Background(), "example.com", types.ScanTypeIP)
	})

	require.Eventually(t, s.Loading, time.Second, time.Millisecond)

	_, err = s.Scan(context.Background(), "other.com", types.ScanTypeDNS)
	assert.ErrorIs(t, err, ErrScanInFlight)

	_, err = s.Scan(context.Background(), "", types.ScanTypeDNS)
	assert.ErrorIs(t, err, ErrScanInFlight, "validation must not run while loading")

	close(fetcher.release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, "example.com", first.Domain)
	assert.Equal(t, int32(1), fetcher.calls.Load())
	assert.Same(t, first, s.Result())
}

func TestScan_LoadingClearsPreviousResult(t *testing.T) {
	fetcher := newBlockingFetcher()
	close(fetcher.release)

	var states []State
	var mu sync.Mutex

	s, err := New(fetcher, WithListener(func(st State) {
		mu.Lock()
		defer mu.Unlock()

		states = append(states, st)
	}))
	require.NoError(t, err)

	first, err := s.Scan(context.Background(), "example.com", types.ScanTypeIP)
	require.NoError(t, err)

	second, err := s.Scan(context.Background(), "example.org", types.ScanTypeIP)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()

	require.Len(t, states, 4)

	assert.True(t, states[0].Loading)
	assert.Nil(t, states[0].Result)
	assert.False(t, states[1].Loading)
	assert.Same(t, first, states[1].Result)

	assert.True(t, states[2].Loading)
	assert.Nil(t, states[2].Result, "previous result is cleared when loading starts")
	assert.Same(t, second, states[3].Result)

	assert.Less(t, states[1].Sequence, states[3].Sequence)
}

func TestScan_ResetSupersedesInFlightScan(t *testing.T) {
	fetcher := newBlockingFetcher()

	s, err := New(fetcher)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var stale *types.ScanResult
	var staleErr error

	wg.Go(func() {
		stale, staleErr = s.Scan(context.Background(), "example.com", types.ScanTypeIP)
	})

	require.Eventually(t, s.Loading, time.Second, time.Millisecond)

	s.Reset()
	assert.False(t, s.Loading())

	close(fetcher.release)
	wg.Wait()

	assert.ErrorIs(t, staleErr, ErrSuperseded)
	require.NotNil(t, stale)
	assert.Nil(t, s.Result(), "superseded results must not be published")

	fresh, err := s.Scan(context.Background(), "example.org", types.ScanTypeDNS)
	require.NoError(t, err)
	assert.Same(t, fresh, s.Result())
}

func TestScan_ResultsAlwaysSatisfyInvariant(t *testing.T) {
	responses := []http.HandlerFunc{
		func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"a": 1}`)) },
		func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{}`)) },
		func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
		func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`[]`)) },
	}

	for _, handler := range responses {
		s := newRemoteScanner(t, handler)

		for _, input := range []string{"example.com", "", "bad domain"} {
			result, err := s.Scan(context.Background(), input, types.ScanTypeIP)
			require.NoError(t, err)
			require.NoError(t, result.Validate())
		}
	}
}

func TestNotify_DropsStaleSnapshots(t *testing.T) {
	var delivered []uint64

	s, err := New(newBlockingFetcher(), WithListener(func(st State) {
		delivered = append(delivered, st.Sequence)
	}))
	require.NoError(t, err)

	// a reset snapshot that overtook the finalize snapshot of the scan it superseded
	s.notify(State{Sequence: 2})
	s.notify(State{Sequence: 1, Result: types.NewFailure("example.com", types.ScanTypeIP, "late", fixedTime)})
	s.notify(State{Sequence: 2})
	s.notify(State{Sequence: 3, Loading: true})

	assert.Equal(t, []uint64{2, 2, 3}, delivered)
}

func TestReset_ListenersSeeMonotonicSequences(t *testing.T) {
	var (
		mu   sync.Mutex
		seqs []uint64
	)

	fetcher := fetchFunc(func(context.Context, types.ScanType, string) (*jsonvalue.Object, error) {
		return jsonvalue.NewObject(), nil
	})

	s, err := New(fetcher, WithListener(func(st State) {
		mu.Lock()
		defer mu.Unlock()

		seqs = append(seqs, st.Sequence)
	}))
	require.NoError(t, err)

	var wg sync.WaitGroup

	for range 20 {
		wg.Go(func() {
			_, _ = s.Scan(context.Background(), "example.com", types.ScanTypeIP)
		})
		wg.Go(s.Reset)
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()

	for i := 1; i < len(seqs); i++ {
		assert.GreaterOrEqual(t, seqs[i], seqs[i-1])
	}
}
