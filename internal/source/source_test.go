package source

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

// The Drive client registers an opencensus worker at init.
var ignoreOpenCensus = goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start")

// fakeSource serves files from memory. Earlier files take longer to fetch
// so completion order is the reverse of listing order.
type fakeSource struct {
	files    []FileInfo
	content  map[string][]byte
	failID   string
	inflight atomic.Int32
	peak     atomic.Int32
}

func newFakeSource(n int) *fakeSource {
	s := &fakeSource{content: make(map[string][]byte)}
	for i := range n {
		id := fmt.Sprintf("id-%d", i)
		s.files = append(s.files, FileInfo{ID: id, Name: fmt.Sprintf("file-%d.csv", i)})
		s.content[id] = []byte(fmt.Sprintf("Loan_ID\n%d\n", i))
	}
	return s
}

func (s *fakeSource) List(context.Context) ([]FileInfo, error) {
	return s.files, nil
}

func (s *fakeSource) Fetch(ctx context.Context, id string) ([]byte, error) {
	cur := s.inflight.Add(1)
	defer s.inflight.Add(-1)
	for {
		peak := s.peak.Load()
		if cur <= peak || s.peak.CompareAndSwap(peak, cur) {
			break
		}
	}

	if id == s.failID {
		return nil, errors.New("boom")
	}

	var delay time.Duration
	for i, f := range s.files {
		if f.ID == id {
			delay = time.Duration(len(s.files)-i) * 2 * time.Millisecond
		}
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.content[id], nil
}

func TestFetchAll_PreservesOrder(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreOpenCensus)

	src := newFakeSource(8)
	got, err := FetchAll(context.Background(), src, src.files, 4, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, got, 8)

	for i, f := range got {
		assert.Equal(t, fmt.Sprintf("file-%d.csv", i), f.Name)
		assert.Equal(t, fmt.Sprintf("Loan_ID\n%d\n", i), string(f.Data))
	}
	assert.LessOrEqual(t, src.peak.Load(), int32(4), "worker limit respected")
}

func TestFetchAll_Error(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreOpenCensus)

	src := newFakeSource(5)
	src.failID = "id-2"

	got, err := FetchAll(context.Background(), src, src.files, 2, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching file-2.csv")
	assert.Nil(t, got)
}

func TestFetchAll_ZeroWorkersMeansSerial(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreOpenCensus)

	src := newFakeSource(3)
	got, err := FetchAll(context.Background(), src, src.files, 0, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, int32(1), src.peak.Load())
}

func TestLoad(t *testing.T) {
	src := newFakeSource(3)
	got, err := Load(context.Background(), src, 2, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "file-0.csv", got[0].Name)
}

func TestLoadOne(t *testing.T) {
	src := newFakeSource(3)

	got, err := LoadOne(context.Background(), src, "file-1.csv", zap.NewNop())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Loan_ID\n1\n", string(got[0].Data))

	got, err = LoadOne(context.Background(), src, "missing.csv", zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, got)
}
