package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotscan/cotscan/internal/registry"
	"github.com/cotscan/cotscan/internal/store"
)

// stubFetcher serves canned archives per year.
type stubFetcher struct {
	archives map[int][]byte
	err      error
	calls    []int
}

func (s *stubFetcher) Fetch(_ context.Context, year int) ([]byte, error) {
	s.calls = append(s.calls, year)
	if s.err != nil {
		return nil, s.err
	}
	archive, ok := s.archives[year]
	if !ok {
		return nil, &AcquisitionError{Year: year, Err: errors.New("no such year")}
	}
	return archive, nil
}

func newTestPipeline(t *testing.T, fetcher ArchiveFetcher) (*Pipeline, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewPipeline(fetcher, NewMapper(registry.Default()), st, nil, 2), st
}

func TestIngest_EndToEnd(t *testing.T) {
	text := tableHeader + "\n" +
		"GOLD - COMMODITY EXCHANGE INC.,2024-06-04,150,100,0,0,0,0,0,0\n" +
		"GOLD - COMMODITY EXCHANGE INC.,2024-06-11,160,100,0,0,0,0,0,0\n" +
		"SILVER - COMMODITY EXCHANGE INC.,2024-06-04,50,80,0,0,0,0,0,0\n" +
		"RANDOM LENGTH LUMBER - CHICAGO MERCANTILE EXCHANGE,2024-06-04,1,1,0,0,0,0,0,0\n" +
		",2024-06-04,0,0,0,0,0,0,0,0\n"
	fetcher := &stubFetcher{archives: map[int][]byte{
		2024: makeArchive(t, map[string]string{"f_year.txt": text}),
	}}

	p, st := newTestPipeline(t, fetcher)
	report, err := p.Ingest(context.Background(), 2024)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.RecordsWritten)
	assert.Equal(t, 3, report.RowsMatched)
	assert.Equal(t, 1, report.RowsUnmatched)
	assert.Equal(t, 1, report.RowsBlank)
	assert.Equal(t, 0, report.RowsFailed)
	assert.Equal(t, 2, report.RowsSkipped())

	gold, err := st.Latest(context.Background(), "GOLD", 10)
	require.NoError(t, err)
	require.Len(t, gold, 2)
	assert.Equal(t, int64(60), gold[0].CommercialNet) // 2024-06-11
}

func TestIngest_Idempotent(t *testing.T) {
	text := tableHeader + "\n" +
		"GOLD - COMMODITY EXCHANGE INC.,2024-06-04,150,100,0,0,0,0,0,0\n"
	fetcher := &stubFetcher{archives: map[int][]byte{
		2024: makeArchive(t, map[string]string{"f_year.txt": text}),
	}}

	p, st := newTestPipeline(t, fetcher)
	ctx := context.Background()

	first, err := p.Ingest(ctx, 2024)
	require.NoError(t, err)
	second, err := p.Ingest(ctx, 2024)
	require.NoError(t, err)

	assert.Equal(t, first.RecordsWritten, second.RecordsWritten)
	recs, err := st.Latest(ctx, "GOLD", 10)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestIngest_CorrectedRerunOverwrites(t *testing.T) {
	// First run carries a wrong figure; the corrected archive must fully
	// replace it without duplicating the key.
	stale := tableHeader + "\nGOLD - COMMODITY EXCHANGE INC.,2024-06-04,999,0,0,0,0,0,0,0\n"
	fixed := tableHeader + "\nGOLD - COMMODITY EXCHANGE INC.,2024-06-04,150,100,5,1,0,0,0,0\n"

	fetcher := &stubFetcher{archives: map[int][]byte{
		2024: makeArchive(t, map[string]string{"f_year.txt": stale}),
	}}
	p, st := newTestPipeline(t, fetcher)
	ctx := context.Background()

	_, err := p.Ingest(ctx, 2024)
	require.NoError(t, err)

	fetcher.archives[2024] = makeArchive(t, map[string]string{"f_year.txt": fixed})
	_, err = p.Ingest(ctx, 2024)
	require.NoError(t, err)

	recs, err := st.Latest(ctx, "GOLD", 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(50), recs[0].CommercialNet)
	assert.Equal(t, int64(4), recs[0].SwapNet)
}

func TestIngest_AcquisitionFailureIsTyped(t *testing.T) {
	fetcher := &stubFetcher{err: &AcquisitionError{Year: 2024, URL: "http://x", Err: errors.New("boom")}}
	p, _ := newTestPipeline(t, fetcher)

	report, err := p.Ingest(context.Background(), 2024)
	require.Error(t, err)

	var acqErr *AcquisitionError
	assert.True(t, errors.As(err, &acqErr))
	assert.Zero(t, report.RecordsWritten)
}

func TestIngest_MissingTableAborts(t *testing.T) {
	fetcher := &stubFetcher{archives: map[int][]byte{
		2024: makeArchive(t, map[string]string{"notes.pdf": "x"}),
	}}
	p, _ := newTestPipeline(t, fetcher)

	_, err := p.Ingest(context.Background(), 2024)
	require.Error(t, err)

	var extErr *ExtractionError
	assert.True(t, errors.As(err, &extErr))
}

func TestIngestYears_BackfillNewestFirst(t *testing.T) {
	row := func(date string) string {
		return tableHeader + "\nGOLD - COMMODITY EXCHANGE INC.," + date + ",10,5,0,0,0,0,0,0\n"
	}
	fetcher := &stubFetcher{archives: map[int][]byte{
		2024: makeArchive(t, map[string]string{"f_year.txt": row("2024-06-04")}),
		2023: makeArchive(t, map[string]string{"f_year.txt": row("2023-06-06")}),
	}}

	p, st := newTestPipeline(t, fetcher)
	report, err := p.IngestYears(context.Background(), 2024, 2)
	require.NoError(t, err)

	assert.Equal(t, []int{2024, 2023}, fetcher.calls)
	assert.Equal(t, 2, report.RecordsWritten)

	recs, err := st.Latest(context.Background(), "GOLD", 10)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestIngestYears_AbortsOnStructuralFailure(t *testing.T) {
	fetcher := &stubFetcher{archives: map[int][]byte{
		2024: makeArchive(t, map[string]string{"f_year.txt": tableHeader + "\n"}),
	}}

	p, _ := newTestPipeline(t, fetcher)
	_, err := p.IngestYears(context.Background(), 2024, 3)
	require.Error(t, err)
	// 2023 is missing; the backfill must stop there and not request 2022.
	assert.Equal(t, []int{2024, 2023}, fetcher.calls)
}
