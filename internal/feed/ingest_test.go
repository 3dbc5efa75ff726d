package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yates-Labs/recap/internal/document"
	"github.com/Yates-Labs/recap/internal/logger"
	"github.com/Yates-Labs/recap/internal/render"
	"github.com/Yates-Labs/recap/internal/transcript"
)

type fakeSource struct {
	videos map[string]*Video
	errs   map[string]error
}

func (f *fakeSource) LatestVideo(ctx context.Context, rssURL string) (*Video, error) {
	if err := f.errs[rssURL]; err != nil {
		return nil, err
	}
	return f.videos[rssURL], nil
}

type fakeTranscripts struct {
	texts map[string]string
	err   error
}

func (f *fakeTranscripts) Fetch(ctx context.Context, videoURL string) (transcript.Transcript, error) {
	if f.err != nil {
		return transcript.Transcript{}, f.err
	}
	text, ok := f.texts[videoURL]
	if !ok {
		return transcript.Transcript{}, fmt.Errorf("%w: status 404", transcript.ErrNoTranscript)
	}
	return transcript.Transcript{Text: text, Language: "zh-Hant"}, nil
}

type createdPage struct {
	databaseID string
	video      document.VideoPage
	children   []document.Block
}

type fakeCreator struct {
	created []createdPage
	err     error
}

func (f *fakeCreator) CreateVideoPage(ctx context.Context, databaseID string, v document.VideoPage, children []document.Block) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, createdPage{databaseID, v, children})
	return fmt.Sprintf("page-%d", len(f.created)), nil
}

var taipei = time.FixedZone("Asia/Taipei", 8*3600)

func newTestIngestor(t *testing.T, src *fakeSource, tr *fakeTranscripts, pc *fakeCreator) *Ingestor {
	t.Helper()
	ing, err := NewIngestor(src, tr, pc, IngestConfig{DatabaseID: "db-1", ChunkSize: 10, Location: taipei}, logger.Nop())
	require.NoError(t, err)
	ing.now = func() time.Time { return time.Date(2025, 3, 1, 20, 0, 0, 0, taipei) }
	return ing
}

func TestNewIngestor_Validation(t *testing.T) {
	_, err := NewIngestor(nil, &fakeTranscripts{}, &fakeCreator{}, IngestConfig{DatabaseID: "db"}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewIngestor(&fakeSource{}, &fakeTranscripts{}, &fakeCreator{}, IngestConfig{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestIngestor_Run(t *testing.T) {
	today := time.Date(2025, 3, 1, 1, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 2, 28, 10, 0, 0, 0, time.UTC)

	src := &fakeSource{
		videos: map[string]*Video{
			"rss-a": {Title: "今天的影片", Link: "https://www.youtube.com/watch?v=a1", Published: today},
			"rss-b": {Title: "昨天的影片", Link: "https://www.youtube.com/watch?v=b1", Published: yesterday},
			"rss-c": {Title: "沒有字幕", Link: "https://www.youtube.com/watch?v=c1", Published: today},
		},
		errs: map[string]error{"rss-e": errors.New("feed down")},
	}
	tr := &fakeTranscripts{texts: map[string]string{
		"https://www.youtube.com/watch?v=a1": strings.Repeat("字", 15) + "\n\n第二段",
	}}
	pc := &fakeCreator{}

	report := newTestIngestor(t, src, tr, pc).Run(context.Background(), []Channel{
		{Name: "A", RSS: "rss-a"},
		{Name: "B", RSS: "rss-b"},
		{Name: "C", RSS: "rss-c"},
		{Name: "D", RSS: "rss-d"},
		{Name: "E", RSS: "rss-e"},
	})

	require.Len(t, report.Results, 5)
	outcomes := make([]Outcome, len(report.Results))
	for i, r := range report.Results {
		outcomes[i] = r.Outcome
	}
	assert.Equal(t, []Outcome{
		OutcomeCreated,
		OutcomeSkippedNotToday,
		OutcomeSkippedNoTranscript,
		OutcomeSkippedNoVideo,
		OutcomeFailed,
	}, outcomes)
	assert.Equal(t, 1, report.Created())
	assert.Equal(t, "page-1", report.Results[0].PageID)
	assert.Error(t, report.Results[4].Err)

	require.Len(t, pc.created, 1)
	page := pc.created[0]
	assert.Equal(t, "db-1", page.databaseID)
	assert.Equal(t, "A", page.video.Channel)
	assert.Equal(t, "今天的影片", page.video.Title)
	assert.Equal(t, today, page.video.PublishedAt)

	// 15 runes split at 10, then the second paragraph
	require.Len(t, page.children, 3)
	assert.Equal(t, strings.Repeat("字", 10), page.children[0].PlainText())
	assert.Equal(t, strings.Repeat("字", 5), page.children[1].PlainText())
	assert.Equal(t, "第二段", page.children[2].PlainText())
	for _, b := range page.children {
		assert.Equal(t, document.KindParagraph, b.Kind)
	}
}

func TestIngestor_TranscriptTransportErrorIsFailure(t *testing.T) {
	src := &fakeSource{videos: map[string]*Video{
		"rss": {Title: "v", Link: "https://www.youtube.com/watch?v=x", Published: time.Date(2025, 3, 1, 5, 0, 0, 0, taipei)},
	}}
	ing := newTestIngestor(t, src, &fakeTranscripts{err: errors.New("connection reset")}, &fakeCreator{})

	report := ing.Run(context.Background(), []Channel{{Name: "X", RSS: "rss"}})
	require.Len(t, report.Results, 1)
	assert.Equal(t, OutcomeFailed, report.Results[0].Outcome)
}

func TestIngestor_CreateFailure(t *testing.T) {
	src := &fakeSource{videos: map[string]*Video{
		"rss": {Title: "v", Link: "https://www.youtube.com/watch?v=x", Published: time.Date(2025, 3, 1, 5, 0, 0, 0, taipei)},
	}}
	tr := &fakeTranscripts{texts: map[string]string{"https://www.youtube.com/watch?v=x": "text"}}
	ing := newTestIngestor(t, src, tr, &fakeCreator{err: errors.New("notion down")})

	report := ing.Run(context.Background(), []Channel{{Name: "X", RSS: "rss"}, {Name: "Y", RSS: "missing"}})
	require.Len(t, report.Results, 2)
	assert.Equal(t, OutcomeFailed, report.Results[0].Outcome)
	assert.Equal(t, OutcomeSkippedNoVideo, report.Results[1].Outcome)
	assert.Zero(t, report.Created())
}

func TestIngestor_ChunkSizeCappedAtStoreLimit(t *testing.T) {
	src := &fakeSource{videos: map[string]*Video{
		"rss": {Title: "v", Link: "https://www.youtube.com/watch?v=x", Published: time.Date(2025, 3, 1, 5, 0, 0, 0, taipei)},
	}}
	tr := &fakeTranscripts{texts: map[string]string{"https://www.youtube.com/watch?v=x": strings.Repeat("字", 4000)}}
	pc := &fakeCreator{}

	ing, err := NewIngestor(src, tr, pc, IngestConfig{DatabaseID: "db-1", ChunkSize: 5000, Location: taipei}, nil)
	require.NoError(t, err)
	ing.now = func() time.Time { return time.Date(2025, 3, 1, 20, 0, 0, 0, taipei) }

	report := ing.Run(context.Background(), []Channel{{Name: "X", RSS: "rss"}})
	require.Equal(t, 1, report.Created())

	children := pc.created[0].children
	require.Len(t, children, 3)
	for _, b := range children {
		assert.LessOrEqual(t, len([]rune(b.PlainText())), render.DefaultChunkSize)
	}
}
