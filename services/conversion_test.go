package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vicradon/yt-playlist-mp3/models"
)

const defaultTestGrace = time.Minute

// fakeSource uses the real library ID check and serves canned audio.
type fakeSource struct {
	*YouTubeService
	noAudio map[string]bool

	mu     sync.Mutex
	opened []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{YouTubeService: NewYouTubeService(), noAudio: map[string]bool{}}
}

func (f *fakeSource) OpenAudio(ctx context.Context, videoID string) (io.ReadCloser, error) {
	f.mu.Lock()
	f.opened = append(f.opened, videoID)
	f.mu.Unlock()
	if f.noAudio[videoID] {
		return nil, fmt.Errorf("%w: %s", ErrNoAudioFormat, videoID)
	}
	return io.NopCloser(strings.NewReader("audio:" + videoID)), nil
}

type fakeEncoder struct {
	failWith   error
	skipOutput bool
	outputs    []string
}

func (e *fakeEncoder) Encode(ctx context.Context, input io.Reader, outputFile string) error {
	e.outputs = append(e.outputs, outputFile)
	data, err := io.ReadAll(input)
	if err != nil {
		return err
	}
	if e.skipOutput {
		return nil
	}
	// Leave a partial file behind like an interrupted ffmpeg run.
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return err
	}
	return e.failWith
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []models.DownloadRecord
	err     error
}

func (r *fakeRecorder) SaveDownload(record *models.DownloadRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return r.err
}

type pipelineFixture struct {
	source   *fakeSource
	encoder  *fakeEncoder
	recorder *fakeRecorder
	tempDir  string
	destDir  string
	svc      *ConversionService
	storage  *StorageService
}

func newPipeline(t *testing.T) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{
		source:   newFakeSource(),
		encoder:  &fakeEncoder{},
		recorder: &fakeRecorder{},
		tempDir:  t.TempDir(),
		destDir:  t.TempDir(),
	}
	f.storage = NewStorageService(f.destDir)
	f.svc = NewConversionService(f.source, f.encoder, f.storage, f.tempDir, 0)
	f.svc.SetRecorder(f.recorder)
	return f
}

func (f *pipelineFixture) tempFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.tempDir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestDownloadOne(t *testing.T) {
	f := newPipeline(t)

	res, err := f.svc.DownloadOne(context.Background(), models.DownloadRequest{VideoID: "dQw4w9WgXcQ", Title: "Çöl Şarkısı İyi"})
	if err != nil {
		t.Fatalf("DownloadOne() error = %v", err)
	}

	if !strings.HasPrefix(res.FileName, "Col Sarkisi Iyi_") || !strings.HasSuffix(res.FileName, ".mp3") {
		t.Errorf("FileName = %q", res.FileName)
	}
	if res.Path != filepath.Join(f.destDir, res.FileName) {
		t.Errorf("Path = %q, want inside %q", res.Path, f.destDir)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil || string(data) != "audio:dQw4w9WgXcQ" {
		t.Errorf("output = %q, %v", data, err)
	}
	if res.Size != int64(len("audio:dQw4w9WgXcQ")) {
		t.Errorf("Size = %d", res.Size)
	}
	if left := f.tempFiles(t); len(left) != 0 {
		t.Errorf("temp files left behind: %v", left)
	}
	if !strings.HasPrefix(filepath.Base(f.encoder.outputs[0]), TempFilePrefix) {
		t.Errorf("encoder wrote to %q, want temp_ prefix", f.encoder.outputs[0])
	}

	if len(f.recorder.records) != 1 {
		t.Fatalf("recorded %d downloads, want 1", len(f.recorder.records))
	}
	rec := f.recorder.records[0]
	if rec.Status != models.StatusCompleted || rec.Path != res.Path || rec.EndTime == nil || rec.ID == "" {
		t.Errorf("record = %+v", rec)
	}
}

func TestConvertFailures(t *testing.T) {
	tests := []struct {
		name    string
		videoID string
		setup   func(f *pipelineFixture)
		want    error
		encoded bool
	}{
		{
			name:    "invalid id",
			videoID: "bad",
			want:    ErrInvalidVideoID,
		},
		{
			name:    "no audio format",
			videoID: "dQw4w9WgXcQ",
			setup:   func(f *pipelineFixture) { f.source.noAudio["dQw4w9WgXcQ"] = true },
			want:    ErrNoAudioFormat,
		},
		{
			name:    "encoder failure",
			videoID: "dQw4w9WgXcQ",
			setup:   func(f *pipelineFixture) { f.encoder.failWith = errors.New("exit status 1") },
			want:    ErrTranscode,
			encoded: true,
		},
		{
			name:    "encoder produced nothing",
			videoID: "dQw4w9WgXcQ",
			setup:   func(f *pipelineFixture) { f.encoder.skipOutput = true },
			want:    ErrTempFileMissing,
			encoded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPipeline(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.svc.Convert(context.Background(), ConversionJob{
				VideoID:  tt.videoID,
				Title:    "Song",
				DestDir:  f.destDir,
				Token:    "tok",
				FileName: "Song_tok.mp3",
			})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Convert() error = %v, want %v", err, tt.want)
			}

			if got := len(f.encoder.outputs) > 0; got != tt.encoded {
				t.Errorf("encoder called = %v, want %v", got, tt.encoded)
			}
			if left := f.tempFiles(t); len(left) != 0 {
				t.Errorf("temp files left behind: %v", left)
			}
			if _, err := os.Stat(filepath.Join(f.destDir, "Song_tok.mp3")); !os.IsNotExist(err) {
				t.Errorf("destination file exists after failure: %v", err)
			}

			if len(f.recorder.records) != 1 || f.recorder.records[0].Status != models.StatusFailed {
				t.Errorf("records = %+v, want one failed record", f.recorder.records)
			}
		})
	}
}

func TestConvertRelocateFailureCleansTemp(t *testing.T) {
	f := newPipeline(t)

	// A regular file where the destination directory should be.
	blocker := filepath.Join(f.destDir, "blocked")
	writeFile(t, blocker, "")

	_, err := f.svc.Convert(context.Background(), ConversionJob{
		VideoID:  "dQw4w9WgXcQ",
		DestDir:  filepath.Join(blocker, "sub"),
		Token:    "tok",
		FileName: "x_tok.mp3",
	})
	if !errors.Is(err, ErrRelocate) {
		t.Fatalf("Convert() error = %v, want ErrRelocate", err)
	}
	if left := f.tempFiles(t); len(left) != 0 {
		t.Errorf("temp files left behind: %v", left)
	}
}

func TestConvertRecorderFailureDoesNotFailDownload(t *testing.T) {
	f := newPipeline(t)
	f.recorder.err = errors.New("connection refused")

	if _, err := f.svc.DownloadOne(context.Background(), models.DownloadRequest{VideoID: "dQw4w9WgXcQ", Title: "x"}); err != nil {
		t.Fatalf("DownloadOne() error = %v", err)
	}
}

func TestConvertGracePeriodHonoursCancel(t *testing.T) {
	f := newPipeline(t)
	f.svc.gracePeriod = defaultTestGrace

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Convert(ctx, ConversionJob{VideoID: "dQw4w9WgXcQ", DestDir: f.destDir, Token: "tok", FileName: "x_tok.mp3"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Convert() error = %v, want context.Canceled", err)
	}
	if msg := UserMessage(err); msg != "request cancelled" {
		t.Errorf("UserMessage() = %q, want %q", msg, "request cancelled")
	}
	if left := f.tempFiles(t); len(left) != 0 {
		t.Errorf("temp files left behind: %v", left)
	}
}

// rendezvousEncoder holds every Encode call until all expected calls have started.
type rendezvousEncoder struct {
	started sync.WaitGroup

	mu      sync.Mutex
	outputs []string
}

func (e *rendezvousEncoder) Encode(ctx context.Context, input io.Reader, outputFile string) error {
	e.mu.Lock()
	e.outputs = append(e.outputs, outputFile)
	e.mu.Unlock()

	e.started.Done()
	e.started.Wait()

	data, err := io.ReadAll(input)
	if err != nil {
		return err
	}
	return os.WriteFile(outputFile, data, 0644)
}

func TestConcurrentDownloadOneUseDistinctTempFiles(t *testing.T) {
	withFixedClock(t, time.UnixMilli(1700000000000))

	f := newPipeline(t)
	enc := &rendezvousEncoder{}
	enc.started.Add(2)
	f.svc.encoder = enc

	reqs := []models.DownloadRequest{
		{VideoID: "dQw4w9WgXcQ", Title: "First"},
		{VideoID: "aaaaaaaaaaa", Title: "Second"},
	}

	results := make([]*ConversionResult, len(reqs))
	errs := make([]error, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = f.svc.DownloadOne(context.Background(), req)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("DownloadOne(%s) error = %v", reqs[i].VideoID, err)
		}
	}
	if len(enc.outputs) != 2 || enc.outputs[0] == enc.outputs[1] {
		t.Fatalf("encoder outputs = %v, want two distinct temp files", enc.outputs)
	}
	for i, res := range results {
		data, err := os.ReadFile(res.Path)
		if want := "audio:" + reqs[i].VideoID; err != nil || string(data) != want {
			t.Errorf("%s = %q, %v; want %q", res.FileName, data, err, want)
		}
	}
	if left := f.tempFiles(t); len(left) != 0 {
		t.Errorf("temp files left behind: %v", left)
	}
}
