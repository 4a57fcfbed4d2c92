package stream

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/iamNilotpal/rotlog/internal/adapters/compression"
	"github.com/iamNilotpal/rotlog/internal/adapters/transform"
	"github.com/iamNilotpal/rotlog/internal/core/domain"
	"github.com/iamNilotpal/rotlog/internal/core/ports"
	"github.com/iamNilotpal/rotlog/internal/core/services/rotation"
	rerrors "github.com/iamNilotpal/rotlog/pkg/errors"
	"github.com/iamNilotpal/rotlog/pkg/fs"
	"github.com/iamNilotpal/rotlog/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
)

// plain formats items exactly like fmt.Sprint plus a newline.
var plain = ports.FormatterFunc(func(items []any, meta domain.Metadata) []byte {
	if len(items) == 0 {
		return nil
	}
	return []byte(fmt.Sprint(items...) + "\n")
})

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func openStream(t *testing.T, path string, opts ...Option) *Stream {
	t.Helper()
	s, err := Open(path, append([]Option{WithFormatter(plain)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesFileAndDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "app.log")
	s := openStream(t, path)

	assert.FileExists(t, path)
	assert.Equal(t, path, s.Path())
	assert.Zero(t, s.Size())
}

func TestOpenAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0644))

	s := openStream(t, path, WithLimits(1024, 3))
	assert.Equal(t, int64(9), s.Size())

	s.WriteRecord([]any{"appended"}, domain.Metadata{})
	require.NoError(t, s.Close())

	assert.Equal(t, "existing\nappended\n", readFile(t, path))
}

func TestOpenRejectsDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.Mkdir(path, 0755))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, rerrors.IsKind(err, rerrors.KindInvalidTarget))
}

func TestOpenValidatesOptions(t *testing.T) {
	dir := t.TempDir()

	_, err := Open("  ")
	assert.True(t, rerrors.IsValidationError(err))

	_, err = OpenWithLimits(filepath.Join(dir, "a.log"), -1, 3)
	assert.True(t, rerrors.IsValidationError(err))

	_, err = Open(filepath.Join(dir, "b.log"), WithOptions(domain.StreamOptions{ErrorBuffer: -2}))
	assert.True(t, rerrors.IsValidationError(err))

	_, err = Open(filepath.Join(dir, "c.log"), WithOptions(domain.StreamOptions{FilePermission: os.ModeDir | 0644}))
	assert.True(t, rerrors.IsValidationError(err))
}

func TestOpenRotatesOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 150), 0644))

	s := openStream(t, path, WithLimits(100, 3))

	assert.Zero(t, s.Size())
	assert.Empty(t, readFile(t, path))
	assert.Len(t, readFile(t, path+".1"), 150)
}

func TestSingleWriteCrossingLimitRotatesOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	s := openStream(t, path, WithLimits(10, 3))

	record := strings.Repeat("y", 24)
	s.WriteRecord([]any{record}, domain.Metadata{})

	assert.Zero(t, s.Size())
	assert.Empty(t, readFile(t, path))
	assert.Equal(t, record+"\n", readFile(t, path+".1"))
	assert.NoFileExists(t, path+".2")
}

func TestManyRotationsKeepBoundedBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	s := openStream(t, path, WithLimits(4, 3))

	for i := 0; i < 10; i++ {
		s.WriteRecord([]any{fmt.Sprintf("r%02d", i)}, domain.Metadata{})
	}
	require.NoError(t, s.Close())

	assert.ElementsMatch(t, []string{"app.log", "app.log.1", "app.log.2"}, listDir(t, dir))
	assert.Empty(t, readFile(t, path))
	assert.Equal(t, "r09\n", readFile(t, path+".1"))
	assert.Equal(t, "r08\n", readFile(t, path+".2"))
}

func TestSizeTracksBytesWritten(t *testing.T) {
	s := openStream(t, filepath.Join(t.TempDir(), "app.log"), WithLimits(1000, 2))

	s.WriteRecord([]any{"abc"}, domain.Metadata{})
	s.WriteRecord([]any{"de"}, domain.Metadata{})
	assert.Equal(t, int64(7), s.Size())

	// Nothing to write leaves the file alone.
	s.WriteRecord(nil, domain.Metadata{})
	assert.Equal(t, int64(7), s.Size())
}

func TestConcurrentWritesDoNotInterleave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	s := openStream(t, path)

	const writers, records = 8, 250
	var g errgroup.Group
	for w := 0; w < writers; w++ {
		g.Go(func() error {
			for i := 0; i < records; i++ {
				s.WriteRecord([]any{fmt.Sprintf("w%d-%04d", w, i)}, domain.Metadata{})
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.NoError(t, s.Close())

	lines := strings.Split(strings.TrimSuffix(readFile(t, path), "\n"), "\n")
	require.Len(t, lines, writers*records)

	next := make(map[string]int)
	for _, line := range lines {
		var w, i int
		_, err := fmt.Sscanf(line, "w%d-%04d", &w, &i)
		require.NoError(t, err, line)

		key := fmt.Sprint(w)
		assert.Equal(t, next[key], i, "writer %d out of order", w)
		next[key] = i + 1
	}
}

func TestConcurrentWritesWithRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	// Every record is 10 bytes, so each backup holds exactly 100 records.
	s := openStream(t, path, WithLimits(1000, 64))

	const writers, records = 4, 1000
	var g errgroup.Group
	for w := 0; w < writers; w++ {
		g.Go(func() error {
			for i := 0; i < records; i++ {
				s.WriteRecord([]any{fmt.Sprintf("w%d-%06d", w, i)}, domain.Metadata{})
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.NoError(t, s.Close())

	total := 0
	for _, name := range listDir(t, dir) {
		content := readFile(t, filepath.Join(dir, name))
		if name == "app.log" {
			assert.Empty(t, content)
			continue
		}

		assert.Len(t, content, 1000, name)
		for _, line := range strings.Split(strings.TrimSuffix(content, "\n"), "\n") {
			assert.Len(t, line, 9, name)
			total++
		}
	}
	assert.Equal(t, writers*records, total)
	assert.Len(t, listDir(t, dir), 41)
}

func TestManualRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	s := openStream(t, path, WithLimits(0, 3))

	s.WriteRecord([]any{"first"}, domain.Metadata{})
	require.NoError(t, s.Rotate())
	s.WriteRecord([]any{"second"}, domain.Metadata{})
	require.NoError(t, s.Flush())

	assert.Equal(t, "second\n", readFile(t, path))
	assert.Equal(t, "first\n", readFile(t, path+".1"))
}

func TestDisabledRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	s := openStream(t, path, WithLimits(5, 3), WithTrigger(nil))

	for i := 0; i < 5; i++ {
		s.WriteRecord([]any{"record"}, domain.Metadata{})
	}
	assert.Equal(t, []string{"app.log"}, listDir(t, dir))
	assert.Equal(t, int64(35), s.Size())

	noTransfer := openStream(t, filepath.Join(dir, "other.log"), WithLimits(5, 3), WithTransferPolicy(nil))
	noTransfer.WriteRecord([]any{"record"}, domain.Metadata{})
	require.NoError(t, noTransfer.Rotate())
	assert.ElementsMatch(t, []string{"app.log", "other.log"}, listDir(t, dir))
}

func TestWriteAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var handled []error
	s := openStream(t, path, WithErrorHandler(func(err error) { handled = append(handled, err) }))

	s.WriteRecord([]any{"before"}, domain.Metadata{})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	s.WriteRecord([]any{"after"}, domain.Metadata{})
	n, err := s.Write([]byte("raw\n"))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, rerrors.ErrStreamClosed)
	assert.ErrorIs(t, s.Rotate(), rerrors.ErrStreamClosed)
	assert.ErrorIs(t, s.Sync(), rerrors.ErrStreamClosed)

	require.Len(t, handled, 2)
	assert.ErrorIs(t, handled[0], rerrors.ErrStreamClosed)
	assert.Equal(t, uint64(2), s.Dropped())
	assert.Equal(t, "before\n", readFile(t, path))

	_, open := <-s.Errors()
	assert.False(t, open)
}

func TestTransformErrorsAreReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	reject := transform.Func(func(data []byte) ([]byte, error) {
		if bytes.Contains(data, []byte("secret")) {
			return nil, errors.New("refusing secret")
		}
		return data, nil
	})

	s := openStream(t, path, WithTransformers(reject), WithOptions(domain.StreamOptions{ErrorBuffer: 1}))

	s.WriteRecord([]any{"public"}, domain.Metadata{})
	s.WriteRecord([]any{"secret one"}, domain.Metadata{})
	s.WriteRecord([]any{"secret two"}, domain.Metadata{})

	err := <-s.Errors()
	assert.True(t, rerrors.IsKind(err, rerrors.KindTransform))
	assert.Equal(t, uint64(1), s.Dropped())

	assert.Equal(t, int64(7), s.Size())
	assert.Equal(t, "public\n", readFile(t, path))
}

func TestCompressedRecordsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	zstd, err := compression.NewZstd(*compression.DefaultOptions())
	require.NoError(t, err)
	defer zstd.Close()

	s := openStream(t, path, WithTransformers(zstd))
	s.WriteRecord([]any{"first"}, domain.Metadata{})
	s.WriteRecord([]any{"second"}, domain.Metadata{})
	require.NoError(t, s.Close())

	plainText, err := zstd.Decompress([]byte(readFile(t, path)))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(plainText))
}

func TestFramedRecordsAcrossRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	s := openStream(t, path, WithLimits(32, 4), WithTransformers(transform.NewFraming(nil)))

	for i := 0; i < 6; i++ {
		s.WriteRecord([]any{fmt.Sprintf("record number %d", i)}, domain.Metadata{})
	}
	require.NoError(t, s.Close())

	frames, err := transform.ReadFrames([]byte(readFile(t, path+".1")), nil)
	require.NoError(t, err)
	require.NotEmpty(t, frames)
	assert.Equal(t, "record number 5\n", string(frames[len(frames)-1]))
}

// failingTransfer never moves anything.
type failingTransfer struct {
	calls int
}

func (f *failingTransfer) Perform(string, bool) error {
	f.calls++
	return rerrors.NewStreamError(rerrors.KindIO, "rename", "app.log", os.ErrPermission)
}

func TestFailedRotationKeepsWritingToActiveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	transfer := &failingTransfer{}

	var mu sync.Mutex
	var handled []error
	s := openStream(t, path,
		WithLimits(8, 3),
		WithTransferPolicy(transfer),
		WithErrorHandler(func(err error) {
			mu.Lock()
			handled = append(handled, err)
			mu.Unlock()
		}),
	)

	s.WriteRecord([]any{"0123456789"}, domain.Metadata{})
	s.WriteRecord([]any{"abc"}, domain.Metadata{})
	require.NoError(t, s.Sync())

	assert.Equal(t, 2, transfer.calls)
	assert.Equal(t, []string{"app.log"}, listDir(t, dir))
	assert.Equal(t, "0123456789\nabc\n", readFile(t, path))
	assert.Equal(t, int64(15), s.Size())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, handled, 2)
	assert.ErrorIs(t, handled[0], os.ErrPermission)
}

func TestWriteReportsBytesWhenRotationFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	transfer := &failingTransfer{}
	s := openStream(t, path, WithLimits(8, 3), WithTransferPolicy(transfer))

	n, err := s.Write([]byte("0123456789\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, 11, n)
	assert.Equal(t, 1, transfer.calls)
	assert.Equal(t, "0123456789\n", readFile(t, path))
}

func TestOpenFailsWhenOversizedFileStaysInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("0123456789\n"), 0644))

	_, err := Open(path, WithLimits(8, 3), WithTransferPolicy(&failingTransfer{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, "0123456789\n", readFile(t, path))
}

// renameFailFS refuses to rename one base name.
type renameFailFS struct {
	*fs.LocalFileSystem
	name string
}

func (f *renameFailFS) Rename(oldPath, newPath string) error {
	if filepath.Base(oldPath) == f.name {
		return os.ErrPermission
	}
	return f.LocalFileSystem.Rename(oldPath, newPath)
}

func TestOpenSurvivesBackupOnlyRotationFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("0123456789\n"), 0644))
	require.NoError(t, os.WriteFile(path+".2", []byte("old\n"), 0644))

	fsys := &renameFailFS{LocalFileSystem: fs.NewLocalFileSystem(), name: "app.log.2"}
	s := openStream(t, path, WithLimits(8, 5), WithFileSystem(fsys))

	select {
	case err := <-s.Errors():
		assert.ErrorIs(t, err, os.ErrPermission)
	default:
		t.Fatal("expected the backup failure on the Errors channel")
	}

	assert.Equal(t, int64(0), s.Size())
	assert.Equal(t, "0123456789\n", readFile(t, path+".1"))
	assert.Equal(t, "old\n", readFile(t, path+".2"))

	s.WriteRecord([]any{"next"}, domain.Metadata{})
	require.NoError(t, s.Sync())
	assert.Equal(t, "next\n", readFile(t, path))
}

// dirTransfer replaces the active file with a directory.
type dirTransfer struct{}

func (dirTransfer) Perform(path string, _ bool) error {
	if err := os.Remove(path); err != nil {
		return err
	}
	return os.Mkdir(path, 0755)
}

func TestRotationLogsOldestBackupAndUnusablePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	core, logs := observer.New(zapcore.DebugLevel)

	s := openStream(t, path, WithLimits(8, 3), WithLogger(zap.New(core).Sugar()))
	require.NoError(t, os.WriteFile(path+".1", []byte("old\n"), 0644))
	s.WriteRecord([]any{"0123456789"}, domain.Metadata{})

	rotated := logs.FilterMessage("Rotated active file").All()
	require.Len(t, rotated, 1)
	assert.Equal(t, path+".2", rotated[0].ContextMap()["oldestBackup"])

	broken := openStream(t, filepath.Join(dir, "other.log"),
		WithLimits(8, 3), WithTransferPolicy(dirTransfer{}), WithLogger(zap.New(core).Sugar()))
	_, err := broken.Write([]byte("0123456789\n"))
	assert.True(t, rerrors.IsKind(err, rerrors.KindInvalidTarget), "%v", err)

	unusable := logs.FilterMessage("Active path is unusable, writes will keep failing until it is fixed").All()
	require.Len(t, unusable, 1)
	assert.Equal(t, zapcore.ErrorLevel, unusable[0].Level)
}

func TestZapWritesThroughStream(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	s := openStream(t, path, WithLimits(1<<20, 2))

	log := logger.NewFileLogger("rotlog-test", s, zapcore.InfoLevel)
	log.Info("hello from zap")
	log.Debug("filtered out")
	require.NoError(t, log.Sync())

	content := readFile(t, path)
	assert.Contains(t, content, `"message":"hello from zap"`)
	assert.Contains(t, content, `"service":"rotlog-test"`)
	assert.NotContains(t, content, "filtered out")
	assert.Equal(t, 1, strings.Count(content, "\n"))
}

func TestDefaultTransferPolicyUsesStreamOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	s := openStream(t, path, WithLimits(1, 0))

	s.WriteRecord([]any{"gone"}, domain.Metadata{})
	assert.Equal(t, []string{"app.log"}, listDir(t, dir))
	assert.Empty(t, readFile(t, path))

	_, ok := s.transfer.(*rotation.CountingTransferPolicy)
	assert.True(t, ok)
}
