// Package blocks segments a byte stream into fixed-size blocks and measures
// the entropy of each one.
package blocks

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"

	"github.com/alexshd/shannon"
)

// DefaultBlockSize matches the block size most entropy plots are drawn at.
const DefaultBlockSize = 1024

// ErrInvalidBlockSize is returned when a Scanner is used with a block size of zero or less.
var ErrInvalidBlockSize = errors.New("block size must be positive")

// Result is the entropy series of one stream.
type Result struct {
	Samples []shannon.Sample[float32]
	Bytes   int64  // Total bytes read
	Digest  string // Hex SHA3-256 of the whole stream
}

// Scanner reads a stream block by block. Blocks are read sequentially;
// their entropy is computed on up to Workers goroutines.
type Scanner struct {
	BlockSize int
	Workers   int          // 0 = runtime.NumCPU()
	Logger    *slog.Logger // nil = slog.Default()
}

// New returns a Scanner with the given block size and default concurrency.
func New(blockSize int) Scanner {
	return Scanner{BlockSize: blockSize}
}

// ScanFile opens path and scans it.
func (s Scanner) ScanFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	res, err := s.Scan(ctx, f)
	if err != nil {
		return Result{}, fmt.Errorf("scan %s: %w", path, err)
	}
	return res, nil
}

// Scan reads r until EOF. Block indices are zero-based in read order and the
// last block may be shorter than BlockSize. An empty stream yields no samples.
func (s Scanner) Scan(ctx context.Context, r io.Reader) (Result, error) {
	if s.BlockSize <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidBlockSize, s.BlockSize)
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	digest := sha3.New256()
	tee := io.TeeReader(r, digest)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	// Workers write through their own pointer; only this goroutine appends.
	var (
		pending []*shannon.Sample[float32]
		total   int64
		readErr error
	)

	for index := 0; ; index++ {
		if err := gctx.Err(); err != nil {
			readErr = err
			break
		}

		buf := make([]byte, s.BlockSize)
		n, err := io.ReadFull(tee, buf)
		if n > 0 {
			total += int64(n)
			sample := &shannon.Sample[float32]{Index: index}
			pending = append(pending, sample)

			block := buf[:n]
			g.Go(func() error {
				sample.Entropy = shannon.Entropy[float32](block)
				return nil
			})
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			readErr = fmt.Errorf("read block %d: %w", index, err)
			break
		}
	}

	if err := g.Wait(); err != nil && readErr == nil {
		readErr = err
	}
	if readErr != nil {
		return Result{}, readErr
	}

	samples := make([]shannon.Sample[float32], len(pending))
	for i, p := range pending {
		samples[i] = *p
	}

	logger.Debug("stream scanned",
		"blocks", len(samples),
		"bytes", total,
		"block_size", s.BlockSize,
		"workers", workers)

	return Result{
		Samples: samples,
		Bytes:   total,
		Digest:  hex.EncodeToString(digest.Sum(nil)),
	}, nil
}
