package inputs

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/go-enry/go-enry/v2"
)

const sniffSize = 16 * 1024 // 16KB

// SourcePaths keeps the seeded files that are neither vendored, generated
// nor binary.
func SourcePaths(ctx context.Context, seed Seed) ([]string, error) {
	var out []string
	for _, f := range seed.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rel := relative(seed.Root, f)
		if enry.IsVendor(rel) {
			continue
		}

		content, err := readHead(f, sniffSize)
		if err != nil {
			return nil, err
		}
		if enry.IsGenerated(rel, content) || enry.IsBinary(content) {
			continue
		}

		out = append(out, f)
	}
	return out, nil
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}
