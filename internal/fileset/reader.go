package fileset

import (
	"bytes"
	"context"
	"io"

	"gitlab.com/tozd/go/errors"
)

// readChunk bounds how much is read between cancellation checks.
const readChunk = 256 << 10

// ReadAll materialises the raw bytes of f. The context is checked before the file is
// opened and between chunks, so a cancelled compile stops at the next boundary.
func ReadAll(ctx context.Context, f InputFile) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Source == nil {
		return nil, errors.Errorf("read %q: no source", f.Name)
	}
	rc, err := f.Source.Open()
	if err != nil {
		return nil, errors.Errorf("open %q: %w", f.Name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if f.Size > 0 {
		buf.Grow(int(f.Size))
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := io.CopyN(&buf, rc, readChunk); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Errorf("read %q: %w", f.Name, err)
		}
	}
	return buf.Bytes(), nil
}
