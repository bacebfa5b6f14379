package codec

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic opens every ZStandard frame. Plain payloads start with a
// msgpack map header, never these bytes, so the prefix alone tells a
// compressed payload from an uncompressed one.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Encoder and decoder are created once and shared; EncodeAll and DecodeAll
// are safe for concurrent use.
var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdInitErr error
)

func zstdInit() error {
	zstdOnce.Do(func() {
		zstdEncoder, zstdInitErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if zstdInitErr != nil {
			zstdInitErr = fmt.Errorf("codec: failed to create zstd encoder: %w", zstdInitErr)
			return
		}
		zstdDecoder, zstdInitErr = zstd.NewReader(nil)
		if zstdInitErr != nil {
			zstdInitErr = fmt.Errorf("codec: failed to create zstd decoder: %w", zstdInitErr)
		}
	})
	return zstdInitErr
}

func isCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

func compress(data []byte) ([]byte, error) {
	if err := zstdInit(); err != nil {
		return nil, err
	}
	return zstdEncoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

func decompress(data []byte) ([]byte, error) {
	if err := zstdInit(); err != nil {
		return nil, err
	}
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("codec: failed to decompress payload: %w", err)
	}
	return out, nil
}
