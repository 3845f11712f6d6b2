package cache

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Chat exports are plain text and compress well; media bytes are stored as is.
var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

func compress(raw []byte) []byte {
	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)/3))
}

func decompress(blob []byte) ([]byte, error) {
	out, err := decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress chat: %w", err)
	}
	return out, nil
}
