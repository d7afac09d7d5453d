// Package snapshotcodec stores game snapshots as zstd-compressed JSON and checks every decoded
// snapshot against an embedded JSON schema before it reaches the game.
package snapshotcodec

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"forager/internal/domain/game"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// MaxDecodedBytes bounds the inflated size of one blob.
const MaxDecodedBytes = 8 << 20

const schemaURL = "snapshot.schema.json"

//go:embed snapshot.schema.json
var schemaJSON []byte

// Codec is safe for concurrent use.
type Codec struct {
	schema *jsonschema.Schema
	enc    *zstd.Encoder
	dec    *zstd.Decoder
}

func New() (*Codec, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add snapshot schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxDecodedBytes))
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &Codec{schema: schema, enc: enc, dec: dec}, nil
}

func (c *Codec) Close() {
	c.enc.Close()
	c.dec.Close()
}

func (c *Codec) Encode(snap game.Snapshot) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return c.enc.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

func (c *Codec) Decode(blob []byte) (game.Snapshot, error) {
	raw, err := c.dec.DecodeAll(blob, nil)
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("%w: decompress: %v", ErrInvalidSnapshot, err)
	}
	return c.DecodeJSON(raw)
}

// DecodeJSON validates and decodes an uncompressed snapshot document.
func (c *Codec) DecodeJSON(raw []byte) (game.Snapshot, error) {
	if err := c.Validate(raw); err != nil {
		return game.Snapshot{}, err
	}
	var snap game.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return game.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return snap, nil
}

func (c *Codec) Validate(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := c.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return nil
}
