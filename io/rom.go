package io

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"
)

// ZSTD_MAGIC starts every zstd frame.
var ZSTD_MAGIC = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Rom is a program image: big-endian 32-bit words, in execution order.
type Rom struct {
	Data []uint32
}

// Unmarshal loads a program image from a reader, replacing any existing data.
// Images compressed with zstd are expanded transparently.
func (rom *Rom) Unmarshal(file io.Reader) (err error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return
	}

	if bytes.HasPrefix(data, ZSTD_MAGIC) {
		var decoder *zstd.Decoder
		decoder, err = zstd.NewReader(nil)
		if err != nil {
			return
		}
		defer decoder.Close()

		length := len(data)
		data, err = decoder.DecodeAll(data, nil)
		if err != nil {
			err = &ErrRom{Length: length, Err: err}
			return
		}
	}

	if len(data)%4 != 0 {
		err = &ErrRom{Length: len(data), Err: ErrRomAlignment}
		return
	}

	words := make([]uint32, len(data)/4)
	for n := range words {
		words[n] = binary.BigEndian.Uint32(data[n*4:])
	}

	rom.Data = words

	return
}

// Bytes returns the image as big-endian bytes.
func (rom *Rom) Bytes() (data []byte) {
	data = make([]byte, 0, len(rom.Data)*4)
	for _, word := range rom.Data {
		data = binary.BigEndian.AppendUint32(data, word)
	}
	return
}

// Marshal writes the image to a writer.
func (rom *Rom) Marshal(file io.Writer) (err error) {
	_, err = file.Write(rom.Bytes())

	return
}

// MarshalCompressed writes the image to a writer as a zstd frame.
func (rom *Rom) MarshalCompressed(file io.Writer) (err error) {
	encoder, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return
	}

	_, err = encoder.Write(rom.Bytes())
	if err != nil {
		encoder.Close()
		return
	}

	err = encoder.Close()
	return
}
