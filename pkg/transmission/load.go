// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package transmission

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how a transmission file has been compressed.
type Compression uint8

const (
	// CompressionNone indicates an uncompressed file.
	CompressionNone Compression = iota
	// CompressionZstd indicates a zstd compressed file (".zst").
	CompressionZstd
	// CompressionLZ4 indicates an LZ4 frame compressed file (".lz4").
	CompressionLZ4
)

func (p Compression) String() string {
	switch p {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(p))
	}
}

// Encoding identifies how the (decompressed) contents of a transmission file
// represent its bits.
type Encoding uint8

const (
	// EncodingHex indicates hex digits, as accepted by ParseHex.
	EncodingHex Encoding = iota
	// EncodingBinary indicates raw bytes (".bin").
	EncodingBinary
)

// FormatOf determines the compression and encoding of a transmission file from
// its name.  For example, "input.bin.zst" is a zstd compressed binary file,
// whilst "input.txt" is an uncompressed hex file.
func FormatOf(filename string) (Compression, Encoding) {
	var compression = CompressionNone
	//
	switch path.Ext(filename) {
	case ".zst":
		compression = CompressionZstd
		filename = strings.TrimSuffix(filename, ".zst")
	case ".lz4":
		compression = CompressionLZ4
		filename = strings.TrimSuffix(filename, ".lz4")
	}
	//
	if path.Ext(filename) == ".bin" {
		return compression, EncodingBinary
	}
	//
	return compression, EncodingHex
}

// Load reads a transmission from the given file, where "-" denotes stdin.  The
// format of the file is determined from its name (see FormatOf), with stdin
// always treated as uncompressed hex.
func Load(filename string) (*Transmission, error) {
	if filename == "-" {
		return Read(os.Stdin, CompressionNone, EncodingHex)
	}
	//
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	//
	defer file.Close()
	//
	compression, encoding := FormatOf(filename)
	//
	t, err := Read(file, compression, encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return t, nil
}

// Read reads a transmission from a given reader, decompressing and decoding
// it as requested.
func Read(r io.Reader, compression Compression, encoding Encoding) (*Transmission, error) {
	bytes, err := decompress(r, compression)
	if err != nil {
		return nil, err
	}
	//
	if encoding == EncodingBinary {
		return New(bytes), nil
	}
	//
	return ParseHex(string(bytes))
}

func decompress(r io.Reader, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return io.ReadAll(r)
	case CompressionZstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		//
		defer decoder.Close()
		//
		bytes, err := io.ReadAll(decoder)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		//
		return bytes, nil
	case CompressionLZ4:
		bytes, err := io.ReadAll(lz4.NewReader(r))
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		//
		return bytes, nil
	}
	//
	return nil, fmt.Errorf("unsupported compression %s", compression)
}
