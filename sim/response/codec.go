package response

import (
	"compress/bzip2"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// ReadJSON decodes a field-response table from JSON and validates it.
func ReadJSON(r io.Reader) (*FieldResponse, error) {
	var fr FieldResponse
	if err := json.NewDecoder(r).Decode(&fr); err != nil {
		return nil, fmt.Errorf("response: decode json: %w", err)
	}
	if err := fr.Validate(); err != nil {
		return nil, err
	}
	return &fr, nil
}

// WriteJSON encodes fr as JSON.
func WriteJSON(w io.Writer, fr *FieldResponse) error {
	if err := json.NewEncoder(w).Encode(fr); err != nil {
		return fmt.Errorf("response: encode json: %w", err)
	}
	return nil
}

// ReadMsgpack decodes a field-response table from MessagePack, using the
// same field names as the JSON form, and validates it.
func ReadMsgpack(r io.Reader) (*FieldResponse, error) {
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")

	var fr FieldResponse
	if err := dec.Decode(&fr); err != nil {
		return nil, fmt.Errorf("response: decode msgpack: %w", err)
	}
	if err := fr.Validate(); err != nil {
		return nil, err
	}
	return &fr, nil
}

// WriteMsgpack encodes fr as MessagePack.
func WriteMsgpack(w io.Writer, fr *FieldResponse) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(fr); err != nil {
		return fmt.Errorf("response: encode msgpack: %w", err)
	}
	return nil
}

// LoadFile reads a field-response table, choosing the codec from the file
// extension: .json or .msgpack/.mpk, optionally followed by .gz or .bz2.
func LoadFile(path string) (*FieldResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	name := strings.ToLower(path)
	switch filepath.Ext(name) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("response: %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
		name = strings.TrimSuffix(name, ".gz")
	case ".bz2":
		r = bzip2.NewReader(f)
		name = strings.TrimSuffix(name, ".bz2")
	}

	switch filepath.Ext(name) {
	case ".json":
		return ReadJSON(r)
	case ".msgpack", ".mpk":
		return ReadMsgpack(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}
