// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var encMode, decMode = modes()

// modes builds the deterministic encoder and the decoder used for all
// engine values. Maps decode as map[string]any so decoded payloads can
// be re-emitted as JSON.
func modes() (cbor.EncMode, cbor.DecMode) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: building CBOR encoder: " + err.Error())
	}
	dec, err := cbor.DecOptions{
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		MaxNestedLevels: 64,
	}.DecMode()
	if err != nil {
		panic("codec: building CBOR decoder: " + err.Error())
	}
	return enc, dec
}

// Marshal encodes v deterministically.
func Marshal(v any) ([]byte, error) { return encMode.Marshal(v) }

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any) error { return decMode.Unmarshal(data, v) }

// Encoder writes a sequence of CBOR items.
type Encoder = cbor.Encoder

// NewEncoder returns a stream encoder writing one item per Encode call.
func NewEncoder(w io.Writer) *Encoder { return encMode.NewEncoder(w) }

// NewDecoder returns a stream decoder for the items NewEncoder writes.
func NewDecoder(r io.Reader) *cbor.Decoder { return decMode.NewDecoder(r) }

// Diagnose renders data in CBOR diagnostic notation, used when
// debugging a captured output stream.
func Diagnose(data []byte) (string, error) { return cbor.Diagnose(data) }
