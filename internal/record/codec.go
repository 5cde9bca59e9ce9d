package record

import "github.com/fxamacker/cbor/v2"

// encMode uses core deterministic encoding so a payload always serializes to
// the same bytes. Record bodies feed equality checks in tests and cache
// entries, so encoding must not drift between runs.
var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("record: cbor encode mode: " + err.Error())
	}
	return em
}()

// Encode serializes a record payload to canonical CBOR.
func Encode(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Decode deserializes a record body into the target payload struct.
func Decode(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}
