package mmdbquery

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/go-mmdb/mmdbquery/callback"
)

// FuzzOpenBytes exercises database parsing — metadata location, search
// tree shape validation — against malformed and truncated input. It must
// never panic; every malformed input is expected to return an error.
func FuzzOpenBytes(f *testing.F) {
	f.Add([]byte("not an mmdb file"))
	f.Add([]byte{0x00, 0x01, 0x02, 0x03})
	f.Add(bytes.Repeat([]byte{0xFF}, 1024))
	f.Add([]byte{})
	f.Add([]byte("\xAB\xCD\xEFMaxMind.com"))
	f.Add(buildMinimalDatabase(nil))

	f.Fuzz(func(t *testing.T, data []byte) {
		reader, err := OpenBytes(data)
		if err != nil {
			return
		}
		defer reader.Close()

		var matched bool
		record := callback.NewRecordBuilder[*bool]()
		record.OnNetwork(func(found *bool, _ []byte, _ int) error {
			*found = true
			return nil
		})
		built := record.Build()
		for _, addr := range [][]byte{
			{1, 1, 1, 1},
			{0, 0, 0, 0},
			net6Loopback(),
		} {
			matched = false
			_ = Lookup(reader, addr, &built, &matched)
		}
	})
}

// FuzzDecodeRecord seeds the streaming decoder directly with fuzzed
// data-section bytes, dispatched against a callback tree that asks for a
// text, an integer, a float, and an array of booleans, matching the shapes
// exercised in the decoder's own hex-fixture tests.
func FuzzDecodeRecord(f *testing.F) {
	seeds := []string{
		recordHexSeed,
		"0007",
		"0107",
		"680000000000000000",
		"04083F800000",
		"a20064",
		"e1416100" + "0107",
		"020401070007",
		"426869",
		"2000",
	}
	for _, s := range seeds {
		if raw, err := hex.DecodeString(s); err == nil {
			f.Add(raw)
		}
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) == 0 || len(data) > 4096 {
			return
		}
		reader, err := OpenBytes(buildMinimalDatabase(data))
		if err != nil {
			return
		}
		defer reader.Close()

		rb := callback.NewRecordBuilder[*struct{}]()
		rb.Text("name", func(*struct{}, []byte) error { return nil })
		rb.Int("age", func(*struct{}, int64) error { return nil })
		rb.Float("score", func(*struct{}, float64) error { return nil })
		rb.Array("tags", nil, func(*struct{}, int, int) (callback.Node[*struct{}], error) {
			return callback.BoolCallback[*struct{}]{}, nil
		}, nil)
		built := rb.Build()

		var s struct{}
		_ = Lookup(reader, []byte{1, 1, 1, 1}, &built, &s)
	})
}

const recordHexSeed = "E5" +
	"446E616D65" + "42416C" +
	"43616765" + "A20005" +
	"4573636f7265" + "680000000000000000" +
	"4474616773" + "0204" + "0107" + "0007" +
	"456578747261" + "C203E7"

func net6Loopback() []byte {
	addr := make([]byte, 16)
	addr[15] = 1
	return addr
}

// buildMinimalDatabase assembles the smallest valid MMDB shell around
// recordData: a one-node, 24-bit-record search tree whose every branch
// points straight at the data section (or is empty, if recordData is
// nil), followed by the 16-byte separator, recordData itself, and a
// metadata map encoding node_count=1, record_size=24, ip_version=4.
func buildMinimalDatabase(recordData []byte) []byte {
	const nodeCount = 1
	const recordSize = 24

	// Both records of the single node either carry the "empty" sentinel
	// (value == nodeCount) or a data pointer to the data section's first
	// byte: record_value - nodeCount + search_tree_size == search_tree_size
	// + dataSectionSeparatorSize, i.e. record_value == nodeCount +
	// dataSectionSeparatorSize.
	var tree []byte
	if recordData == nil {
		tree = []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x01} // both == nodeCount: empty
	} else {
		v := byte(nodeCount + dataSectionSeparatorSize)
		tree = []byte{0x00, 0x00, v, 0x00, 0x00, v}
	}

	separator := make([]byte, 16)

	metadata := buildMinimalMetadata(nodeCount, recordSize)

	buf := make([]byte, 0, len(tree)+len(separator)+len(recordData)+len(metadata))
	buf = append(buf, tree...)
	buf = append(buf, separator...)
	buf = append(buf, recordData...)
	buf = append(buf, metadata...)
	return buf
}

// buildMinimalMetadata hand-encodes the metadata map
// {"node_count": nodeCount, "record_size": recordSize, "ip_version": 4,
// "binary_format_major_version": 2, "binary_format_minor_version": 0,
// "database_type": "fuzz", "languages": [], "description": {},
// "build_epoch": 0} preceded by the metadata start marker.
func buildMinimalMetadata(nodeCount, recordSize int) []byte {
	var buf bytes.Buffer
	buf.Write(metadataStartMarker)

	fields := [][2]string{
		{"node_count", "uint"},
		{"record_size", "uint"},
		{"ip_version", "uint"},
		{"binary_format_major_version", "uint"},
		{"binary_format_minor_version", "uint"},
		{"build_epoch", "uint"},
	}
	values := map[string]int{
		"node_count":                   nodeCount,
		"record_size":                  recordSize,
		"ip_version":                   4,
		"binary_format_major_version":  2,
		"binary_format_minor_version":  0,
		"build_epoch":                  0,
	}

	n := len(fields) + 3 // + database_type, languages, description
	buf.WriteByte(byte((7 << 5) | n))
	for _, field := range fields {
		writeString(&buf, field[0])
		writeUint32(&buf, uint32(values[field[0]]))
	}
	writeString(&buf, "database_type")
	writeString(&buf, "fuzz")
	writeString(&buf, "languages")
	buf.WriteByte(0x00) // extended
	buf.WriteByte(0x04) // array, size 0
	writeString(&buf, "description")
	buf.WriteByte(byte(7 << 5)) // empty map

	return buf.Bytes()
}

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte(byte((2 << 5) | len(s)))
	buf.WriteString(s)
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	buf.WriteByte(byte((6 << 5) | 4))
	buf.WriteByte(byte(v >> 24))
	buf.WriteByte(byte(v >> 16))
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v))
}
