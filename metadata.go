package mmdbquery

import (
	"github.com/mitchellh/mapstructure"

	"github.com/go-mmdb/mmdbquery/internal/byterange"
	"github.com/go-mmdb/mmdbquery/internal/decoder"
	"github.com/go-mmdb/mmdbquery/internal/mmdberrors"
)

const dataSectionSeparatorSize = 16

var metadataStartMarker = []byte("\xAB\xCD\xEFMaxMind.com")

// Metadata describes the database a [Reader] has opened: its format
// version, the type and languages of the data it carries, and the search
// tree's shape.
type Metadata struct {
	BinaryFormatMajorVersion uint              `mmdbquery:"binary_format_major_version"`
	BinaryFormatMinorVersion uint              `mmdbquery:"binary_format_minor_version"`
	BuildEpoch               uint              `mmdbquery:"build_epoch"`
	DatabaseType             string            `mmdbquery:"database_type"`
	Description              map[string]string `mmdbquery:"description"`
	IPVersion                uint              `mmdbquery:"ip_version"`
	Languages                []string          `mmdbquery:"languages"`
	NodeCount                uint              `mmdbquery:"node_count"`
	RecordSize               uint              `mmdbquery:"record_size"`
}

// SearchTreeSize returns the byte length of the search tree that precedes
// the 16-byte separator and the data section.
func (m Metadata) SearchTreeSize() uint {
	return m.NodeCount * m.RecordSize / 4
}

// locateMetadataStart scans backward for the metadata marker and returns
// the offset of the metadata map that follows it.
func locateMetadataStart(br byterange.Range) (uint, error) {
	idx := br.LastIndex(metadataStartMarker)
	if idx == -1 {
		return 0, mmdberrors.NewInvalidDatabaseError(
			"could not find a MaxMind DB metadata marker in this file; is this a valid database?",
		)
	}
	return uint(idx) + uint(len(metadataStartMarker)), nil
}

// decodeMetadata materializes and unmarshals the metadata map at start.
func decodeMetadata(br byterange.Range, start uint) (Metadata, error) {
	d := decoder.New(br, 0)
	raw, err := decoder.DecodeAny(&d, start)
	if err != nil {
		return Metadata{}, err
	}

	var metadata Metadata
	config := &mapstructure.DecoderConfig{
		TagName: "mmdbquery",
		Result:  &metadata,
	}
	metadataDecoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return Metadata{}, err
	}
	if err := metadataDecoder.Decode(raw); err != nil {
		return Metadata{}, err
	}
	return metadata, nil
}
