package mmdbquery

import (
	"github.com/mitchellh/mapstructure"

	"github.com/go-mmdb/mmdbquery/internal/decoder"
)

// Decode is the non-core, non-zero-alloc convenience path: it fully
// materializes the matched record and unmarshals it onto v via
// mapstructure (tag name "mmdbquery"), the way callers who would rather
// not build a callback tree can still get a usable result. It allocates a
// generic map[string]any/[]any tree per call; [Lookup] with a callback
// tree is the path that does not.
//
// Decode reports found=false, with a nil error, when the address has no
// matching data record.
func (r *Reader) Decode(address []byte, v any) (found bool, err error) {
	offset, found, _, err := r.findAddress(address)
	if err != nil || !found {
		return false, err
	}

	d := decoder.New(r.br, r.pointerBase)
	raw, err := decoder.DecodeAny(&d, offset)
	if err != nil {
		return false, err
	}

	config := &mapstructure.DecoderConfig{
		TagName: "mmdbquery",
		Result:  v,
	}
	dec, err := mapstructure.NewDecoder(config)
	if err != nil {
		return false, err
	}
	if err := dec.Decode(raw); err != nil {
		return false, err
	}
	return true, nil
}
