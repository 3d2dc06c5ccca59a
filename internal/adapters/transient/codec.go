package transient

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"noteboard/internal/domain"
)

// Codec turns snapshots into bytes and back.
type Codec interface {
	Name() string
	Marshal(s *Snapshot) ([]byte, error)
	Unmarshal(data []byte) (*Snapshot, error)
}

// JSONCodec is the canonical, human-readable encoding
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(s *Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

func (JSONCodec) Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &domain.ValidationError{Field: "snapshot", Message: fmt.Sprintf("decode json: %v", err)}
	}
	return &s, nil
}

// CBORCodec is the compact encoding used for network slots
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBORCodec builds a codec with canonical (deterministic) encoding
func NewCBORCodec() (*CBORCodec, error) {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor encoder: %w", err)
	}
	dec, err := cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("cbor decoder: %w", err)
	}
	return &CBORCodec{enc: enc, dec: dec}, nil
}

func (c *CBORCodec) Name() string { return "cbor" }

func (c *CBORCodec) Marshal(s *Snapshot) ([]byte, error) {
	return c.enc.Marshal(s)
}

func (c *CBORCodec) Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := c.dec.Unmarshal(data, &s); err != nil {
		return nil, &domain.ValidationError{Field: "snapshot", Message: fmt.Sprintf("decode cbor: %v", err)}
	}
	return &s, nil
}

// CodecByName returns the codec registered under name ("json" or "cbor").
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "cbor":
		c, err := NewCBORCodec()
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, &domain.ValidationError{Field: "codec", Message: fmt.Sprintf("unknown snapshot codec %q", name)}
}
