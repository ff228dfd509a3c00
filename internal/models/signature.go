package models

import (
	"encoding/json"
	"fmt"
)

// SignatureKind discriminates the mutually exclusive signature encodings.
type SignatureKind string

const (
	// SignatureDrawn carries a raster image captured from a signature pad.
	SignatureDrawn SignatureKind = "drawn"
	// SignatureTyped carries a name rendered in one of the preset styles.
	SignatureTyped SignatureKind = "typed"
	// SignatureAadhaar and SignatureDSC are sentinel kinds recorded after the
	// simulated identity-bound flows; they carry no payload.
	SignatureAadhaar SignatureKind = "aadhaar"
	SignatureDSC     SignatureKind = "dsc"
)

// Signature is a tagged union: exactly one shape is populated, selected by
// Kind. Use the constructors; a zero Signature is not valid.
type Signature struct {
	Kind SignatureKind

	// Image is the data payload of a drawn signature (data URL).
	Image string

	// Name and Style belong to a typed signature.
	Name  string
	Style string
}

func NewDrawnSignature(image string) *Signature {
	return &Signature{Kind: SignatureDrawn, Image: image}
}

func NewTypedSignature(name, style string) *Signature {
	return &Signature{Kind: SignatureTyped, Name: name, Style: style}
}

func NewAadhaarSignature() *Signature {
	return &Signature{Kind: SignatureAadhaar}
}

func NewDSCSignature() *Signature {
	return &Signature{Kind: SignatureDSC}
}

// Validate checks that the populated fields match the discriminant.
func (s *Signature) Validate() error {
	switch s.Kind {
	case SignatureDrawn:
		if s.Image == "" || s.Name != "" || s.Style != "" {
			return fmt.Errorf("drawn signature: unexpected shape")
		}
	case SignatureTyped:
		if s.Name == "" || s.Image != "" {
			return fmt.Errorf("typed signature: unexpected shape")
		}
	case SignatureAadhaar, SignatureDSC:
		if s.Image != "" || s.Name != "" || s.Style != "" {
			return fmt.Errorf("%s signature: unexpected payload", s.Kind)
		}
	default:
		return fmt.Errorf("unknown signature kind %q", s.Kind)
	}
	return nil
}

type signatureJSON struct {
	Kind  SignatureKind `json:"kind"`
	Image string        `json:"image,omitempty"`
	Name  string        `json:"name,omitempty"`
	Style string        `json:"style,omitempty"`
}

func (s Signature) MarshalJSON() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(signatureJSON{Kind: s.Kind, Image: s.Image, Name: s.Name, Style: s.Style})
}

func (s *Signature) UnmarshalJSON(b []byte) error {
	var v signatureJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	decoded := Signature{Kind: v.Kind, Image: v.Image, Name: v.Name, Style: v.Style}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*s = decoded
	return nil
}
