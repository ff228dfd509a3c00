package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		sig  *Signature
	}{
		{name: "drawn", sig: NewDrawnSignature("data:image/png;base64,iVBOR")},
		{name: "typed", sig: NewTypedSignature("Anna", "style1")},
		{name: "aadhaar", sig: NewAadhaarSignature()},
		{name: "dsc", sig: NewDSCSignature()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.sig)
			require.NoError(t, err)

			var got Signature
			require.NoError(t, json.Unmarshal(b, &got))
			assert.Equal(t, *tt.sig, got)
		})
	}
}

func TestSignature_MixedShapeRejected(t *testing.T) {
	var got Signature
	err := json.Unmarshal([]byte(`{"kind":"aadhaar","name":"A"}`), &got)
	require.Error(t, err)

	err = json.Unmarshal([]byte(`{"kind":"drawn"}`), &got)
	require.Error(t, err)

	err = json.Unmarshal([]byte(`{"kind":"wax-seal"}`), &got)
	require.Error(t, err)
}

func TestSignature_ExclusiveAfterCommitShapes(t *testing.T) {
	typed := NewTypedSignature("A", "style1")
	require.NoError(t, typed.Validate())
	assert.Empty(t, typed.Image)

	drawn := NewDrawnSignature("data:image/png;base64,AAAA")
	require.NoError(t, drawn.Validate())
	assert.Empty(t, drawn.Name)
	assert.Empty(t, drawn.Style)
}

func TestDocument_AllSigned(t *testing.T) {
	doc := Document{Signers: []Signer{
		{Email: "a@x.com", Signature: NewTypedSignature("A", "style1")},
		{Email: "b@x.com"},
	}}
	assert.False(t, doc.AllSigned())

	doc.Signers[1].Signature = NewDrawnSignature("data:image/png;base64,AAAA")
	assert.True(t, doc.AllSigned())

	// Vacuously complete with no signers.
	assert.True(t, Document{}.AllSigned())
}
