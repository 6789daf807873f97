package transaction

import (
	"encoding/json"
	"errors"

	"github.com/n3core/neogo/pkg/io"
)

// MaxInvocationScript and MaxVerificationScript bound the two scripts a
// Witness may carry; both are enforced on deserialization.
const (
	MaxInvocationScript   = 1024
	MaxVerificationScript = 1024
)

// Witness is the pair of scripts proving a Signer authorized a transaction:
// invocation pushes arguments (typically signatures), verification decides
// whether the witness is satisfied and must hash to the signer's account
// unless the signer is a deployed contract.
type Witness struct {
	InvocationScript   []byte `json:"invocation"`
	VerificationScript []byte `json:"verification"`
}

// EncodeBinary implements the io.Serializable interface.
func (w *Witness) EncodeBinary(bw *io.BinWriter) {
	bw.WriteVarBytes(w.InvocationScript)
	bw.WriteVarBytes(w.VerificationScript)
}

// DecodeBinary implements the io.Serializable interface.
func (w *Witness) DecodeBinary(br *io.BinReader) {
	w.InvocationScript = br.ReadVarBytes(MaxInvocationScript)
	w.VerificationScript = br.ReadVarBytes(MaxVerificationScript)
	if br.Err == nil && (len(w.InvocationScript) > MaxInvocationScript || len(w.VerificationScript) > MaxVerificationScript) {
		br.Err = errors.New("transaction: witness script too long")
	}
}

type witnessAux struct {
	Invocation   []byte `json:"invocation"`
	Verification []byte `json:"verification"`
}

// MarshalJSON implements the json.Marshaler interface.
func (w *Witness) MarshalJSON() ([]byte, error) {
	return json.Marshal(witnessAux{Invocation: w.InvocationScript, Verification: w.VerificationScript})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (w *Witness) UnmarshalJSON(data []byte) error {
	var aux witnessAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	w.InvocationScript = aux.Invocation
	w.VerificationScript = aux.Verification
	return nil
}

// Copy returns a duplicate of w with independently-owned script slices.
func (w Witness) Copy() Witness {
	return Witness{
		InvocationScript:   append([]byte(nil), w.InvocationScript...),
		VerificationScript: append([]byte(nil), w.VerificationScript...),
	}
}
