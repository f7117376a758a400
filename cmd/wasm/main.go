//go:build js && wasm

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/katzenpost/hpqc/nike"
	"github.com/katzenpost/hpqc/rand"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/parameters"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/protocol/action"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/nike/classical"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/nike/csidhnike"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/nike/hybrid"
)

// party is one key pair held on the Go side. Private keys never cross
// into JS.
type party struct {
	scheme nike.Scheme
	priv   nike.PrivateKey
	pub    nike.PublicKey
}

// Key: party handle (hex string)
var parties = make(map[string]*party)

func main() {
	c := make(chan struct{}, 0)

	fmt.Println("CSIDH WASM Initialized")

	js.Global().Set("GoCSIDH", map[string]interface{}{
		"NewParty": js.FuncOf(NewParty),
		"Derive":   js.FuncOf(Derive),
		"Validate": js.FuncOf(Validate),
		"Release":  js.FuncOf(Release),
	})

	<-c
}

type schemeInput struct {
	Params  string `json:"params"`
	Variant string `json:"variant"`
	Hybrid  string `json:"hybrid"`
}

func (in *schemeInput) scheme() (nike.Scheme, error) {
	params, err := parameters.ByName(in.Params)
	if err != nil {
		return nil, err
	}
	variant := csidh.MeyerReith
	if in.Variant != "" {
		if variant, err = csidh.ParseVariant(in.Variant); err != nil {
			return nil, err
		}
	}
	pq := csidhnike.NewScheme(params, variant)
	if in.Hybrid == "" {
		return pq, nil
	}
	cl, err := classical.ByName(in.Hybrid)
	if err != nil {
		return nil, err
	}
	return hybrid.New("", pq, cl), nil
}

// NewParty generates a key pair.
// Arguments:
// 0: JSON string {"params": "csidh-512", "variant": "meyer-reith", "hybrid": ""}
// Returns:
// JSON string {"party": handle, "scheme": name, "publicKey": hex} or an error string
func NewParty(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (jsonParams)"
	}

	var input schemeInput
	if err := json.Unmarshal([]byte(args[0].String()), &input); err != nil {
		return fmt.Sprintf("error: invalid json: %v", err)
	}
	s, err := input.scheme()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	pub, priv, err := s.GenerateKeyPair()
	if err != nil {
		return fmt.Sprintf("error: key generation failed: %v", err)
	}

	var id [16]byte
	if _, err := rand.Reader.Read(id[:]); err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	handle := hex.EncodeToString(id[:])
	parties[handle] = &party{scheme: s, priv: priv, pub: pub}

	resp := map[string]interface{}{
		"party":     handle,
		"scheme":    s.Name(),
		"publicKey": hex.EncodeToString(pub.Bytes()),
	}
	respBytes, _ := json.Marshal(resp)
	return string(respBytes)
}

// Derive computes the shared secret with a peer.
// Arguments:
// 0: party handle
// 1: peer public key (hex, as returned by NewParty)
// Returns:
// shared secret (hex) or an error string
func Derive(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (party, peerPublicKey)"
	}
	p, ok := parties[args[0].String()]
	if !ok {
		return "error: party not found"
	}
	raw, err := hex.DecodeString(args[1].String())
	if err != nil {
		return fmt.Sprintf("error: invalid hex data: %v", err)
	}
	peer, err := p.scheme.UnmarshalBinaryPublicKey(raw)
	if err != nil {
		return fmt.Sprintf("error: invalid public key: %v", err)
	}

	var secret []byte
	if s, ok := p.scheme.(*csidhnike.Scheme); ok {
		secret, err = s.DeriveSecretChecked(p.priv, peer)
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
	} else if secret = p.scheme.DeriveSecret(p.priv, peer); secret == nil {
		return "error: peer public key rejected"
	}
	return hex.EncodeToString(secret)
}

// Validate checks a CSIDH public key.
// Arguments:
// 0: parameter set name
// 1: curve coefficient, big-endian hex
// Returns:
// bool or an error string
func Validate(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (params, coefficient)"
	}
	params, err := parameters.ByName(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	pk, err := csidh.ParsePublicKey(args[1].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	ok, err := action.Validate(params, &pk)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return ok
}

// Release wipes and forgets a party.
// Arguments:
// 0: party handle
func Release(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (party)"
	}
	handle := args[0].String()
	if p, ok := parties[handle]; ok {
		p.priv.Reset()
		delete(parties, handle)
	}
	return nil
}
