package cadence

import (
	"bytes"
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
)

// Save writes the network to filename as a gob stream. The concrete layer
// types must be registered with encoding/gob, which the layers package does
// for its own types.
func (n *Network) Save(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	enc := gob.NewEncoder(f)
	return errors.Wrapf(enc.Encode(n), "save network to %q", filename)
}

// Load reads one network from a model file written by Save.
func Load(filename string) (*Network, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	nn := new(Network)
	dec := gob.NewDecoder(f)
	if err = dec.Decode(nn); err != nil {
		return nil, errors.Wrapf(err, "load network from %q", filename)
	}
	return nn, nil
}

// GobEncode implements gob.GobEncoder.
func (n *Network) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(n.layers); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (n *Network) GobDecode(p []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(p))
	return dec.Decode(&n.layers)
}
