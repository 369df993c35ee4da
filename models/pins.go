package models

import (
	"sort"

	"github.com/multiformats/go-multihash"
)

type PinRecord struct {
	Hash string `json:"hash"`
}

type PinPage struct {
	Hashes []PinRecord `json:"hashes"`
}

// PinSet deduplicates content identifiers by their raw bytes.
type PinSet map[string]multihash.Multihash

func NewPinSet() PinSet {
	return make(PinSet)
}

// Add inserts the multihash and reports whether it was new.
func (p PinSet) Add(mh multihash.Multihash) bool {
	key := string(mh)
	if _, found := p[key]; found {
		return false
	}
	p[key] = mh
	return true
}

func (p PinSet) Contains(mh multihash.Multihash) bool {
	_, found := p[string(mh)]
	return found
}

// Strings returns the base58 form of every member, sorted.
func (p PinSet) Strings() []string {
	out := make([]string, 0, len(p))
	for _, mh := range p {
		out = append(out, mh.B58String())
	}
	sort.Strings(out)
	return out
}
