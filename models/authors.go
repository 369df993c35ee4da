package models

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// MetaRecord is one raw entry of the authors registry.
type MetaRecord struct {
	Meta   string `json:"meta"`
	Sender string `json:"sender"`
}

type AuthorRecord struct {
	Address common.Address
	IsAdd   bool
}

// AuthorSet folds author records with last-write-wins semantics, remembering first-seen order.
type AuthorSet struct {
	order   []common.Address
	actions map[common.Address]bool
}

func NewAuthorSet() *AuthorSet {
	return &AuthorSet{actions: make(map[common.Address]bool)}
}

func (s *AuthorSet) Apply(record AuthorRecord) {
	if _, found := s.actions[record.Address]; !found {
		s.order = append(s.order, record.Address)
	}
	s.actions[record.Address] = record.IsAdd
}

// Len is the number of distinct addresses seen, authorized or not.
func (s *AuthorSet) Len() int {
	return len(s.actions)
}

func (s *AuthorSet) IsAuthorized(address common.Address) bool {
	return s.actions[address]
}

// Authorized returns the addresses whose latest record was an add.
func (s *AuthorSet) Authorized() []common.Address {
	authorized := make([]common.Address, 0, len(s.order))
	for _, address := range s.order {
		if s.actions[address] {
			authorized = append(authorized, address)
		}
	}
	return authorized
}

// FormatAddress renders an address as 0x followed by 40 lowercase hex digits.
func FormatAddress(address common.Address) string {
	return strings.ToLower(address.Hex())
}

func FormatAddresses(addresses []common.Address) []string {
	formatted := make([]string, len(addresses))
	for i, address := range addresses {
		formatted[i] = FormatAddress(address)
	}
	return formatted
}
