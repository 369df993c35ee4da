package models

// Leading characters stripped from a meta string before hex decoding: a "0x" and the 8 byte magic number.
const MetaMagicPrefixLen = 18

// Magic number of a Rain meta document v1.
const MetaMagic_DocumentV1 uint64 = 0xff0a89c674ee7874

// Magic number of an authoring meta item.
const MetaMagic_AuthoringV1 uint64 = 0xffb2637608c09e38

const MetaContentType_Cbor = "application/cbor"

type AuthorAction uint8

const (
	AuthorAction_Remove AuthorAction = iota
	AuthorAction_Add
)

const AddressLen = 20
