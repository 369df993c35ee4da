// Package meta decodes authoring meta records published to the authors registry.
//
// A record is a hex string: "0x", the 8 byte meta document magic number, then a CBOR sequence of meta items. The
// payload of the first item is an action tag followed by the 20 byte author address.
package meta

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor/v2"

	"github.com/gildlab/go-pins/models"
)

// Item is one CBOR meta map, keyed by small integers.
type Item struct {
	Payload         []byte `cbor:"0,keyasint"`
	MagicNumber     uint64 `cbor:"1,keyasint"`
	ContentType     string `cbor:"2,keyasint,omitempty"`
	ContentEncoding string `cbor:"3,keyasint,omitempty"`
	ContentLanguage string `cbor:"4,keyasint,omitempty"`
}

const cborMajorArray = 4

// Decode parses one raw meta string into an author record.
func Decode(rawMeta string) (models.AuthorRecord, error) {
	if len(rawMeta) < models.MetaMagicPrefixLen {
		return models.AuthorRecord{}, fmt.Errorf("%w: %d characters", models.ErrTooShort, len(rawMeta))
	}
	data, err := hex.DecodeString(rawMeta[models.MetaMagicPrefixLen:])
	if err != nil {
		return models.AuthorRecord{}, fmt.Errorf("%w: %v", models.ErrHexDecode, err)
	}
	items, err := DecodeItems(data)
	if err != nil {
		return models.AuthorRecord{}, err
	}
	payload := items[0].Payload
	if len(payload) == 0 {
		return models.AuthorRecord{}, models.ErrEmptyPayload
	}
	tag, addressBytes := payload[0], payload[1:]
	if len(addressBytes) != models.AddressLen {
		return models.AuthorRecord{}, fmt.Errorf("%w: %d bytes", models.ErrBadAddressLength, len(addressBytes))
	}
	return models.AuthorRecord{
		Address: common.BytesToAddress(addressBytes),
		IsAdd:   models.AuthorAction(tag) == models.AuthorAction_Add,
	}, nil
}

// DecodeItems decodes either a CBOR sequence of meta maps or a single CBOR array of them. At least one item is
// required.
func DecodeItems(data []byte) ([]Item, error) {
	var items []Item
	if len(data) > 0 && data[0]>>5 == cborMajorArray {
		if err := cbor.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrCborDecode, err)
		}
	} else {
		dec := cbor.NewDecoder(bytes.NewReader(data))
		for {
			var item Item
			if err := dec.Decode(&item); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, fmt.Errorf("%w: %v", models.ErrCborDecode, err)
			}
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no meta items", models.ErrCborDecode)
	}
	return items, nil
}

// Encode builds a raw meta string for a single authoring item. It is the inverse of Decode.
func Encode(record models.AuthorRecord) (string, error) {
	tag := byte(models.AuthorAction_Remove)
	if record.IsAdd {
		tag = byte(models.AuthorAction_Add)
	}
	item := Item{
		Payload:     append([]byte{tag}, record.Address.Bytes()...),
		MagicNumber: models.MetaMagic_AuthoringV1,
		ContentType: models.MetaContentType_Cbor,
	}
	data, err := cbor.Marshal(item)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("0x%016x%s", models.MetaMagic_DocumentV1, hex.EncodeToString(data)), nil
}
