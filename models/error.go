package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this module wraps exactly one of these.
var (
	ErrConfig    = errors.New("config error")
	ErrTransport = errors.New("transport error")
	ErrProtocol  = errors.New("protocol error")
	ErrDecode    = errors.New("decode error")
)

// Meta envelope decode failures
var (
	ErrTooShort         = fmt.Errorf("%w: meta too short", ErrDecode)
	ErrHexDecode        = fmt.Errorf("%w: invalid meta hex", ErrDecode)
	ErrCborDecode       = fmt.Errorf("%w: invalid meta cbor", ErrDecode)
	ErrEmptyPayload     = fmt.Errorf("%w: empty meta payload", ErrDecode)
	ErrBadAddressLength = fmt.Errorf("%w: bad address length", ErrDecode)
)

// Pin hash decode failures
var (
	ErrInvalidBase58    = fmt.Errorf("%w: invalid base58", ErrDecode)
	ErrInvalidMultihash = fmt.Errorf("%w: invalid multihash", ErrDecode)
)

var ErrPageLimit = fmt.Errorf("%w: page limit exceeded", ErrProtocol)

const ErrorMessageFmt_SourceFailed string = "fetching pins from %s failed: %w"
