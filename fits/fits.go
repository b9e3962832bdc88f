// Package fits reads the header units of FITS files.
//
// A FITS header is a sequence of 2880 byte blocks, each holding 36 cards
// of 80 ASCII characters. Cards are accumulated into an HDU until the END
// card is seen; the NAXIS cards of every sealed HDU are then collected
// into the axis table returned alongside the headers.
package fits

const (
	// BlockLength is the size of a header block in bytes.
	BlockLength = 2880

	// LineLength is the size of a single card in bytes.
	LineLength = 80

	// BlockLines is the number of cards in a block.
	BlockLines = BlockLength / LineLength

	// KeyLength is the width of the key field at the start of a card.
	KeyLength = 8
)

// Reserved keys.
const (
	KeyEnd      = "END"
	KeyContinue = "CONTINUE"
	KeyNaxis    = "NAXIS"
	KeyBitpix   = "BITPIX"
	KeyPcount   = "PCOUNT"
	KeyGcount   = "GCOUNT"
	KeyGroups   = "GROUPS"
)

// continuationSentinel marks a bare string continuation when it leads a
// value token.
const continuationSentinel = '_'
