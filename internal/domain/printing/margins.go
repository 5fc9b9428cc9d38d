package printing

import "github.com/oms/backend/internal/domain/shared"

// maxMarginMM bounds a single margin; anything larger leaves no printable
// area on receipt paper.
const maxMarginMM = 100

// Margins are the page margins in millimeters.
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// NewMargins validates and builds a Margins value.
func NewMargins(top, right, bottom, left int) (Margins, error) {
	for _, mm := range []int{top, right, bottom, left} {
		if mm < 0 {
			return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot be negative")
		}
		if mm > maxMarginMM {
			return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot exceed 100mm")
		}
	}
	return Margins{Top: top, Right: right, Bottom: bottom, Left: left}, nil
}

// DefaultMargins suits A4 invoices and packing slips.
func DefaultMargins() Margins {
	return Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}
}

// ReceiptMargins suits 58mm and 80mm thermal receipt rolls.
func ReceiptMargins() Margins {
	return Margins{Top: 2, Right: 2, Bottom: 2, Left: 2}
}
