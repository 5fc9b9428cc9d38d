package printing

// PaperSize names the stock a receipt or document is rendered for.
// Receipt sizes are thermal roll widths; their height is whatever the
// content needs.
type PaperSize string

const (
	PaperSizeA4          PaperSize = "A4"
	PaperSizeA5          PaperSize = "A5"
	PaperSizeReceipt58MM PaperSize = "RECEIPT_58MM"
	PaperSizeReceipt80MM PaperSize = "RECEIPT_80MM"
)

func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeA5, PaperSizeReceipt58MM, PaperSizeReceipt80MM:
		return true
	}
	return false
}

// Dimensions returns width and height in millimeters. Receipt stock
// reports height 0: the roll is continuous.
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA5:
		return 148, 210
	case PaperSizeReceipt58MM:
		return 58, 0
	case PaperSizeReceipt80MM:
		return 80, 0
	default:
		return 210, 297
	}
}

func (p PaperSize) IsReceipt() bool {
	return p == PaperSizeReceipt58MM || p == PaperSizeReceipt80MM
}

// Orientation is the page orientation for sheet stock. Receipt rolls
// are always portrait.
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

func (o Orientation) IsValid() bool {
	return o == OrientationPortrait || o == OrientationLandscape
}
