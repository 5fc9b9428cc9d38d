// Package printing contains the Printing bounded context.
// This context holds the paper, orientation, and margin value objects
// used when rendering order and purchase invoice receipts to PDF.
package printing
