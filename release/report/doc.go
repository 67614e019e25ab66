// Package report renders release items as plain text.
//
// Renderer expands three fasttemplate templates: a header
// with the branch names, one line per item and one block
// per tracker record attached to an item. Record
// descriptions are reduced to their text with StripHTML.
package report
