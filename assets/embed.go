// assets/embed.go
//
// Embedded default word lists. One directory per language, one JSON array
// per word length ("length4.json" .. "length8.json") — the same layout the
// word-list importer writes, so an on-disk tree (WORDS_DIR) can swap in
// without conversion.

package assets

import "embed"

//go:embed en es
var FS embed.FS
