// Package tamper flags signs of post-capture editing by sniffing editor
// signature tokens out of the file's metadata prefix.
package tamper

import (
	"bytes"
)

// editorSignatures are tool names that end up in EXIF/XMP software tags when a
// file has been re-saved through an editor. Plain substring matches; camera
// originals do not carry them.
var editorSignatures = [][]byte{
	[]byte("Adobe Photoshop"),
	[]byte("Photoshop"),
	[]byte("GIMP"),
	[]byte("Paint.NET"),
	[]byte("paint.net"),
	[]byte("Pixelmator"),
	[]byte("Affinity Photo"),
	[]byte("Canva"),
	[]byte("Snapseed"),
	[]byte("PicsArt"),
}

// DefaultPrefixBytes is how much of the file the sniff reads when the caller
// does not override it. Editor tags live in the metadata segments at the front.
const DefaultPrefixBytes = 4096

// IsEdited reports whether the file prefix contains a known editor signature.
// Empty or unreadable input yields false: the heuristic fails open so a
// metadata quirk never rejects a genuine document on its own.
func IsEdited(data []byte, prefixBytes int) bool {
	if len(data) == 0 {
		return false
	}
	if prefixBytes <= 0 {
		prefixBytes = DefaultPrefixBytes
	}
	if prefixBytes > len(data) {
		prefixBytes = len(data)
	}
	prefix := data[:prefixBytes]

	for _, sig := range editorSignatures {
		if bytes.Contains(prefix, sig) {
			return true
		}
	}
	return false
}
