// Package encode renders document trees as indented text for the
// show command and debug output. The rendering is a read-only view
// of the tree, not a serialization of the input syntax.
package encode
