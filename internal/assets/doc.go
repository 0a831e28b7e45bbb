// Package assets enumerates the ZBrush asset kinds the vault can catalog:
// which file extensions belong to each kind and which install-relative
// folders hold them.
//
// The scanner consumes a flat prioritized root list; RootsFor expands an
// installation root into that list for one kind, preserving the priority
// order ZBrush itself uses (user presets shadow the bundled ones).
package assets
