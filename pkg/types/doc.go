// Package types defines the canvas identifiers, the marking model with its
// closed set of shapes, the session snapshot, configuration, and the
// standard error values shared by the pairmark packages.
//
// A marking lives on exactly one of two canvases (CanvasLeft, CanvasRight).
// The same label on both canvases denotes a declared correspondence between
// the two markings; labels are otherwise unique within a canvas.
package types
