// Package hud draws the viewer's text overlay into an RGBA image.
//
// Lines are measured with HarfBuzz shaping (go-text/typesetting) so right
// alignment follows real advances, then drawn with golang.org/x/image/font.
// Counters are formatted for a locale through golang.org/x/text/message.
//
// The resulting *image.RGBA is handed to the renderer as an overlay texture;
// see package integration/texupload.
package hud
