// Package filtering implements the list-view filter and sort protocol: named
// filter slots with server column and operator defaults, insertion-ordered
// filter sets, and the opaque base64 token format carried in URL query
// parameters. Tokens are the product's shareable-link contract; the encoder
// stays bit-compatible with existing bookmarked URLs while the decoder
// degrades defensively on malformed input.
package filtering
