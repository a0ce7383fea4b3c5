// Package codec encodes bouquets into the two string forms used for sharing.
//
// # Link tokens
//
// A link token is a self-contained bouquet: sender, receiver, message, and
// the full [bouquet.Spec], serialized as JSON and Base64url-encoded without
// padding so it can sit in a URL path or query parameter. No storage is
// involved; anyone holding the token can render the card.
//
// # Theme payloads
//
// A theme payload is the opaque string stored in a bouquet record. It carries
// only the spec, tagged with a version prefix:
//
//	v2:<base64(JSON{v, flowers, layoutSeed, greeneryStyle, dominant})>
//
// Records written before the payload existed hold a bare flower key instead.
// [ResolveTheme] turns those into a small two-flower bouquet.
//
// # Errors
//
// Decoders never panic. Every malformed input (bad Base64, bad JSON, missing
// fields, unknown version) yields an error with code
// [errors.ErrCodeInvalidPayload]. Callers should show a generic not-found page
// and log the detail.
package codec
