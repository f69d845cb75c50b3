// Package assets moves media binaries between the sending site and the
// media bucket.
//
//   - Fetcher downloads a remote binary with the fiber HTTP client.
//   - Store sniffs the content type, uploads the original to the bucket and,
//     for images, generates a thumbnail named name-WxH.ext next to it. A
//     failed thumbnail upload removes the original so no half-written asset
//     is left behind.
//
// Objects are keyed by the path of their local URL, so the uploads route can
// serve them back under the same path.
package assets
