// Package emoji implements animated custom emoji: a compact cache of decoded
// frames, the background pipeline that fills it, and the per-entity state
// machine that loads, caches and unloads it as consumers come and go.
//
// # Lifecycle
//
// Every distinct emoji (identified by its entity data) is an [Instance]. An
// Instance is always in exactly one of three states:
//
//   - Loading: holds a [Loader] and a best-effort [Preview].
//   - Caching: a [Renderer] is decoding frames into a [Cache].
//   - Cached: the [Cache] is finished and plays in a loop.
//
// Consumers hold an [Object]. The first paint or readiness query registers
// the Object with its Instance; [Object.Unload] deregisters it. When the last
// Object goes away the Instance drops back to Loading, discarding decoded
// frames and keeping only a preview.
//
// # Threading
//
// Everything in this package runs on a single UI-affine context. The only
// work done elsewhere is frame decoding, which runs on a [platform.Async]
// and posts results back through a [platform.Dispatcher]. A cancelled
// Renderer drops late results by comparing generations.
package emoji
