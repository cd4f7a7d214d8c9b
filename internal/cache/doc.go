// Package cache provides an LRU cache for segment blobs.
//
// A search reads every deformed segment once per reference segment. For
// remote stores (S3, MinIO) the LRU keeps recently read segment blobs in
// RAM so repeated passes do not hit the network again. Cached bytes are
// charged to the resource.Controller memory budget; a blob that does not fit
// the cache or the budget is simply not cached.
package cache
