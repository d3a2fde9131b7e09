// Package file provides a file-based DataFetcher implementation for the config package.
//
// The Fetcher reads the whole file once, when its constructor runs, and serves
// copies of the cached bytes afterwards. A path that does not exist, cannot be
// read or names a directory fails with an error wrapping config.ErrNotFound, so
// callers can tell a missing source from a malformed one:
//
//	fetcher, err := file.NewFetcher("config.yaml")()
//	if errors.Is(err, config.ErrNotFound) {
//	    // fall back to defaults
//	}
package file
