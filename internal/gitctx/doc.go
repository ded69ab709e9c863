// Package gitctx reads repository metadata from git.
//
// The report shell uses it once per run to default the repository name used
// for path shortening and to stamp the report with the commit it describes.
// Nothing here is consulted by the extractor itself.
package gitctx
