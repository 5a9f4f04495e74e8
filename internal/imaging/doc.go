// Package imaging handles image files around the filter pipeline.
//
// It decodes images from disk into a shared cache, converts them to rasters,
// writes results back in the format implied by the file extension, and
// produces lightweight descriptions of a result (summary statistics,
// before/after differences and base64 PNG previews).
//
// # Coordinate System
//
// Rasters are indexed (y, x) with (0,0) at the top-left corner, X increasing
// rightward and Y increasing downward.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The remaining functions are
// stateless.
//
// # Error Handling
//
// Functions return errors for:
//   - File I/O errors during image loading or saving
//   - Undecodable files and unsupported output extensions
//   - Invalid rasters (wrapping raster.ErrInvalidImage)
//   - Shape mismatches when comparing rasters
//
// # Performance Considerations
//
// Cached images stay in memory until Evict() or Clear(). Long-running servers
// that accept many uploads should evict paths they overwrite.
package imaging
