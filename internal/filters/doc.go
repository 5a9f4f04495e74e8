// Package filters implements the pixel transforms: noise injection,
// denoising, sharpening and edge detection.
//
// Every transform takes a *raster.Raster and returns a newly allocated
// *raster.Raster. Inputs are never modified. Transforms are stateless and may
// run concurrently on different (or the same) inputs; the two noise
// transforms draw from a caller-supplied *rand.Rand, which must not be shared
// between goroutines.
//
// # Border Handling
//
// Neighborhood operations (blur, median, Laplacian, Sobel, Prewitt, Canny)
// read outside the image by replicating the nearest edge sample, i.e. the
// coordinate is clamped to [0, size-1] on each axis.
//
// # Quantization
//
// Intermediate results are computed in float64. Results are converted back
// to 8-bit either by rounding to nearest and saturating to [0, 255]
// (saturate), or by clamping and truncating toward zero (truncate), as each
// transform documents.
//
// # Grayscale
//
// The edge detectors convert color input to luminance using the ITU-R BT.601
// weights 0.299 R + 0.587 G + 0.114 B in 14-bit fixed point. Single-channel
// input is used as is.
//
// # Errors
//
// All transforms return an error wrapping raster.ErrInvalidImage when the
// input fails raster.Validate.
package filters
