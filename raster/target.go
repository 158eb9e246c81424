package raster

// Target receives packed raster rows, usually a printer.
type Target interface {
	Raster(width, height, bytesWidth int, rasterData []byte, mode Mode) error
}
