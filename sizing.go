package termpix

// sixelBand is the number of pixel rows one sixel character covers
const sixelBand = 6

// ResolveSize computes the size in character cells for a srcW x srcH pixel image.
//
// With no requested dimensions the image keeps its natural size, clamped to the
// console width minus a two column margin when consoleWidth is known. When only
// one dimension is requested the other is derived from the source aspect ratio.
// When both are requested they are used as is. Derived heights are computed in
// pixels and rounded down to a multiple of 6 so sixel bands stay whole.
func ResolveSize(srcW, srcH, reqW, reqH int, cell CellSize, consoleWidth int) TargetCellSize {
	if srcW <= 0 || srcH <= 0 {
		return TargetCellSize{}
	}
	if !cell.Valid() {
		cell = DefaultCellSize
	}
	reqW, reqH = max(reqW, 0), max(reqH, 0)

	var size TargetCellSize
	switch {
	case reqW > 0 && reqH > 0:
		return TargetCellSize{Width: reqW, Height: reqH}
	case reqW > 0:
		size.Width = reqW
		size.Height = heightForWidth(srcW, srcH, reqW, cell)
	case reqH > 0:
		size.Height = reqH
		size.Width = widthForHeight(srcW, srcH, reqH, cell)
	default:
		size.Width = srcW / cell.Width
		size.Height = srcH / cell.Height
		if limit := consoleWidth - 2; limit > 0 && size.Width > limit {
			size.Width = limit
			size.Height = heightForWidth(srcW, srcH, limit, cell)
		}
	}

	size.Width = max(size.Width, 1)
	size.Height = max(size.Height, 1)
	return size
}

// heightForWidth derives a cell height from a cell width using the source aspect ratio
func heightForWidth(srcW, srcH, cols int, cell CellSize) int {
	pixelWidth := cols * cell.Width
	pixelHeight := pixelWidth * srcH / srcW
	pixelHeight -= pixelHeight % sixelBand
	return pixelHeight / cell.Height
}

// widthForHeight derives a cell width from a cell height using the source aspect ratio
func widthForHeight(srcW, srcH, rows int, cell CellSize) int {
	pixelHeight := rows * cell.Height
	pixelWidth := pixelHeight * srcW / srcH
	return pixelWidth / cell.Width
}

// alignBand rounds a pixel height down to a whole number of sixel bands, keeping at least one
func alignBand(height int) int {
	if height < sixelBand {
		return height
	}
	return height - height%sixelBand
}
