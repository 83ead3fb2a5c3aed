package sticker

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Layout of a generated candidate sheet.
const (
	SheetColumns = 5
	SheetRows    = 2
	SheetSize    = SheetColumns * SheetRows
)

// Partition cuts a sheet into SheetSize equal tiles in row-major order.
// Tiles are W/5 wide and H/2 tall; any remainder pixels on the right and
// bottom edges are dropped.
func Partition(sheet image.Image) ([]image.Image, error) {
	b := sheet.Bounds()
	tw, th := b.Dx()/SheetColumns, b.Dy()/SheetRows
	if tw == 0 || th == 0 {
		return nil, fmt.Errorf("sheet %dx%d too small for a %dx%d grid", b.Dx(), b.Dy(), SheetColumns, SheetRows)
	}

	tiles := make([]image.Image, 0, SheetSize)
	for row := 0; row < SheetRows; row++ {
		for col := 0; col < SheetColumns; col++ {
			x0 := b.Min.X + col*tw
			y0 := b.Min.Y + row*th
			tiles = append(tiles, imaging.Crop(sheet, image.Rect(x0, y0, x0+tw, y0+th)))
		}
	}
	return tiles, nil
}
