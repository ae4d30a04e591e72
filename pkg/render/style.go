package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
)

// Palette.
var (
	colorBackground = color.RGBA{255, 255, 255, 255}
	colorGrid       = color.RGBA{238, 238, 238, 255}
	colorShapeFill  = color.RGBA{250, 250, 250, 255}
	colorShapeEdge  = color.RGBA{51, 51, 51, 255}
	colorZoneFill   = color.RGBA{245, 247, 250, 255}
	colorZoneEdge   = color.RGBA{136, 146, 160, 255}
	colorHeaderFill = color.RGBA{226, 232, 240, 255}
	colorConnector  = color.RGBA{71, 85, 105, 255}
	colorText       = color.RGBA{30, 41, 59, 255}
	colorHandle     = color.RGBA{59, 130, 246, 255}
)

const (
	strokeWidth = 2.0
	arrowSize   = 8.0
	fontSize    = 12.0
	cornerR     = 6.0
	swapRadius  = 7.0
)

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
