// Package render produces visual previews of activity graphs.
//
// The XMI document is the authoritative output of a conversion; this package
// exists for quick inspection before importing into a modeling tool. It
// provides:
//
//   - DOT generation ([ToDOT]) with activity-diagram shapes and swimlane
//     clusters
//   - SVG rendering ([RenderSVG]) through Graphviz
//   - Format conversion ([ToPDF], [ToPNG]) via the external rsvg-convert tool
//
// Typical usage:
//
//	dot := render.ToDOT(g, render.Options{})
//	svg, err := render.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
package render
