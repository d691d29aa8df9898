// Package viz renders cipher results in the terminal.
//
//   - [RenderReport]: metric table for a [quality.Report]
//   - [HistogramPlot], [SequencePlot]: asciigraph line charts
//   - [Canvas]: Braille dot canvas for image thumbnails
//
// Colors come from the active [Theme]; see [SetTheme].
package viz
