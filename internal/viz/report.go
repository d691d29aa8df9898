package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/chaoscipher/internal/quality"
)

func metricRow(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value)
}

// RenderReport formats the metrics of one encryption as a bordered panel.
func RenderReport(r quality.Report) string {
	var b strings.Builder
	b.WriteString(Title.Render("Cipher quality") + "\n\n")
	b.WriteString(metricRow("NPCR", fmt.Sprintf("%.4f %%", r.NPCR)) + "  " + ProgressBar(r.NPCR/100, 20) + "\n")
	b.WriteString(metricRow("UACI", fmt.Sprintf("%.4f %%", r.UACI)) + "  " + ProgressBar(r.UACI/33.46, 20) + "\n")
	b.WriteString(metricRow("Entropy", fmt.Sprintf("%.4f bits", r.Entropy)) + "  " + ProgressBar(r.Entropy/8, 20) + "\n")
	b.WriteString(metricRow("Plain entropy", fmt.Sprintf("%.4f bits", r.PlainEntropy)) + "\n")

	verdict := Fail.Render("non-uniform")
	if r.Uniformity.Passed {
		verdict = Pass.Render("uniform")
	}
	b.WriteString(metricRow("Chi-square", fmt.Sprintf("%.2f (p=%.4f) ", r.Uniformity.Statistic, r.Uniformity.PValue)) + verdict + "\n")

	b.WriteString("\n" + Subtle.Render("adjacent pixel correlation (plain → cipher)") + "\n")
	for _, d := range quality.Directions {
		name := d.String()
		b.WriteString(metricRow(name, fmt.Sprintf("%s → %s", formatCorr(r.PlainCorr[name]), formatCorr(r.CipherCorr[name]))) + "\n")
	}

	return Panel.Render(strings.TrimRight(b.String(), "\n"))
}

func formatCorr(v []float64) string {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = fmt.Sprintf("%+.4f", c)
	}
	return strings.Join(parts, " ")
}

// RenderMetrics lists a flat metric map, sorted by name.
func RenderMetrics(m map[string]float64) string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	rows := make([]string, len(names))
	for i, k := range names {
		rows[i] = metricRow(k, fmt.Sprintf("%.6f", m[k]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func histSeries(h [256]int) []float64 {
	s := make([]float64, len(h))
	for i, n := range h {
		s[i] = float64(n)
	}
	return s
}

// HistogramPlot charts a 256-bin histogram.
func HistogramPlot(h [256]int, caption string, width, height int) string {
	return asciigraph.Plot(histSeries(h),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// HistogramPair overlays the plaintext and ciphertext histograms.
func HistogramPair(plain, cipher [256]int, width, height int) string {
	return asciigraph.PlotMany([][]float64{histSeries(plain), histSeries(cipher)},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.SeriesLegends("plain", "cipher"),
		asciigraph.Caption("pixel value histogram"),
	)
}

// SequencePlot charts the first values of a chaotic sequence. Non-finite
// values are dropped.
func SequencePlot(seq []float64, caption string, width, height int) string {
	data := make([]float64, 0, len(seq))
	for _, v := range seq {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			data = append(data, v)
		}
	}
	if len(data) == 0 {
		return Subtle.Render("(no finite values)")
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
