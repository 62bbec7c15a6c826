package ui

import (
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// methodologySource is the statistical notes served at /api/methodology.
// Kept as markdown so the same text can go into reports unchanged.
const methodologySource = `# Methodology

## Variance model

Each biomarker carries two independent sources of spread:

* **Biological SD** - between-subject variation of the marker itself.
* **Inter-system SD** - disagreement between the two measurement systems.

For a cross-sectional comparison the working standard deviation is their
quadrature sum:

    sd_total = sqrt(sd_bio^2 + sd_sys^2)

Published total SDs, where available, are stored alongside for reference but
the engine always recomputes from the components.

## Sample size, independent arms

For a two-sided test at level alpha with target power 1-beta, the per-arm
sample size to detect an absolute difference delta is

    n = ceil( 2 * sd_total^2 * (z_{1-alpha/2} + z_{power})^2 / delta^2 )

The z quantiles come from the standard normal distribution. With the default
alpha = 0.05 and power = 0.80 the squared quantile sum is approximately 7.85.

## Sample size, paired design

When every subject is measured on both systems the biological term cancels
and only the spread of within-subject differences matters:

    n = ceil( sd_diff^2 * (z_{1-alpha/2} + z_{power})^2 / delta^2 )

Two variance conventions are supported:

* **canonical** - sd_diff^2 as given, appropriate when the SD of paired
  differences has been measured directly.
* **conservative** - doubles the variance, equivalent to assuming zero
  correlation between the paired measurements. Use this when only the
  per-system inter-system SD is known.

## Quantile solver

z_{p} is obtained by inverting the standard normal CDF. The default backend
brackets the root on [-10, 10] and bisects for 80 iterations, which pins the
quantile to well below 1e-12. A closed-form backend based on the gonum
normal distribution is available as an alternative.

## Resolution tiers

Reference variability is catalogued per acquisition tier:

* **standard** - Standard resolution (0.4 mm)
* **uhr** - Ultrahigh-resolution (0.2 mm)

Sweeps evaluate one tier at a fixed relative effect, expressing delta as a
multiple of each marker's design SD so that markers of different scale can be
compared on one table.

## Agreement estimation

Given paired readings (a_i, b_i) from two systems, the engine reports

* mean bias, the average of b_i - a_i,
* the sample SD of the differences,
* 95% limits of agreement, bias +/- 1.96 * sd_diff.

The difference SD feeds directly into the paired sample-size formula above,
so a pilot agreement run can suggest the n for the confirmatory study.
`

var (
	methodologyOnce sync.Once
	methodologyHTML string
)

// MethodologyHTML renders the methodology notes to HTML. The rendered form
// is cached after the first call.
func MethodologyHTML() string {
	methodologyOnce.Do(func() {
		p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
		renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
		methodologyHTML = string(markdown.ToHTML([]byte(methodologySource), p, renderer))
	})
	return methodologyHTML
}
