package output

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bgricker/apismoke/internal/invoker"
	"github.com/bgricker/apismoke/internal/registry"
	"github.com/bgricker/apismoke/internal/report"
)

const (
	bannerWidth    = 60
	tokenPreview   = 20
	bulletIndent   = "   "
	progressIndent = "    "
	detailIndent   = "     "
	categoryIndent = "      "
)

// PrettyRenderer renders run progress and the final report in a human-friendly format.
// Write errors are sticky: after the first one nothing else is written and Err reports it.
type PrettyRenderer struct {
	out     io.Writer
	palette palette
	err     error
}

// NewPretty creates a PrettyRenderer writing to out. colorEnabled toggles ANSI colors.
func NewPretty(out io.Writer, colorEnabled bool) *PrettyRenderer {
	return &PrettyRenderer{out: out, palette: newPalette(colorEnabled)}
}

// Err returns the first write error encountered.
func (p *PrettyRenderer) Err() error { return p.err }

func (p *PrettyRenderer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.out, format, args...)
}

// RenderHeader prints the banner, the target base URL and a preview of the token.
func (p *PrettyRenderer) RenderHeader(baseURL, token string) error {
	p.printf("%s\n\n", banner("API ENDPOINT TEST"))
	p.printf("Base URL: %s\n", baseURL)
	p.printf("Token: %s...\n\n", truncate(token, tokenPreview))
	return p.err
}

// RenderPlaceholderToken explains how to configure a real token.
func (p *PrettyRenderer) RenderPlaceholderToken() error {
	p.printf("%s\n", p.palette.fail.Sprint("❌ ERROR: configure your authentication token first!"))
	p.printf("   Pass --token, set APISMOKE_TOKEN or add token: to .apismoke.yml.\n")
	return p.err
}

// Skipped prints a skipped descriptor as the run walks past it.
func (p *PrettyRenderer) Skipped(ep registry.Endpoint, reason string) {
	p.printf("%s\n", p.palette.skip.Sprintf("⏭️  SKIPPING: %s", ep.Name))
}

// Started prints the progress header of an invocation.
func (p *PrettyRenderer) Started(index, total int, ep registry.Endpoint) {
	p.printf("\n[%d/%d] Testing: %s\n", index, total, ep.Name)
	p.printf("%s%s\n", progressIndent, ep.Label())
}

// Finished prints the outcome of an invocation.
func (p *PrettyRenderer) Finished(index, total int, ep registry.Endpoint, res invoker.Result) {
	switch r := res.(type) {
	case invoker.Success:
		if r.HTTPError() {
			p.printf("%s%s\n", progressIndent, p.palette.warn.Sprintf("⚠️  RESPONDED - Status %d (%dms)", r.StatusCode, r.Duration.Milliseconds()))
		} else {
			p.printf("%s%s\n", progressIndent, p.palette.ok.Sprintf("✅ SUCCESS - Status %d (%dms)", r.StatusCode, r.Duration.Milliseconds()))
		}
		if r.HasBody() {
			if r.HasData() {
				p.printf("%s📊 Data returned: yes\n", progressIndent)
			} else {
				p.printf("%s📊 Data returned: empty (expected for some cases)\n", progressIndent)
			}
		}
		p.hint(r.StatusCode)
	case invoker.Failure:
		p.printf("%s%s\n", progressIndent, p.palette.fail.Sprintf("❌ FAILURE - Status %s", statusText(r.StatusCode)))
		p.printf("%s💬 Error: %s\n", progressIndent, r.Err)
		p.hint(r.StatusCode)
	default:
		p.printf("%s%s\n", progressIndent, p.palette.fail.Sprint("❌ FAILURE - no result"))
	}
}

func (p *PrettyRenderer) hint(status int) {
	var msg string
	switch status {
	case 401:
		msg = "Token invalid or expired!"
	case 404:
		msg = "Endpoint does not exist or was removed"
	case 500:
		msg = "Server error"
	default:
		return
	}
	p.printf("%s%s\n", progressIndent, p.palette.warn.Sprintf("⚠️  %s", msg))
}

// RenderReport prints totals, per-category tallies and the working, failing and skipped lists.
func (p *PrettyRenderer) RenderReport(results *report.Results) error {
	summary := results.Summary()

	p.printf("\n\n%s\n\n", banner("FINAL REPORT"))

	p.printf("📊 SUMMARY:\n")
	p.printf("%s%s\n", bulletIndent, p.palette.ok.Sprintf("✅ Working: %d", summary.Working))
	p.printf("%s%s\n", bulletIndent, p.palette.fail.Sprintf("❌ Failing: %d", summary.Failing))
	p.printf("%s%s\n", bulletIndent, p.palette.skip.Sprintf("⏭️  Skipped: %d", summary.Skipped))
	p.printf("%s📈 Success rate: %s\n\n", bulletIndent, report.FormatRate(summary.SuccessRate))

	p.printf("📂 BY CATEGORY:\n\n")
	for _, c := range results.Categories {
		p.printf("%s%s:\n", bulletIndent, c.Name)
		p.printf("%s✅ %d working\n", categoryIndent, len(c.Working))
		p.printf("%s❌ %d failing\n", categoryIndent, len(c.Failing))
		p.printf("%s⏭️  %d skipped\n", categoryIndent, len(c.Skipped))
		if c.Invoked() > 0 {
			p.printf("%s📈 %s success\n", categoryIndent, report.FormatRate(c.SuccessRate()))
		}
		p.printf("\n")
	}

	p.printf("\n%s\n", p.palette.ok.Sprint("✅ WORKING ENDPOINTS:"))
	for _, e := range results.Working {
		p.printf("%s• %s\n", bulletIndent, e.Endpoint.Name)
		p.printf("%s%s\n", detailIndent, e.Endpoint.Label())
		p.printf("%sStatus: %d | Time: %dms\n", detailIndent, e.Result.Status(), invoker.DurationMS(e.Result))
	}

	if len(results.Failing) > 0 {
		p.printf("\n%s\n", p.palette.fail.Sprint("❌ FAILING ENDPOINTS:"))
		for _, e := range results.Failing {
			p.printf("%s• %s\n", bulletIndent, e.Endpoint.Name)
			p.printf("%s%s\n", detailIndent, e.Endpoint.Label())
			p.printf("%sStatus: %s - %s\n", detailIndent, statusText(status(e.Result)), failureMessage(e.Result))
		}
	}

	if len(results.Skipped) > 0 {
		p.printf("\n%s\n", p.palette.skip.Sprint("⏭️  SKIPPED ENDPOINTS (may be working):"))
		for _, s := range results.Skipped {
			p.printf("%s• %s\n", bulletIndent, s.Endpoint.Name)
			p.printf("%s%s\n", detailIndent, s.Endpoint.Label())
			p.printf("%sReason: %s\n", detailIndent, s.Reason)
		}
	}

	p.printf("\nSUMMARY: %d working, %d failing, %d skipped (%s)\n", summary.Working, summary.Failing, summary.Skipped, formatDuration(summary.Duration))
	return p.err
}

// RenderSaved tells where the JSON report went.
func (p *PrettyRenderer) RenderSaved(path string) error {
	p.printf("\n📄 Report saved to: %s\n\n", path)
	return p.err
}

// RenderList prints the registry grouped by category in first-seen order.
func (p *PrettyRenderer) RenderList(set registry.Set) error {
	var order []string
	groups := make(map[string][]registry.Endpoint)
	for _, ep := range set.Endpoints {
		if _, ok := groups[ep.Category]; !ok {
			order = append(order, ep.Category)
		}
		groups[ep.Category] = append(groups[ep.Category], ep)
	}

	for _, name := range order {
		p.printf("%s\n", name)
		for _, ep := range groups[name] {
			line := fmt.Sprintf("%s• %s (%s)", bulletIndent, ep.Name, ep.Label())
			if ep.SkipTest {
				line += " " + p.palette.skip.Sprint("[skip]")
			}
			p.printf("%s\n", line)
		}
	}

	runnable, skipped := registry.Count(set.Endpoints)
	p.printf("\n%d endpoints, %d runnable, %d skipped\n", len(set.Endpoints), runnable, skipped)
	for _, w := range set.Warnings {
		p.printf("%s\n", p.palette.warn.Sprintf("warning: %s", w.String()))
	}
	return p.err
}

func banner(title string) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		Width(bannerWidth).
		Align(lipgloss.Center).
		Render(title)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func status(res invoker.Result) int {
	if res == nil {
		return 0
	}
	return res.Status()
}

func statusText(code int) string {
	if code == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", code)
}

func failureMessage(res invoker.Result) string {
	if f, ok := res.(invoker.Failure); ok {
		return f.Err
	}
	return "no result"
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Truncate(time.Millisecond).String()
}
