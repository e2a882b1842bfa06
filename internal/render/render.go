// Package render turns scan state into a pseudo-terminal transcript
package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theopenlane/recon/internal/jsonvalue"
	"github.com/theopenlane/recon/internal/types"
)

const (
	// indentUnit is emitted once per nesting level
	indentUnit = "  "
	// defaultTitle heads the transcript when no domain is known
	defaultTitle = "recon@terminal"
)

// loadingLines is the fixed sequence shown while a scan is in flight
var loadingLines = []string{
	"[*] Scanning target...",
	"[*] Establishing connection",
	"[*] Awaiting response",
}

// Renderer formats scan state. It holds no scan state of its own
type Renderer struct {
	lip    *lipgloss.Renderer
	styles styles
}

// Option configures the Renderer
type Option func(*Renderer)

// WithNoColor disables all styling so the transcript is plain text
func WithNoColor(noColor bool) Option {
	return func(r *Renderer) {
		if noColor {
			r.lip.SetColorProfile(termenv.Ascii)
		}
	}
}

// New creates a renderer whose color support is detected from w
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{lip: lipgloss.NewRenderer(w)}

	for _, opt := range opts {
		opt(r)
	}

	r.styles = newStyles(r.lip)

	return r
}

// NewPlain creates a renderer that never emits escape sequences
func NewPlain() *Renderer {
	return New(io.Discard, WithNoColor(true))
}

// Transcript projects the scan state into display lines.
// Loading wins over any stale result; a nil result renders nothing
func (r *Renderer) Transcript(result *types.ScanResult, loading bool) []string {
	switch {
	case loading:
		return r.loadingTranscript()
	case result == nil:
		return nil
	case result.Failed():
		return r.errorTranscript(result)
	default:
		return r.successTranscript(result)
	}
}

// Text returns the transcript joined into a single newline terminated string
func (r *Renderer) Text(result *types.ScanResult, loading bool) string {
	lines := r.Transcript(result, loading)
	if len(lines) == 0 {
		return ""
	}

	return strings.Join(lines, "\n") + "\n"
}

// Render writes the transcript to w
func (r *Renderer) Render(w io.Writer, result *types.ScanResult, loading bool) error {
	_, err := io.WriteString(w, r.Text(result, loading))

	return err
}

// loadingTranscript renders the scanning in progress sequence
func (r *Renderer) loadingTranscript() []string {
	lines := []string{r.styles.title.Render(defaultTitle), ""}

	for i, line := range loadingLines {
		style := r.styles.muted
		if i == 0 {
			style = r.styles.primary
		}

		lines = append(lines, style.Render(line))
	}

	return lines
}

// errorTranscript renders the error banner and scan details
func (r *Renderer) errorTranscript(result *types.ScanResult) []string {
	return []string{
		r.styles.title.Render(title(result)),
		"",
		r.styles.failure.Render("[ERROR] Scan failed"),
		indentUnit + r.styles.failure.Render("> "+result.Error),
		indentUnit + r.styles.muted.Render("> Domain: "+result.Domain),
		indentUnit + r.styles.muted.Render("> Type: "+strings.ToUpper(result.ScanType.String())),
		indentUnit + r.styles.muted.Render("> Time: "+result.Timestamp),
	}
}

// successTranscript renders the success banner followed by the formatted data
func (r *Renderer) successTranscript(result *types.ScanResult) []string {
	lines := []string{
		r.styles.title.Render(title(result)),
		"",
		r.styles.success.Render("[SUCCESS] Scan complete"),
		indentUnit + r.styles.success.Render("$") + r.styles.muted.Render(" recon --"+result.ScanType.String()+" "+result.Domain),
		indentUnit + r.styles.muted.Render("# "+result.Timestamp),
		"",
	}

	return append(lines, r.FormatData(result.Data)...)
}

// title names the terminal after the scanned domain
func title(result *types.ScanResult) string {
	if result.Domain == "" {
		return defaultTitle
	}

	return "recon@" + result.Domain
}

// FormatData renders an object inside a literal brace wrapper, two spaces per
// nesting level, keeping member and element order
func (r *Renderer) FormatData(data *jsonvalue.Object) []string {
	lines := []string{r.styles.punct.Render("{")}
	lines = r.appendMembers(lines, data, 1)

	return append(lines, r.styles.punct.Render("}"))
}

// appendMembers renders every member of obj at depth
func (r *Renderer) appendMembers(lines []string, obj *jsonvalue.Object, depth int) []string {
	for _, m := range obj.Members() {
		lines = r.appendMember(lines, m.Key, m.Value, depth)
	}

	return lines
}

// appendMember renders a single key and its value at depth
func (r *Renderer) appendMember(lines []string, key string, value jsonvalue.Value, depth int) []string {
	pad := strings.Repeat(indentUnit, depth)
	name := r.styles.key.Render(strconv.Quote(key))

	switch v := value.(type) {
	case *jsonvalue.Object:
		lines = append(lines, pad+name+r.styles.punct.Render(": {"))
		lines = r.appendMembers(lines, v, depth+1)

		return append(lines, pad+r.styles.punct.Render("}"))
	case jsonvalue.Array:
		lines = append(lines, pad+name+r.styles.punct.Render(": ["))
		lines = r.appendElements(lines, v, depth+1)

		return append(lines, pad+r.styles.punct.Render("]"))
	default:
		return append(lines, pad+name+r.styles.punct.Render(": ")+r.scalar(v))
	}
}

// appendElements renders each array element on its own line at depth,
// comma separated except after the last element
func (r *Renderer) appendElements(lines []string, arr jsonvalue.Array, depth int) []string {
	pad := strings.Repeat(indentUnit, depth)

	for i, elem := range arr {
		sep := ""
		if i < len(arr)-1 {
			sep = r.styles.punct.Render(",")
		}

		switch v := elem.(type) {
		case *jsonvalue.Object:
			lines = append(lines, pad+r.styles.punct.Render("{"))
			lines = r.appendMembers(lines, v, depth+1)
			lines = append(lines, pad+r.styles.punct.Render("}")+sep)
		case jsonvalue.Array:
			lines = append(lines, pad+r.styles.punct.Render("["))
			lines = r.appendElements(lines, v, depth+1)
			lines = append(lines, pad+r.styles.punct.Render("]")+sep)
		default:
			lines = append(lines, pad+r.scalar(v)+sep)
		}
	}

	return lines
}

// scalar renders a leaf value with its type specific style
func (r *Renderer) scalar(v jsonvalue.Value) string {
	switch val := v.(type) {
	case jsonvalue.String:
		return r.styles.str.Render(strconv.Quote(string(val)))
	case jsonvalue.Number:
		return r.styles.number.Render(string(val))
	case jsonvalue.Bool:
		return r.styles.boolean.Render(strconv.FormatBool(bool(val)))
	default:
		return r.styles.null.Render("null")
	}
}
