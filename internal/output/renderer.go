package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/atikulmunna/piqlog/internal/model"
)

// Renderer writes Entry values to an output stream.
type Renderer interface {
	Render(entry model.Entry) error
}

// New returns the renderer for a configured output format.
func New(format string, w io.Writer) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return NewTextRenderer(w), nil
	case "json":
		return NewJSONRenderer(w), nil
	case "yaml":
		return NewYAMLRenderer(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))            // yellow
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // red bold
	styleFatal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true) // white on red
	styleMeta = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true) // cyan
)

// TextRenderer prints one block per entry with severity-based colors.
// Continuation lines of a multi-line log are indented under the first.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(entry model.Entry) error {
	s := entry.Summary
	head := fmt.Sprintf("%s %s %s %s",
		styleMeta.Render(fmt.Sprintf("%6d", s.LineNumber)),
		s.DateTime,
		styleLevel(s.LogLevel),
		styleMeta.Render(fmt.Sprintf("[%s] %s", s.PidTid, s.Tag)),
	)

	lines := strings.Split(s.Log, "\n")
	if _, err := fmt.Fprintf(r.w, "%s %s\n", head, lines[0]); err != nil {
		return err
	}
	for _, l := range lines[1:] {
		if _, err := fmt.Fprintf(r.w, "%8s %s\n", "", l); err != nil {
			return err
		}
	}
	return nil
}

func styleLevel(level model.Token) string {
	v := level.String()
	switch v {
	case "D":
		return styleDebug.Render(v)
	case "W":
		return styleWarn.Render(v)
	case "E":
		return styleError.Render(v)
	case "F":
		return styleFatal.Render(v)
	default:
		return styleInfo.Render(v)
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each entry as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(entry model.Entry) error {
	return r.enc.Encode(entry)
}

// ---------------------------------------------------------------------------
// YAML Renderer
// ---------------------------------------------------------------------------

// YAMLRenderer writes each entry as its own YAML document.
// Close must be called to flush the stream.
type YAMLRenderer struct {
	enc *yaml.Encoder
}

// NewYAMLRenderer returns a Renderer that writes a YAML document stream to w.
func NewYAMLRenderer(w io.Writer) *YAMLRenderer {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &YAMLRenderer{enc: enc}
}

func (r *YAMLRenderer) Render(entry model.Entry) error {
	return r.enc.Encode(entry)
}

func (r *YAMLRenderer) Close() error {
	return r.enc.Close()
}
