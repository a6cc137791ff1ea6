package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/anggasct/fsm"
)

// DOTGenerator generates Graphviz DOT format representations of state machines
type DOTGenerator[S comparable] struct {
	machine *fsm.Machine[S]
	options DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowBorderStates bool
	HighlightCurrent bool
	RankDirection    string // "TB", "LR", "BT", "RL"
	NodeShape        string
	EndStateShape    string
	TransitionStyle  string
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowBorderStates: true,
		HighlightCurrent: true,
		RankDirection:    "TB",
		NodeShape:        "box",
		EndStateShape:    "doublecircle",
		TransitionStyle:  "solid",
	}
}

// NewDOTGenerator creates a new DOT generator for the given machine
func NewDOTGenerator[S comparable](machine *fsm.Machine[S], options ...DOTOptions) *DOTGenerator[S] {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator[S]{
		machine: machine,
		options: opts,
	}
}

// Generate creates a DOT representation of the state machine. An undefined
// machine cannot be rendered.
func (g *DOTGenerator[S]) Generate() (string, error) {
	var dot strings.Builder

	dot.WriteString("digraph StateMachine {\n")
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString(fmt.Sprintf("  node [shape=%s];\n", g.options.NodeShape))
	dot.WriteString("  edge [fontsize=10];\n\n")

	if err := g.generateStates(&dot); err != nil {
		return "", fmt.Errorf("failed to generate states: %w", err)
	}

	g.generateTransitions(&dot)

	dot.WriteString("}\n")

	return dot.String(), nil
}

// generateStates generates DOT nodes for all states
func (g *DOTGenerator[S]) generateStates(dot *strings.Builder) error {
	states, err := g.machine.States()
	if err != nil {
		return err
	}
	begin := g.machine.TryBeginStates()
	end := g.machine.TryEndStates()
	current, active := g.machine.TryCurrentState()

	dot.WriteString("  // States\n")

	for _, state := range states {
		isCurrent := active && g.options.HighlightCurrent && state == current
		g.generateStateNode(dot, state, slices.Contains(begin, state), slices.Contains(end, state), isCurrent)
	}

	dot.WriteString("\n")
	return nil
}

// generateStateNode generates a DOT node for a single state
func (g *DOTGenerator[S]) generateStateNode(dot *strings.Builder, state S, isBegin, isEnd, isCurrent bool) {
	shape := g.options.NodeShape
	fillColor := "lightblue"
	label := escape(fmt.Sprint(state))

	if g.options.ShowBorderStates {
		if isBegin {
			fillColor = "lightgreen"
			label += "\\n(begin)"
		}
		if isEnd {
			shape = g.options.EndStateShape
			if !isBegin {
				fillColor = "lightcoral"
			}
			label += "\\n(end)"
		}
	}

	style := "filled"
	if isCurrent {
		style = "filled,bold"
	}

	dot.WriteString(fmt.Sprintf("  \"%s\" [shape=%s style=\"%s\" fillcolor=%s label=\"%s\"];\n",
		escape(fmt.Sprint(state)), shape, style, fillColor, label))
}

// generateTransitions generates DOT edges for all transitions
func (g *DOTGenerator[S]) generateTransitions(dot *strings.Builder) {
	dot.WriteString("  // Transitions\n")

	for _, t := range g.machine.Transitions() {
		dot.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [style=%s];\n",
			escape(fmt.Sprint(t.From)), escape(fmt.Sprint(t.To)), g.options.TransitionStyle))
	}
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// escape makes s safe inside a double-quoted DOT ID
func escape(s string) string {
	return escaper.Replace(s)
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator[S]) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// SVGGenerator generates SVG representations by calling Graphviz
type SVGGenerator[S comparable] struct {
	dotGenerator *DOTGenerator[S]
}

// NewSVGGenerator creates a new SVG generator
func NewSVGGenerator[S comparable](machine *fsm.Machine[S], options ...DOTOptions) *SVGGenerator[S] {
	return &SVGGenerator[S]{
		dotGenerator: NewDOTGenerator(machine, options...),
	}
}

// Generate creates an SVG representation of the state machine
func (g *SVGGenerator[S]) Generate() (string, error) {
	dotContent, err := g.dotGenerator.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}

// GenerateSVG creates an SVG representation of the state machine
func (g *DOTGenerator[S]) GenerateSVG() (string, error) {
	svgGen := &SVGGenerator[S]{dotGenerator: g}
	return svgGen.Generate()
}
