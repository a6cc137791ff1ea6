package visualization_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anggasct/fsm"
	"github.com/anggasct/fsm/visualization"
)

func newTrafficLight(t *testing.T) *fsm.Machine[string] {
	t.Helper()

	m, err := fsm.NewFactory[string]().Create(fsm.Definition[string]{
		States: []fsm.StateDefinition[string]{
			{State: "off", Next: []string{"red"}},
			{State: "red", Next: []string{"green"}},
			{State: "green", Next: []string{"yellow"}},
			{State: "yellow", Next: []string{"red", "broken"}},
			{State: "broken"},
		},
	})
	if err != nil {
		t.Fatalf("Failed to create machine: %v", err)
	}
	return m
}

func TestDOTGeneration(t *testing.T) {
	machine := newTrafficLight(t)

	generator := visualization.NewDOTGenerator(machine)

	dotContent, err := generator.Generate()
	if err != nil {
		t.Fatalf("Failed to generate DOT: %v", err)
	}

	if !strings.Contains(dotContent, "digraph StateMachine") {
		t.Error("DOT content should contain graph declaration")
	}

	for _, state := range []string{"off", "red", "green", "yellow", "broken"} {
		if !strings.Contains(dotContent, "\""+state+"\" [") {
			t.Errorf("DOT content should contain %s state", state)
		}
	}

	if !strings.Contains(dotContent, "\"yellow\" -> \"red\"") {
		t.Error("DOT content should contain transition from yellow to red")
	}

	if !strings.Contains(dotContent, "off\\n(begin)") {
		t.Error("DOT content should mark the begin state")
	}

	if !strings.Contains(dotContent, "shape=doublecircle") {
		t.Error("DOT content should mark the end state")
	}

	t.Logf("Generated DOT content:\n%s", dotContent)
}

func TestDOTGenerationStateOrder(t *testing.T) {
	dotContent, err := visualization.NewDOTGenerator(newTrafficLight(t)).Generate()
	if err != nil {
		t.Fatalf("Failed to generate DOT: %v", err)
	}

	prev := -1
	for _, state := range []string{"off", "red", "green", "yellow", "broken"} {
		idx := strings.Index(dotContent, "\""+state+"\" [")
		if idx < prev {
			t.Errorf("State %s rendered out of insertion order", state)
		}
		prev = idx
	}
}

func TestDOTGenerationHighlightsCurrentState(t *testing.T) {
	machine := newTrafficLight(t)
	if err := machine.SetCurrentState("green"); err != nil {
		t.Fatalf("Failed to set current state: %v", err)
	}

	dotContent, err := visualization.NewDOTGenerator(machine).Generate()
	if err != nil {
		t.Fatalf("Failed to generate DOT: %v", err)
	}

	if !strings.Contains(dotContent, "\"green\" [shape=box style=\"filled,bold\"") {
		t.Error("DOT content should highlight the current state")
	}

	options := visualization.DefaultDOTOptions()
	options.HighlightCurrent = false
	dotContent, err = visualization.NewDOTGenerator(machine, options).Generate()
	if err != nil {
		t.Fatalf("Failed to generate DOT: %v", err)
	}

	if strings.Contains(dotContent, "filled,bold") {
		t.Error("DOT content should not highlight the current state when disabled")
	}
}

func TestDOTGenerationWithoutBorderStates(t *testing.T) {
	options := visualization.DefaultDOTOptions()
	options.ShowBorderStates = false
	options.RankDirection = "LR"

	dotContent, err := visualization.NewDOTGenerator(newTrafficLight(t), options).Generate()
	if err != nil {
		t.Fatalf("Failed to generate DOT: %v", err)
	}

	if strings.Contains(dotContent, "(begin)") || strings.Contains(dotContent, "(end)") {
		t.Error("DOT content should not label border states")
	}

	if !strings.Contains(dotContent, "rankdir=LR") {
		t.Error("DOT content should use the configured rank direction")
	}
}

func TestDOTGenerationUndefinedMachine(t *testing.T) {
	_, err := visualization.NewDOTGenerator(fsm.New[string]()).Generate()
	if err == nil {
		t.Fatal("Expected error for undefined machine")
	}

	if !fsm.IsStateError(err) {
		t.Errorf("Expected state error, got %v", err)
	}
}

func TestDOTGenerateToFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "machine.dot")

	if err := visualization.NewDOTGenerator(newTrafficLight(t)).GenerateToFile(filename); err != nil {
		t.Fatalf("Failed to write DOT file: %v", err)
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("Failed to read DOT file: %v", err)
	}

	if !strings.HasPrefix(string(content), "digraph StateMachine {") {
		t.Error("DOT file should start with graph declaration")
	}
}

func TestDOTGenerationEscapesStateNames(t *testing.T) {
	machine := fsm.New[string]()
	states := []string{`dir\`, `say "hi"`, "two\nlines"}
	for _, state := range states {
		if err := machine.AddState(state); err != nil {
			t.Fatalf("Failed to add state: %v", err)
		}
	}
	if err := machine.AddTransition(states[0], states[1]); err != nil {
		t.Fatalf("Failed to add transition: %v", err)
	}
	if err := machine.AddTransition(states[1], states[2]); err != nil {
		t.Fatalf("Failed to add transition: %v", err)
	}

	dotContent, err := visualization.NewDOTGenerator(machine).Generate()
	if err != nil {
		t.Fatalf("Failed to generate DOT: %v", err)
	}

	expectedContent := []string{
		`"dir\\" [shape=`,
		`label="dir\\"`,
		`"say \"hi\"" [shape=`,
		`"two\nlines" [shape=`,
		`"dir\\" -> "say \"hi\"" [style=solid];`,
		`"say \"hi\"" -> "two\nlines" [style=solid];`,
	}

	for _, expected := range expectedContent {
		if !strings.Contains(dotContent, expected) {
			t.Errorf("DOT content should contain: %s", expected)
		}
	}

	if strings.Contains(dotContent, "two\nlines") {
		t.Error("DOT content should not contain raw newlines inside state names")
	}
}
