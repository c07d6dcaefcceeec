package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/onboard/pkg/domain"
)

const (
	startID = "__start"
	doneID  = "__done"
)

// Overlay contains session data to visualize on the graph.
type Overlay struct {
	Answered  []string // step ids with a committed answer
	Current   string   // step id of the current position
	Completed bool
}

// OverlayFromSnapshot builds an overlay for a session snapshot of flow.
func OverlayFromSnapshot(flow domain.Flow, s domain.Snapshot) *Overlay {
	o := &Overlay{
		Answered:  s.Answers.IDs(),
		Completed: s.Status == domain.StatusCompleted,
	}
	if !o.Completed && s.Index >= 0 && s.Index < len(flow.Steps) {
		o.Current = flow.Steps[s.Index].ID
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the flow's linear sequence.
// Shapes follow the step type:
// - single-choice: {Rhombus}
// - multi-choice: [[Subroutine]]
// - text-input / number-input: [/Parallelogram/]
// - custom: [(Cylinder)]
// Back navigation is drawn as dotted edges when showBack is set.
func GenerateMermaid(flow domain.Flow, overlay *Overlay, showBack bool) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", startID, escapeLabel(startLabel(flow)))
	prev := startID
	for i, step := range flow.Steps {
		safeID := sanitizeMermaidID(step.ID)

		opener, closer := "[", "]"
		switch step.Type {
		case domain.StepSingleChoice:
			opener, closer = "{", "}"
		case domain.StepMultiChoice:
			opener, closer = "[[", "]]"
		case domain.StepTextInput, domain.StepNumberInput:
			opener, closer = "[/", "/]"
		case domain.StepCustom:
			opener, closer = "[(", ")]"
		}

		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, nodeLabel(step), closer)

		arrow := "-->"
		if step.Optional {
			arrow = "-- optional -->"
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", prev, arrow, safeID)
		if showBack && i > 0 {
			fmt.Fprintf(&sb, "    %s -. back .-> %s\n", safeID, prev)
		}
		prev = safeID
	}
	fmt.Fprintf(&sb, "    %s(((\"Completed\")))\n", doneID)
	fmt.Fprintf(&sb, "    %s --> %s\n", prev, doneID)

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		known := make(map[string]bool, len(flow.Steps))
		for _, s := range flow.Steps {
			known[s.ID] = true
		}
		seen := make(map[string]bool)
		for _, id := range overlay.Answered {
			safeID := sanitizeMermaidID(id)
			if known[id] && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		switch {
		case overlay.Completed:
			fmt.Fprintf(&sb, "    class %s current;\n", doneID)
		case overlay.Current != "":
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}

	return sb.String()
}

func startLabel(flow domain.Flow) string {
	if flow.Title != "" {
		return flow.Title
	}
	if flow.Name != "" {
		return flow.Name
	}
	return "Start"
}

func nodeLabel(step domain.Step) string {
	label := step.ID
	if step.Title != "" {
		label = step.Title
	}
	label = escapeLabel(label) + " <br/> <i>" + string(step.Type) + "</i>"
	if n := len(step.Options); n > 0 {
		label += fmt.Sprintf(" (%d options)", n)
	}
	return label
}

// escapeLabel replaces double quotes, which would end a Mermaid label.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	s := r.Replace(id)
	// Mermaid reserves "end".
	if strings.EqualFold(s, "end") {
		s = "step_" + s
	}
	return s
}
