/*
Package onboard is a step-sequencing and validation engine for multi-step onboarding wizards.

A flow is an ordered list of steps (single choice, multi choice, text, number or custom).
The engine keeps the current position and the committed answers, and only lets the user
advance once the pending answer for the current step is complete and valid. Going back
re-opens the previous step with its stored answer.

# Concept

The Wizard is the single entry point. Renderers never mutate answers directly: they
send input events (select, toggle, text, number, custom, advance, back) and draw the
View the wizard returns. The same Wizard powers the terminal runner, the HTTP API and
the MCP server, so a flow behaves identically everywhere.

# Key Features

  - Immutable answers: every commit produces a new Answers snapshot.
  - Candidate buffer: edits stay pending until an advance is accepted.
  - Declarative validation: min/max, lengths, patterns and expr rules in the flow file.
  - Lifecycle hooks: step changed, validation failed and completed events for observers.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/onboard"
		"github.com/aretw0/onboard/pkg/domain"
	)

	func main() {
		w, err := onboard.New([]domain.Step{
			{ID: "goal", Type: domain.StepSingleChoice, Options: []domain.Option{
				{Value: "lose", Label: "Lose weight"},
				{Value: "gain", Label: "Gain muscle"},
			}},
			{ID: "name", Type: domain.StepTextInput},
		})
		if err != nil {
			log.Fatal(err)
		}

		_ = w.SelectOption("gain")
		if _, err := w.RequestAdvance(); err != nil {
			log.Fatal(err)
		}
		_ = w.SetText("Ada")
		ev, err := w.RequestAdvance()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(ev.Type, ev.Answers.Map())
	}
*/
package onboard
