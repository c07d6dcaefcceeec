package onboard_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/onboard"
	"github.com/aretw0/onboard/pkg/domain"
)

// ExampleNew walks a two-step flow: a rejected advance, a selection, and completion.
func ExampleNew() {
	w, err := onboard.New([]domain.Step{
		{
			ID:    "diet",
			Type:  domain.StepSingleChoice,
			Title: "Do you follow a specific diet?",
			Options: []domain.Option{
				{Value: "none", Label: "No restrictions"},
				{Value: "vegan", Label: "Vegan"},
			},
		},
		{ID: "name", Type: domain.StepTextInput, Title: "What's your name?"},
	}, onboard.WithOnComplete(func(a domain.Answers) {
		fmt.Println("completed with", a.Len(), "answers")
	}))
	if err != nil {
		log.Fatal(err)
	}

	// Nothing is selected yet.
	_, err = w.RequestAdvance()
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		fmt.Println("rejected:", verr.UserMessage())
	}

	_ = w.SelectOption("vegan")
	ev, _ := w.RequestAdvance()
	fmt.Println(ev.Type, "to step", ev.Index+1, "of", w.Len())

	_ = w.SetText("Ada")
	ev, _ = w.RequestAdvance()
	fmt.Println(ev.Type)

	// Output:
	// rejected: Please complete this step to continue.
	// advanced to step 2 of 2
	// completed with 2 answers
	// completed
}

// ExampleWizard_Dispatch drives a wizard with wire events, as the HTTP and MCP adapters do.
func ExampleWizard_Dispatch() {
	w, err := onboard.New([]domain.Step{
		{
			ID:   "notifications",
			Type: domain.StepMultiChoice,
			Options: []domain.Option{
				{Value: "push", Label: "Push"},
				{Value: "email", Label: "Email"},
			},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, ev := range []domain.InputEvent{
		{Type: domain.InputToggle, Value: "email"},
		{Type: domain.InputToggle, Value: "push"},
		{Type: domain.InputAdvance},
	} {
		if _, err := w.Dispatch(ev); err != nil {
			log.Fatal(err)
		}
	}

	v, _ := w.Answers().Get("notifications")
	fmt.Println(v.Display(), w.Completed())

	// Output:
	// email, push true
}
