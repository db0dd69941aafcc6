// Package flow sequences a sales rep through a training: offer selection,
// configuration, preparation, the live conversation and the scored summary.
// Every step reads the previous step's output from the visitor's session
// store and redirects when a prerequisite is missing.
package flow

import (
	"errors"
	"fmt"
)

// Step names a page of the training flow.
type Step string

const (
	StepLogin        Step = "login"
	StepDashboard    Step = "dashboard"
	StepManager      Step = "manager"
	StepOffers       Step = "offers"
	StepOfferSummary Step = "offer-summary"
	StepConfigType   Step = "config-type"
	StepParameters   Step = "config"
	StepPreparation  Step = "preparation"
	StepConversation Step = "conversation"
	StepSummary      Step = "summary"
)

// RedirectError is returned when a step is reached without its
// prerequisites. To is the step that establishes them.
type RedirectError struct {
	To Step
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect to %s", e.To)
}

func redirect(to Step) error {
	return &RedirectError{To: to}
}

// AsRedirect reports whether err asks for a redirect, and to where.
func AsRedirect(err error) (Step, bool) {
	var re *RedirectError
	if errors.As(err, &re) {
		return re.To, true
	}
	return "", false
}

var (
	ErrUnknownPreset      = errors.New("unknown preset")
	ErrPresetNotAvailable = errors.New("preset does not match the selected offers")
	ErrUnknownOffer       = errors.New("unknown or inactive offer")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrNoUser             = errors.New("no demo user for role")
	ErrUnknownRole        = errors.New("unknown role")
)
