package statemachine

import (
	"fmt"
	"strings"

	"smart-restaurant-api/models"
)

// Transition is one step of the nominal order flow
type Transition struct {
	From models.OrderStatus `json:"from"`
	To   models.OrderStatus `json:"to"`
}

// nominalTransitions is the flow the dashboards walk an order through.
// Canceled is reachable from every other state.
var nominalTransitions = func() []Transition {
	ts := []Transition{
		{From: models.StatusPending, To: models.StatusPreparing},
		{From: models.StatusPreparing, To: models.StatusOnWay},
		{From: models.StatusOnWay, To: models.StatusDelivered},
	}
	for _, s := range models.AllStatuses {
		if s != models.StatusCanceled {
			ts = append(ts, Transition{From: s, To: models.StatusCanceled})
		}
	}
	return ts
}()

type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range nominalTransitions {
		m[transitionKey{t.From, t.To}] = true
	}
	return m
}()

// Policy decides whether an order may move between two statuses.
type Policy interface {
	CanTransition(from, to models.OrderStatus) error
}

// Permissive allows any known status to move to any known status, including
// backward moves and no-ops. Staff use it to correct mistakes by hand.
type Permissive struct{}

func (Permissive) CanTransition(from, to models.OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("unknown status %q", to)
	}
	return nil
}

// Strict only allows the nominal flow. Writing the current status again is accepted.
type Strict struct{}

func (Strict) CanTransition(from, to models.OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("unknown status %q", to)
	}
	if from == to || transitionMap[transitionKey{from, to}] {
		return nil
	}
	return fmt.Errorf("invalid transition: %s → %s. Valid transitions from %s are: %s",
		from, to, from, describeValidFrom(from))
}

// ForMode picks the policy for the STRICT_TRANSITIONS setting.
func ForMode(strict bool) Policy {
	if strict {
		return Strict{}
	}
	return Permissive{}
}

// ValidTransitionsFrom returns the nominal next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, t := range nominalTransitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// IsFinal reports whether dashboards treat the status as finished.
// Nothing at the data layer stops a final order from moving again.
func IsFinal(status models.OrderStatus) bool {
	return status == models.StatusDelivered || status == models.StatusCanceled
}

// GetAllTransitions returns the nominal flow for documentation
func GetAllTransitions() []Transition {
	return nominalTransitions
}
