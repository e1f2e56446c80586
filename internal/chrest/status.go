package chrest

import (
	"fmt"

	"github.com/normanking/chrest/internal/ltm"
)

// Status is the domain outcome of a timed model operation. None of these are
// errors; busy and refused outcomes simply tell the caller to try later.
type Status int

const (
	ModelDoesNotExistAtTime Status = iota
	AttentionBusy
	CognitionBusy
	PerceiverBusy
	InputAlreadyLearned
	LearningRefused
	DiscriminationSuccessful
	DiscriminationFailed
	FamiliarisationSuccessful
	FamiliarisationFailed
	VisionNotInStm
	ActionNotInStm
	LearnProductionSuccessful
	LearnProductionFailed
	ProductionAlreadyLearned
	NoProductionIdentified
	ProductionReinforcementSuccessful
	ProductionReinforcementFailed
)

var statusNames = map[Status]string{
	ModelDoesNotExistAtTime:           "model_does_not_exist_at_time",
	AttentionBusy:                     "attention_busy",
	CognitionBusy:                     "cognition_busy",
	PerceiverBusy:                     "perceiver_busy",
	InputAlreadyLearned:               "input_already_learned",
	LearningRefused:                   "learning_refused",
	DiscriminationSuccessful:          "discrimination_successful",
	DiscriminationFailed:              "discrimination_failed",
	FamiliarisationSuccessful:         "familiarisation_successful",
	FamiliarisationFailed:             "familiarisation_failed",
	VisionNotInStm:                    "vision_not_in_stm",
	ActionNotInStm:                    "action_not_in_stm",
	LearnProductionSuccessful:         "learn_production_successful",
	LearnProductionFailed:             "learn_production_failed",
	ProductionAlreadyLearned:          "production_already_learned",
	NoProductionIdentified:            "no_production_identified",
	ProductionReinforcementSuccessful: "production_reinforcement_successful",
	ProductionReinforcementFailed:     "production_reinforcement_failed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Busy reports whether the status is a resource refusal the caller may retry.
func (s Status) Busy() bool {
	return s == AttentionBusy || s == CognitionBusy || s == PerceiverBusy
}

// Learned reports whether the network changed.
func (s Status) Learned() bool {
	return s == DiscriminationSuccessful || s == FamiliarisationSuccessful
}

// Result is returned by RecogniseAndLearn.
type Result struct {
	Status Status
	// Recognised is the node the input sorted to, nil when the call was
	// refused before recognition.
	Recognised *ltm.Node
	// Learned is the node created or extended by learning, if any.
	Learned *ltm.Node
	// Time is the cognition clock after the call.
	Time int
}
