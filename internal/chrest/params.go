package chrest

import (
	"fmt"

	"github.com/normanking/chrest/internal/pattern"
)

// Params holds the timing and capacity constants of a model. Times are in
// virtual milliseconds.
type Params struct {
	// LinkTraversalTime is charged for every test link or semantic link followed
	// during recognition.
	LinkTraversalTime int
	// ComparisonTime is charged for every node comparison (semantic search,
	// similarity checks).
	ComparisonTime int
	// DiscriminationTime is charged when a node is added to the network.
	DiscriminationTime int
	// FamiliarisationTime is charged when an image is extended or finished.
	FamiliarisationTime int
	// SemanticLinkCreationTime is charged per direction of a new semantic link.
	SemanticLinkCreationTime int
	// NamingLinkCreationTime is charged when a visual node gains a name.
	NamingLinkCreationTime int
	// ProductionCreationTime is charged when a production is learned.
	ProductionCreationTime int
	// ProductionReinforcementTime is charged when a production is reinforced.
	ProductionReinforcementTime int

	// SemanticSearchDepth bounds how many semantic hops recognition follows.
	SemanticSearchDepth int
	// SimilarityThreshold is the least number of shared image items that
	// semantically links two nodes. Reaching it is enough.
	SimilarityThreshold int
	// LearningProbability is the chance, in [0,1], that learning proceeds once
	// it is possible.
	LearningProbability float64

	// StmCapacity is the short-term memory size per modality.
	StmCapacity [pattern.Count]int
}

// DefaultParams returns the classic parameter set.
func DefaultParams() Params {
	return Params{
		LinkTraversalTime:           10,
		ComparisonTime:              50,
		DiscriminationTime:          10000,
		FamiliarisationTime:         2000,
		SemanticLinkCreationTime:    10000,
		NamingLinkCreationTime:      10000,
		ProductionCreationTime:      10000,
		ProductionReinforcementTime: 50,
		SemanticSearchDepth:         1,
		SimilarityThreshold:         4,
		LearningProbability:         1.0,
		StmCapacity: [pattern.Count]int{
			pattern.Visual: 4,
			pattern.Verbal: 2,
			pattern.Action: 4,
		},
	}
}

// Validate checks the parameters for values the model cannot run with.
func (p Params) Validate() error {
	times := map[string]int{
		"link_traversal_time":           p.LinkTraversalTime,
		"comparison_time":               p.ComparisonTime,
		"discrimination_time":           p.DiscriminationTime,
		"familiarisation_time":          p.FamiliarisationTime,
		"semantic_link_creation_time":   p.SemanticLinkCreationTime,
		"naming_link_creation_time":     p.NamingLinkCreationTime,
		"production_creation_time":      p.ProductionCreationTime,
		"production_reinforcement_time": p.ProductionReinforcementTime,
	}
	for name, v := range times {
		if v < 0 {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	if p.SemanticSearchDepth < 0 {
		return fmt.Errorf("semantic_search_depth cannot be negative")
	}
	if p.SimilarityThreshold < 1 {
		return fmt.Errorf("similarity_threshold must be at least 1")
	}
	if p.LearningProbability < 0 || p.LearningProbability > 1 {
		return fmt.Errorf("learning_probability must be between 0 and 1")
	}
	for _, m := range pattern.Modalities() {
		if p.StmCapacity[m] < 1 {
			return fmt.Errorf("%s stm capacity must be at least 1", m)
		}
	}
	return nil
}
