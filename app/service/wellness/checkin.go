package wellness

// CheckIn holds the data of the current daily check-in. Empty strings mean "not
// told yet".
type CheckIn struct {
	Mood        string   `json:"mood"`
	Energy      string   `json:"energy"`
	Objectives  []string `json:"objectives"`
	AdviceGiven string   `json:"advice_given"`
}

// IsComplete reports whether the check-in has mood, energy and at least one objective.
func (c CheckIn) IsComplete() bool {
	return c.Mood != "" && c.Energy != "" && len(c.Objectives) > 0
}

// Stage names the step of the check-in conversation.
type Stage string

const (
	StageStart            Stage = "start"
	StageCollectingMood   Stage = "collecting_mood"
	StageCollectingEnergy Stage = "collecting_energy"
	StageCollectingGoals  Stage = "collecting_goals"
	StageRecapping        Stage = "recapping"
	StageSaved            Stage = "saved"
)

// NextStage derives the step the conversation is at from what has been recorded.
// Recording out of order is allowed, this only reports the first gap.
func (c CheckIn) NextStage() Stage {
	switch {
	case c.Mood == "" && c.Energy == "" && len(c.Objectives) == 0:
		return StageStart
	case c.Mood == "":
		return StageCollectingMood
	case c.Energy == "":
		return StageCollectingEnergy
	case len(c.Objectives) == 0:
		return StageCollectingGoals
	default:
		return StageRecapping
	}
}

func (c CheckIn) clone() CheckIn {
	c.Objectives = append([]string(nil), c.Objectives...)
	return c
}
