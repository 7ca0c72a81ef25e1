package reports

// Tier is a sustainability classification of a green ratio.
type Tier string

const (
	TierBeginner Tier = "Green Beginner"
	TierStarter  Tier = "Green Starter"
	TierExplorer Tier = "Eco Explorer"
	TierChampion Tier = "Sustainability Champion"
)

// Band thresholds, in percent.
const (
	ExplorerThreshold = 50.0
	ChampionThreshold = 80.0
)

// TierFor classifies ratio. Anything at or below zero is a beginner.
func TierFor(ratio float64) Tier {
	switch {
	case ratio >= ChampionThreshold:
		return TierChampion
	case ratio >= ExplorerThreshold:
		return TierExplorer
	case ratio > 0:
		return TierStarter
	default:
		return TierBeginner
	}
}
