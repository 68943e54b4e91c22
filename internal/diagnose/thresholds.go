package diagnose

// Thresholds carries the per-metric severity tiers. It is passed explicitly
// into classification and synthesis so tests can exercise boundary values
// without touching process-wide state.
type Thresholds struct {
	TempRange      Tier // °C spread of actual temperature over the window
	DutyMean       Tier // mean heater duty fraction
	LagMean        Tier // mean target-minus-actual °C
	DynZActive     Tier // percent of print time with DynZ engaged
	FanOscillation Tier // mean fan % change per sample
}

// DefaultThresholds returns the production diagnostic thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TempRange:      Tier{Warning: 1.0, Critical: 2.0},
		DutyMean:       Tier{Warning: 0.85, Critical: 0.95},
		LagMean:        Tier{Warning: 3.0, Critical: 5.0},
		DynZActive:     Tier{Warning: NoTier, Critical: 20.0},
		FanOscillation: Tier{Warning: 15.0, Critical: NoTier},
	}
}
