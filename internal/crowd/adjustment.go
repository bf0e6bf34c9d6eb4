package crowd

// MultiplierFor projects true attendance from the number of active app
// check-ins. Small crowds are assumed to have near-complete app
// adoption; large gatherings have very low adoption, so the multiplier
// widens with crowd size.
func MultiplierFor(activeCheckins int) int {
	switch {
	case activeCheckins < 10:
		return 3
	case activeCheckins < 50:
		return 5
	case activeCheckins < 200:
		return 8
	case activeCheckins < 1000:
		return 12
	default:
		return 15
	}
}
