package dice

// Probability returns the exact chance that Roll succeeds with the given
// inputs. It enumerates every die combination and consumes no randomness.
func Probability(attrMod int, difficulty Difficulty, adv AdvantageMode) float64 {
	successes, total := 0, 0

	switch adv {
	case AdvantageAdvantage, AdvantageDisadvantage:
		for a := 1; a <= 6; a++ {
			for b := 1; b <= 6; b++ {
				for c := 1; c <= 6; c++ {
					kept := keepTwo(a, b, c, adv == AdvantageAdvantage)
					if band(kept+attrMod, int(difficulty)).IsSuccess() {
						successes++
					}
					total++
				}
			}
		}
	default:
		for a := 1; a <= 6; a++ {
			for b := 1; b <= 6; b++ {
				if band(a+b+attrMod, int(difficulty)).IsSuccess() {
					successes++
				}
				total++
			}
		}
	}

	return float64(successes) / float64(total)
}

func keepTwo(a, b, c int, highest bool) int {
	sum := a + b + c
	lo, hi := a, a
	for _, v := range []int{b, c} {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if highest {
		return sum - lo
	}
	return sum - hi
}
