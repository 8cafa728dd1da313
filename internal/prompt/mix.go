package prompt

// CategoryMix is the standard/critical/linking proportion policy applied
// to a generation request: 70% recall/application, 20% higher-order
// critical thinking, 10% cross-concept linking.
type CategoryMix struct {
	Standard int `json:"standard"`
	Critical int `json:"critical"`
	Linking  int `json:"linking"`
}

func (m CategoryMix) Total() int {
	return m.Standard + m.Critical + m.Linking
}

var categoryPercents = [3]int{70, 20, 10}

// SplitCategories apportions total across the three buckets with the
// largest-remainder method, so the buckets always sum exactly to total.
// Ties go to the earlier bucket (standard, then critical, then linking).
func SplitCategories(total int) CategoryMix {
	if total <= 0 {
		return CategoryMix{}
	}
	var buckets [3]int
	var remainders [3]int
	assigned := 0
	for i, pct := range categoryPercents {
		buckets[i] = total * pct / 100
		remainders[i] = total * pct % 100
		assigned += buckets[i]
	}
	for rest := total - assigned; rest > 0; rest-- {
		best := 0
		for i := 1; i < 3; i++ {
			if remainders[i] > remainders[best] {
				best = i
			}
		}
		buckets[best]++
		remainders[best] = -1
	}
	return CategoryMix{Standard: buckets[0], Critical: buckets[1], Linking: buckets[2]}
}

// ApportionMix splits the document-level mix for total questions across
// units. Each category's bucket is dealt round-robin with one continuous
// cursor, so per-unit totals differ by at most one and the category
// buckets still sum exactly to SplitCategories(total).
func ApportionMix(total, units int) []CategoryMix {
	if total <= 0 || units <= 0 {
		return nil
	}
	mix := SplitCategories(total)
	out := make([]CategoryMix, units)
	cursor := 0
	deal := func(n int, bump func(*CategoryMix)) {
		for ; n > 0; n-- {
			bump(&out[cursor%units])
			cursor++
		}
	}
	deal(mix.Standard, func(m *CategoryMix) { m.Standard++ })
	deal(mix.Critical, func(m *CategoryMix) { m.Critical++ })
	deal(mix.Linking, func(m *CategoryMix) { m.Linking++ })
	return out
}

// SplitMixedTypes splits a mixed-type request into multiple-choice and
// true/false counts (65% multiple choice, remainder true/false).
func SplitMixedTypes(total int) (mcq, tf int) {
	if total <= 0 {
		return 0, 0
	}
	mcq = total * 65 / 100
	return mcq, total - mcq
}
