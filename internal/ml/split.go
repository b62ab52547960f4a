package ml

// splitSweep accumulates impurity statistics as samples move from the right
// partition to the left, one sorted sample at a time. gain reports the
// impurity decrease of splitting after `left` samples; higher is better.
type splitSweep interface {
	moveLeft(target float64)
	gain(left, total int) float64
}

type varianceSweep struct {
	leftSum, leftSq   float64
	rightSum, rightSq float64
	totalImpurity     float64
}

func newVarianceSweep(y []float64, order []int) *varianceSweep {
	s := &varianceSweep{}
	for _, i := range order {
		s.rightSum += y[i]
		s.rightSq += y[i] * y[i]
	}
	n := float64(len(order))
	mean := s.rightSum / n
	s.totalImpurity = s.rightSq/n - mean*mean
	return s
}

func (s *varianceSweep) moveLeft(t float64) {
	s.leftSum += t
	s.leftSq += t * t
	s.rightSum -= t
	s.rightSq -= t * t
}

func (s *varianceSweep) gain(left, total int) float64 {
	nl, nr := float64(left), float64(total-left)
	ml := s.leftSum / nl
	mr := s.rightSum / nr
	varL := s.leftSq/nl - ml*ml
	varR := s.rightSq/nr - mr*mr
	return s.totalImpurity - (nl*varL+nr*varR)/float64(total)
}

type giniSweep struct {
	leftCounts    []float64
	rightCounts   []float64
	totalImpurity float64
}

func newGiniSweep(y []float64, order []int, numClasses int) *giniSweep {
	s := &giniSweep{
		leftCounts:  make([]float64, numClasses),
		rightCounts: make([]float64, numClasses),
	}
	for _, i := range order {
		c := int(y[i])
		if c >= 0 && c < numClasses {
			s.rightCounts[c]++
		}
	}
	s.totalImpurity = gini(s.rightCounts, len(order))
	return s
}

func (s *giniSweep) moveLeft(t float64) {
	c := int(t)
	if c >= 0 && c < len(s.leftCounts) {
		s.leftCounts[c]++
		s.rightCounts[c]--
	}
}

func (s *giniSweep) gain(left, total int) float64 {
	nl, nr := float64(left), float64(total-left)
	weighted := (nl*gini(s.leftCounts, left) + nr*gini(s.rightCounts, total-left)) / float64(total)
	return s.totalImpurity - weighted
}

func gini(counts []float64, n int) float64 {
	if n == 0 {
		return 0
	}
	sumSq := 0.0
	for _, c := range counts {
		p := c / float64(n)
		sumSq += p * p
	}
	return 1 - sumSq
}
