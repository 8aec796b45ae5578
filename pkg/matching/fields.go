package matching

// Blend of the ratio family used for names. Full-string, partial-substring
// and token-reordering metrics together tolerate typos as well as reordered
// or abbreviated names.
const (
	nameRatioWeight     = 0.30
	namePartialWeight   = 0.20
	nameTokenSortWeight = 0.25
	nameTokenSetWeight  = 0.25
)

// Phone numbers whose last eight digits agree get partial credit (area-code typos or omissions)
const (
	phoneSuffixLength = 8
	phoneSuffixScore  = 0.8
)

// All field scores take normalized values and return a value in [0,1].
// An empty value on either side carries no signal and scores 0.

// ScoreName blends four Levenshtein-family metrics over two normalized names
func (s *Scorer) ScoreName(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	combined := s.Ratio(a, b)*nameRatioWeight +
		s.PartialRatio(a, b)*namePartialWeight +
		s.TokenSortRatio(a, b)*nameTokenSortWeight +
		s.TokenSetRatio(a, b)*nameTokenSetWeight

	return clamp01(combined / 100.0)
}

// ScoreNationalID is exact: the national ID is authoritative and gets no partial credit
func (s *Scorer) ScoreNationalID(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	return 0.0
}

// ScorePhone scores exact matches 1.0, a shared 8-digit local number 0.8,
// and falls back to the Levenshtein ratio otherwise
func (s *Scorer) ScorePhone(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	if len(a) >= phoneSuffixLength && len(b) >= phoneSuffixLength &&
		a[len(a)-phoneSuffixLength:] == b[len(b)-phoneSuffixLength:] {
		return phoneSuffixScore
	}
	return clamp01(s.Ratio(a, b) / 100.0)
}

// ScoreAddress uses the token-set ratio since addresses are abbreviated
// and ordered inconsistently across spreadsheets
func (s *Scorer) ScoreAddress(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	return clamp01(s.TokenSetRatio(a, b) / 100.0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0.0
	}
	if v > 1 {
		return 1.0
	}
	return v
}
