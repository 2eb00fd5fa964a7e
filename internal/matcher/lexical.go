package matcher

import (
	"math"
	"regexp"
	"strings"
)

const (
	DefaultPriorityBoost = 1.3
	DefaultFloorWeight   = 0.1
)

// SkillWeights maps a canonical skill to its importance in the job text.
type SkillWeights map[string]float64

// Total sums the weights of the given skills.
func (w SkillWeights) Total(skills []string) float64 {
	total := 0.0
	for _, s := range skills {
		total += w[s]
	}
	return total
}

// Weigher derives skill and sentence weights from TF-IDF statistics of the
// job description.
type Weigher struct {
	PriorityBoost float64
	FloorWeight   float64
}

// Weigh returns a weight per job skill and a weight per job sentence.
//
// TF-IDF (unigrams and bigrams, smoothed idf, L2-normalised rows) is fitted
// over the job sentences, or over the whole job text when there are none. A
// term's score is the sum of its column. A skill's weight is the summed score
// of every term the analyzer produces for the skill phrase, floored at
// FloorWeight and multiplied by PriorityBoost when the skill is a priority
// term. A sentence's weight is its row sum, boosted when it mentions a
// priority term.
func (w Weigher) Weigh(jobSkills SkillSet, jobSentences []SentenceUnit, jobText string, priority map[string]bool) (SkillWeights, []float64) {
	boost := w.PriorityBoost
	if boost <= 0 {
		boost = DefaultPriorityBoost
	}
	floor := w.FloorWeight
	if floor <= 0 {
		floor = DefaultFloorWeight
	}

	docs := Texts(jobSentences)
	if len(docs) == 0 {
		docs = []string{jobText}
	}
	model := fitTFIDF(docs)

	skillWeights := make(SkillWeights, len(jobSkills))
	for _, skill := range jobSkills {
		lower := strings.ToLower(skill)
		weight := 0.0
		for _, term := range analyze(lower) {
			weight += model.termScore(term)
		}
		if weight == 0 {
			weight = floor
		}
		if priority[lower] {
			weight *= boost
		}
		skillWeights[skill] = weight
	}

	sentenceWeights := make([]float64, len(jobSentences))
	for i, s := range jobSentences {
		weight := model.rowSum(i)
		if mentionsAny(strings.ToLower(s.Text), priority) {
			weight *= boost
		}
		sentenceWeights[i] = weight
	}

	return skillWeights, sentenceWeights
}

func mentionsAny(lowerText string, terms map[string]bool) bool {
	for term := range terms {
		if strings.Contains(lowerText, term) {
			return true
		}
	}
	return false
}

// wordPattern selects runs of two or more letters, digits or underscores.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// analyze lowercases text and returns its unigrams followed by its bigrams.
func analyze(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	terms := make([]string, 0, 2*len(words))
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

type tfidfModel struct {
	vocab      map[string]int
	rows       []map[int]float64
	termScores []float64
}

func fitTFIDF(docs []string) *tfidfModel {
	m := &tfidfModel{vocab: make(map[string]int)}

	counts := make([]map[int]float64, len(docs))
	var df []int
	for d, doc := range docs {
		counts[d] = make(map[int]float64)
		for _, term := range analyze(doc) {
			idx, ok := m.vocab[term]
			if !ok {
				idx = len(m.vocab)
				m.vocab[term] = idx
				df = append(df, 0)
			}
			if counts[d][idx] == 0 {
				df[idx]++
			}
			counts[d][idx]++
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(df))
	for i, f := range df {
		idf[i] = math.Log((1+n)/(1+float64(f))) + 1
	}

	m.termScores = make([]float64, len(df))
	m.rows = make([]map[int]float64, len(docs))
	for d, row := range counts {
		norm := 0.0
		for idx, tf := range row {
			row[idx] = tf * idf[idx]
			norm += row[idx] * row[idx]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for idx := range row {
				row[idx] /= norm
				m.termScores[idx] += row[idx]
			}
		}
		m.rows[d] = row
	}
	return m
}

func (m *tfidfModel) termScore(term string) float64 {
	if idx, ok := m.vocab[term]; ok {
		return m.termScores[idx]
	}
	return 0
}

func (m *tfidfModel) rowSum(d int) float64 {
	if d >= len(m.rows) {
		return 0
	}
	sum := 0.0
	for _, v := range m.rows[d] {
		sum += v
	}
	return sum
}
