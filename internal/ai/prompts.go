package ai

import (
	"fmt"
	"strings"

	"resumatch/internal/matcher"
)

// rerankSystemPrompt instructs the model to act as a cross-encoder
const rerankSystemPrompt = `You are a relevance scorer comparing job requirements with resume sentences.
For every numbered pair, judge how well the resume sentence demonstrates the job requirement.
Return one raw relevance logit per pair, in pair order, between -10 (contradicts or unrelated)
and 10 (directly satisfies the requirement). Use 0 when the evidence is neutral.
Do not skip pairs and do not add commentary.`

// buildRerankPrompt lists the pairs in the order their scores must come back
func buildRerankPrompt(pairs []matcher.Pair) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score the following %d pairs.\n", len(pairs))
	for i, p := range pairs {
		fmt.Fprintf(&b, "\nPair %d\nJob requirement: %s\nResume sentence: %s\n", i+1, p.Job, p.Resume)
	}
	return b.String()
}
