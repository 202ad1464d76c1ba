package ai

import (
	"context"
	"fmt"
	"strings"

	"creator-scout/pkg/domain"
)

// nicheSampleVideos is how many of the already-fetched videos feed the
// classification prompt. Using cached data keeps classification at zero
// additional fetch calls.
const nicheSampleVideos = 5

const nicheAnalysisType = "niche verification"

// DefaultNicheBrief describes the target niche for this deployment. It is a
// tuning parameter, not an invariant; override with SetNicheBrief.
const DefaultNicheBrief = `DATING ADVICE + SELF-IMPROVEMENT for men.

PRIORITY 1 - DATING FOCUSED (automatic YES):
- Dating advice, attracting women, relationship psychology
- Flirting, texting game, dating apps (Tinder, Hinge, Bumble)
- Pickup, cold approach, social skills for dating
- Masculinity, dating confidence & mindset

PRIORITY 2 - SELF-IMPROVEMENT WITH DATING ELEMENTS (YES if it includes some dating):
- Confidence building, social skills, charisma, psychology tips
  that mention dating, women or relationships

REJECT - PURE GENERAL CONTENT (NO unless dating is mentioned):
- Pure productivity/business, fitness-only, mental-health-only,
  pure motivational content`

// SetNicheBrief replaces the niche description used by VerifyNiche.
func (a *Analyzer) SetNicheBrief(brief string) {
	a.nicheBrief = brief
}

func (a *Analyzer) brief() string {
	if a.nicheBrief == "" {
		return DefaultNicheBrief
	}
	return a.nicheBrief
}

// NichePrompt builds the classification prompt from cached video data. The
// model must answer in the fixed three-field protocol parsed by
// ParseNicheResponse.
func NichePrompt(brief string, creator *domain.Creator, videos []domain.Video) string {
	sample := videos
	if len(sample) > nicheSampleVideos {
		sample = sample[:nicheSampleVideos]
	}

	var content strings.Builder
	for _, v := range sample {
		desc := v.Description
		if len(desc) > 200 {
			desc = desc[:200]
		}
		fmt.Fprintf(&content, "Title: %s\nDescription: %s...\n\n", v.Title, desc)
	}

	channelDesc := creator.Description
	if len(channelDesc) > 300 {
		channelDesc = channelDesc[:300]
	}

	return fmt.Sprintf(`Analyze these YouTube videos and determine if this channel fits our target niche: %s

Video Content:
%s
Channel Description: %s

QUESTION: Does this channel fit the target niche described above?

Respond with:
1. YES or NO
2. One sentence explaining why
3. Specific category (e.g. "Dating Advice", "Texting Game", "Social Skills + Dating")

Format: YES/NO | Explanation | Category`, brief, content.String(), channelDesc)
}

// ParseNicheResponse splits the model's answer on the pipe protocol. Fewer
// than three fields is a parse failure and yields a negative classification,
// never an error.
func ParseNicheResponse(response string) (match bool, explanation, category string) {
	parts := strings.Split(response, "|")
	if len(parts) < 3 {
		return false, "Could not parse AI response", ""
	}
	decision := strings.ToUpper(strings.TrimSpace(parts[0]))
	explanation = strings.TrimSpace(parts[1])
	category = strings.TrimSpace(parts[2])
	return decision == "YES", explanation, category
}

// VerifyNiche classifies the creator against the configured niche using only
// already-fetched video data. It never returns an error: provider failures
// and malformed responses degrade to a negative classification.
func (a *Analyzer) VerifyNiche(ctx context.Context, creator *domain.Creator, videos []domain.Video) (bool, string, string) {
	if len(videos) == 0 {
		return false, "Could not fetch videos", ""
	}

	prompt := NichePrompt(a.brief(), creator, videos)
	response := a.AnalyzeContent(ctx, prompt, nicheAnalysisType)
	if response == Unavailable(nicheAnalysisType) {
		return false, response, ""
	}
	return ParseNicheResponse(response)
}
