// Package guild matches a user's self-description against a catalog of
// guilds and decides whether the user would make a good guild founder.
package guild

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Category groups guilds by theme.
type Category string

const (
	CategoryGaming      Category = "gaming"
	CategoryDevelopment Category = "development"
	CategoryArt         Category = "art"
	CategoryResearch    Category = "research"
	CategoryCommunity   Category = "community"
)

// ActivityLevel is how often a user participates.
type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "low"
	ActivityMedium ActivityLevel = "medium"
	ActivityHigh   ActivityLevel = "high"
)

// Requirements gate membership. Zero values mean "no requirement".
type Requirements struct {
	MinLevel   int      `json:"min_level,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience int      `json:"experience,omitempty"`
}

// Guild is a joinable community.
type Guild struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Category     Category     `json:"category"`
	MemberCount  int          `json:"member_count"`
	Requirements Requirements `json:"requirements"`
	Tags         []string     `json:"tags"`
}

// Profile is what can be inferred about a user from their message.
type Profile struct {
	Level         int           `json:"level"`
	Skills        []string      `json:"skills"`
	Interests     []string      `json:"interests"`
	Experience    int           `json:"experience"`
	Leadership    bool          `json:"leadership"`
	ActivityLevel ActivityLevel `json:"activity_level"`
}

// Match is a guild ranked for a profile.
type Match struct {
	Guild Guild `json:"guild"`
	Score int   `json:"score"`
}

// Recommendation is the outcome of analyzing a profile.
type Recommendation struct {
	Profile     Profile `json:"profile"`
	ShouldFound bool    `json:"should_create_guild"`
	Matches     []Match `json:"recommended_guilds"`
}

// MaxMatches caps how many guilds Recommend returns.
const MaxMatches = 3

// Catalog is the built-in set of guilds.
var Catalog = []Guild{
	{
		ID:           "adventurers-guild",
		Name:         "Adventurers Guild",
		Description:  "For explorers and quest seekers in virtual worlds",
		Category:     CategoryGaming,
		MemberCount:  150,
		Requirements: Requirements{MinLevel: 10},
		Tags:         []string{"adventure", "exploration", "quests", "RPG"},
	},
	{
		ID:           "developers-alliance",
		Name:         "Developers Alliance",
		Description:  "Collaborative space for game developers and programmers",
		Category:     CategoryDevelopment,
		MemberCount:  89,
		Requirements: Requirements{Skills: []string{"programming"}, Experience: 1},
		Tags:         []string{"coding", "programming", "collaboration", "learning"},
	},
	{
		ID:           "art-collective",
		Name:         "Art Collective",
		Description:  "Creative community for digital artists and designers",
		Category:     CategoryArt,
		MemberCount:  67,
		Requirements: Requirements{Skills: []string{"art", "design"}},
		Tags:         []string{"art", "design", "creativity", "visual"},
	},
	{
		ID:           "ai-research-society",
		Name:         "AI Research Society",
		Description:  "Advanced AI research and experimentation group",
		Category:     CategoryResearch,
		MemberCount:  45,
		Requirements: Requirements{MinLevel: 25, Skills: []string{"AI", "research"}, Experience: 3},
		Tags:         []string{"AI", "research", "innovation", "technology"},
	},
}

var (
	skillKeywords    = []string{"programming", "coding", "art", "design", "research", "ai", "gaming"}
	interestKeywords = []string{"games", "development", "art", "ai", "research", "community"}

	levelPattern      = regexp.MustCompile(`(?i)level\s*(\d+)`)
	experiencePattern = regexp.MustCompile(`(?i)(\d+)\s*years?(?:\s+of)?(?:\s+\w+){0,2}?\s+(?:experience|exp)`)
)

// ExtractProfile infers a profile from free text. Missing level defaults to
// 1 and missing experience to 0.
func ExtractProfile(text string) Profile {
	content := strings.ToLower(text)

	p := Profile{
		Level:         1,
		Skills:        containedKeywords(content, skillKeywords),
		Interests:     containedKeywords(content, interestKeywords),
		Leadership:    strings.Contains(content, "lead") || strings.Contains(content, "manage"),
		ActivityLevel: ActivityLow,
	}

	if m := levelPattern.FindStringSubmatch(content); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			p.Level = n
		}
	}
	if m := experiencePattern.FindStringSubmatch(content); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			p.Experience = n
		}
	}

	switch {
	case strings.Contains(content, "very active"):
		p.ActivityLevel = ActivityHigh
	case strings.Contains(content, "sometimes"):
		p.ActivityLevel = ActivityMedium
	}

	return p
}

func containedKeywords(content string, keywords []string) []string {
	found := []string{}
	for _, k := range keywords {
		if strings.Contains(content, k) {
			found = append(found, k)
		}
	}
	return found
}

// ShouldFound reports whether the profile suits founding a new guild.
func ShouldFound(p Profile) bool {
	return p.Leadership &&
		p.Experience >= 3 &&
		p.Level >= 20 &&
		p.ActivityLevel == ActivityHigh
}

// MeetsRequirements reports whether p satisfies every requirement of g.
// A skills requirement is satisfied by any one of the listed skills.
func MeetsRequirements(p Profile, g Guild) bool {
	r := g.Requirements
	if r.MinLevel > 0 && p.Level < r.MinLevel {
		return false
	}
	if r.Experience > 0 && p.Experience < r.Experience {
		return false
	}
	if len(r.Skills) > 0 {
		for _, s := range r.Skills {
			if hasFold(p.Skills, s) {
				return true
			}
		}
		return false
	}
	return true
}

// Score rates how well g fits p on a 0..100 scale.
func Score(p Profile, g Guild) int {
	score := 0

	for _, tag := range g.Tags {
		if hasFold(p.Skills, tag) || hasFold(p.Interests, tag) {
			score += 20
		}
	}

	if g.Requirements.MinLevel > 0 {
		score += clamp((p.Level-g.Requirements.MinLevel)*2, 0, 20)
	}

	if p.ActivityLevel == ActivityHigh {
		score += 10
	}

	return clamp(score, 0, 100)
}

// Recommend ranks the eligible guilds in catalog for p, best first.
func Recommend(p Profile, catalog []Guild) Recommendation {
	matches := []Match{}
	for _, g := range catalog {
		if MeetsRequirements(p, g) {
			matches = append(matches, Match{Guild: g, Score: Score(p, g)})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > MaxMatches {
		matches = matches[:MaxMatches]
	}

	return Recommendation{
		Profile:     p,
		ShouldFound: ShouldFound(p),
		Matches:     matches,
	}
}

// Summary renders r as the text handed back to the model.
func (r Recommendation) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "User Analysis:\n")
	fmt.Fprintf(&b, "- Level: %d\n", r.Profile.Level)
	fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(r.Profile.Skills, ", "))
	fmt.Fprintf(&b, "- Experience: %d years\n", r.Profile.Experience)
	fmt.Fprintf(&b, "- Leadership: %s\n", yesNo(r.Profile.Leadership))
	fmt.Fprintf(&b, "- Activity Level: %s\n", r.Profile.ActivityLevel)

	if r.ShouldFound {
		b.WriteString("\nWell suited to create their own guild: leadership experience and a high activity level.\n")
	}

	if len(r.Matches) > 0 {
		b.WriteString("\nRecommended Guilds:\n")
		for i, m := range r.Matches {
			fmt.Fprintf(&b, "%d. %s (%d%% match)\n", i+1, m.Guild.Name, m.Score)
			fmt.Fprintf(&b, "   %s\n", m.Guild.Description)
			fmt.Fprintf(&b, "   Members: %d | Category: %s\n", m.Guild.MemberCount, m.Guild.Category)
		}
	} else {
		b.WriteString("\nNo existing guild matches the stated level, skills and experience.\n")
	}

	return b.String()
}

func hasFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
