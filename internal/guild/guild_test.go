package guild

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractProfile(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Profile
	}{
		{
			name: "programmer looking to join",
			text: "I want to find a guild to join. I have 5 years of programming experience and enjoy collaborative projects.",
			want: Profile{
				Level:         1,
				Skills:        []string{"programming"},
				Interests:     []string{},
				Experience:    5,
				ActivityLevel: ActivityLow,
			},
		},
		{
			name: "active research lead",
			text: "I'm Level 30 with 4 years experience in AI research, I lead a team and I'm very active",
			want: Profile{
				Level:         30,
				Skills:        []string{"research", "ai"},
				Interests:     []string{"ai", "research"},
				Experience:    4,
				Leadership:    true,
				ActivityLevel: ActivityHigh,
			},
		},
		{
			name: "experienced lead",
			text: "3 years experienced lead",
			want: Profile{
				Level:         1,
				Skills:        []string{},
				Interests:     []string{},
				Experience:    3,
				Leadership:    true,
				ActivityLevel: ActivityLow,
			},
		},
		{
			name: "expertise counts as experience",
			text: "2 years expertise",
			want: Profile{
				Level:         1,
				Skills:        []string{},
				Interests:     []string{},
				Experience:    2,
				ActivityLevel: ActivityLow,
			},
		},
		{
			name: "casual player",
			text: "I play games sometimes",
			want: Profile{
				Level:         1,
				Skills:        []string{},
				Interests:     []string{"games"},
				ActivityLevel: ActivityMedium,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractProfile(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractProfile() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMeetsRequirements(t *testing.T) {
	ai := Catalog[3]

	tests := []struct {
		name    string
		profile Profile
		want    bool
	}{
		{"under level", Profile{Level: 24, Experience: 5, Skills: []string{"ai"}}, false},
		{"under experience", Profile{Level: 30, Experience: 2, Skills: []string{"ai"}}, false},
		{"missing skill", Profile{Level: 30, Experience: 5, Skills: []string{"art"}}, false},
		{"any one skill is enough", Profile{Level: 25, Experience: 3, Skills: []string{"research"}}, true},
		{"skill match ignores case", Profile{Level: 25, Experience: 3, Skills: []string{"ai"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MeetsRequirements(tt.profile, ai); got != tt.want {
				t.Errorf("MeetsRequirements() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreIsClamped(t *testing.T) {
	g := Guild{
		Tags:         []string{"a", "b", "c", "d", "e", "f"},
		Requirements: Requirements{MinLevel: 1},
	}
	p := Profile{
		Level:         50,
		Skills:        []string{"a", "b", "c", "d", "e", "f"},
		ActivityLevel: ActivityHigh,
	}
	if got := Score(p, g); got != 100 {
		t.Errorf("Score() = %d, want 100", got)
	}

	// Level below the minimum contributes nothing rather than a penalty.
	low := Profile{Level: 1}
	if got := Score(low, Guild{Requirements: Requirements{MinLevel: 10}}); got != 0 {
		t.Errorf("Score() = %d, want 0", got)
	}
}

func TestRecommend(t *testing.T) {
	t.Run("programmer gets developers alliance", func(t *testing.T) {
		p := ExtractProfile("I have 5 years of programming experience")
		rec := Recommend(p, Catalog)

		if rec.ShouldFound {
			t.Error("ShouldFound should be false")
		}
		if len(rec.Matches) != 1 {
			t.Fatalf("got %d matches, want 1", len(rec.Matches))
		}
		if rec.Matches[0].Guild.ID != "developers-alliance" || rec.Matches[0].Score != 20 {
			t.Errorf("unexpected match %+v", rec.Matches[0])
		}
	})

	t.Run("research lead should found and is ranked", func(t *testing.T) {
		p := ExtractProfile("I'm level 30 with 4 years experience in AI research, I lead a team and I'm very active")
		rec := Recommend(p, Catalog)

		if !rec.ShouldFound {
			t.Error("ShouldFound should be true")
		}
		var ids []string
		var scores []int
		for _, m := range rec.Matches {
			ids = append(ids, m.Guild.ID)
			scores = append(scores, m.Score)
		}
		if !reflect.DeepEqual(ids, []string{"ai-research-society", "adventurers-guild"}) {
			t.Errorf("matches = %v", ids)
		}
		if !reflect.DeepEqual(scores, []int{60, 30}) {
			t.Errorf("scores = %v", scores)
		}
	})

	t.Run("caps at three", func(t *testing.T) {
		catalog := make([]Guild, 5)
		for i := range catalog {
			catalog[i] = Guild{ID: string(rune('a' + i))}
		}
		rec := Recommend(Profile{Level: 1}, catalog)
		if len(rec.Matches) != MaxMatches {
			t.Errorf("got %d matches, want %d", len(rec.Matches), MaxMatches)
		}
	})
}

func TestSummary(t *testing.T) {
	rec := Recommend(ExtractProfile("level 30, 4 years exp in ai research, I manage things and am very active"), Catalog)
	s := rec.Summary()

	for _, want := range []string{
		"- Level: 30",
		"- Experience: 4 years",
		"- Leadership: Yes",
		"create their own guild",
		"1. AI Research Society",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}

	empty := Recommendation{Profile: Profile{ActivityLevel: ActivityLow}}
	if !strings.Contains(empty.Summary(), "No existing guild") {
		t.Error("empty recommendation should say no guild matches")
	}
}
