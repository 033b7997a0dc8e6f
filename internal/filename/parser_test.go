package filename

import "testing"

func TestParseSeasonEpisodeMarker(t *testing.T) {
	guess := Parse("Some Show - S02E05 - Some Title.mkv")
	if guess.Season != 2 || guess.Episode != 5 {
		t.Fatalf("Parse() season/episode = %d/%d, want 2/5", guess.Season, guess.Episode)
	}
	if guess.RawTitle == "" {
		t.Fatal("Parse() returned empty title")
	}
}

func TestParseAlwaysPositive(t *testing.T) {
	inputs := []string{
		"",
		"random_video.mkv",
		"Show S00E00.mkv",
		"12345.mp4",
		"....",
		"Ünïcødé Tïtle.webm",
	}
	for _, input := range inputs {
		guess := Parse(input)
		if guess.Season < 1 || guess.Episode < 1 {
			t.Errorf("Parse(%q) = %+v, want season and episode >= 1", input, guess)
		}
		if input != "" && guess.RawTitle == "" {
			t.Errorf("Parse(%q) returned empty title", input)
		}
	}
}

func TestHeuristicGuess(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantTitle   string
		wantSeason  int
		wantEpisode int
	}{
		{"sxxexx dotted", "Some.Show.S03E07.Title.mkv", "Some Show", 3, 7},
		{"sxxexx underscore", "Some_Show_s01e12_title.mp4", "Some Show", 1, 12},
		{"nxnn", "Some Show 2x04 Title.avi", "Some Show", 2, 4},
		{"season episode words", "Some Show Season 4 Episode 9.mkv", "Some Show", 4, 9},
		{"ep marker", "Some Show Ep. 6 - Title.mkv", "Some Show", 0, 6},
		{"episode word", "Some Show Episode 11.mkv", "Some Show", 0, 11},
		{"no marker", "Some.Show.mkv", "Some Show", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, season, episode := heuristicGuess(tt.input)
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
			if season != tt.wantSeason || episode != tt.wantEpisode {
				t.Errorf("season/episode = %d/%d, want %d/%d", season, episode, tt.wantSeason, tt.wantEpisode)
			}
		})
	}
}

func TestGuesserFunc(t *testing.T) {
	var g Guesser = GuesserFunc(func(string) Guess {
		return Guess{RawTitle: "fixed", Season: 3, Episode: 4}
	})
	if got := g.Guess("anything"); got.RawTitle != "fixed" || got.Season != 3 || got.Episode != 4 {
		t.Fatalf("Guess() = %+v", got)
	}
}
