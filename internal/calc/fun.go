package calc

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

// emojiPattern matches a single rune of the emoticon, pictograph, transport,
// flag, miscellaneous symbol and dingbat blocks.
var emojiPattern = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}\x{1F900}-\x{1F9FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]`)

// commitKeywords are the conventional commit types looked for in messages.
var commitKeywords = []string{"feat", "fix", "refactor", "docs", "style", "test", "chore", "perf", "ci", "build", "revert"}

// Fun mines the commit messages. Lengths are counted in characters.
func Fun(commits []domain.Commit) domain.FunStats {
	if len(commits) == 0 {
		return domain.FunStats{
			TopEmojis:         []domain.EmojiCount{},
			TopCommitKeywords: []domain.KeywordCount{},
		}
	}

	longest, shortest := commits[0].Message, commits[0].Message
	lengths := make([]float64, 0, len(commits))
	emojis := newTally()
	keywords := newTally()

	for _, cm := range commits {
		msg := cm.Message
		n := utf8.RuneCountInString(msg)
		lengths = append(lengths, float64(n))
		if n > utf8.RuneCountInString(longest) {
			longest = msg
		}
		if n < utf8.RuneCountInString(shortest) {
			shortest = msg
		}

		for _, e := range emojiPattern.FindAllString(msg, -1) {
			emojis.add(e, 1)
		}

		lower := strings.ToLower(msg)
		for _, kw := range commitKeywords {
			if strings.Contains(lower, kw) {
				keywords.add(kw, 1)
			}
		}
	}

	avg, err := stats.Mean(lengths)
	if err != nil {
		avg = 0
	}

	topEmojis := make([]domain.EmojiCount, 0, topN)
	for _, e := range emojis.top(topN) {
		topEmojis = append(topEmojis, domain.EmojiCount{Emoji: e.key, Count: e.count})
	}
	topKeywords := make([]domain.KeywordCount, 0, topN)
	for _, e := range keywords.top(topN) {
		topKeywords = append(topKeywords, domain.KeywordCount{Keyword: e.key, Count: e.count})
	}

	return domain.FunStats{
		LongestCommitMessage:       longest,
		ShortestCommitMessage:      shortest,
		AverageCommitMessageLength: avg,
		TopEmojis:                  topEmojis,
		TopCommitKeywords:          topKeywords,
	}
}
