package dashboard

type badgeRule struct {
	Badge
	earned func(AttemptStats) bool
}

var badgeRules = []badgeRule{
	{
		Badge:  Badge{ID: "first_quiz", Icon: "🏆", Name: "Első kvíz", Requirement: "Tölts ki 1 kvízt"},
		earned: func(s AttemptStats) bool { return s.QuizzesCompleted >= 1 },
	},
	{
		Badge:  Badge{ID: "perfect_score", Icon: "🎯", Name: "Hibátlan", Requirement: "100% egy kvízben"},
		earned: func(s AttemptStats) bool { return s.PerfectCount >= 1 },
	},
	{
		Badge:  Badge{ID: "five_quizzes", Icon: "🔥", Name: "5 kvíz", Requirement: "Tölts ki 5 kvízt"},
		earned: func(s AttemptStats) bool { return s.QuizzesCompleted >= 5 },
	},
	{
		Badge:  Badge{ID: "ten_quizzes", Icon: "⭐", Name: "10 kvíz", Requirement: "Tölts ki 10 kvízt"},
		earned: func(s AttemptStats) bool { return s.QuizzesCompleted >= 10 },
	},
}

// Badges evaluates every badge against stats, in display order.
func Badges(stats AttemptStats) []Badge {
	out := make([]Badge, len(badgeRules))
	for i, rule := range badgeRules {
		b := rule.Badge
		b.Earned = rule.earned(stats)
		out[i] = b
	}
	return out
}

func countEarned(badges []Badge) int {
	n := 0
	for _, b := range badges {
		if b.Earned {
			n++
		}
	}
	return n
}
