package external

import "strings"

type topicMapping struct {
	keywords []string
	openTDB  int
	trivia   string
}

// topics maps free-text quiz topics (English and Hungarian keywords) to provider categories.
// Earlier entries win, so narrower subjects come first.
var topics = []topicMapping{
	{[]string{"computer", "programming", "informatika", "számítógép"}, 18, "science"},
	{[]string{"math", "matek", "matematika"}, 19, "science"},
	{[]string{"science", "physics", "chemistry", "biology", "természettudomány", "fizika", "kémia", "biológia"}, 17, "science"},
	{[]string{"geography", "földrajz"}, 22, "geography"},
	{[]string{"history", "történelem"}, 23, "history"},
	{[]string{"literature", "irodalom"}, 10, "arts_and_literature"},
	{[]string{"art", "művészet"}, 25, "arts_and_literature"},
	{[]string{"sport"}, 21, "sport_and_leisure"},
	{[]string{"music", "zene"}, 12, "music"},
	{[]string{"film", "movie"}, 11, "film_and_tv"},
	{[]string{"food", "étel", "gasztronómia"}, 0, "food_and_drink"},
	{[]string{"animal", "állat"}, 27, ""},
}

func lookupTopic(topic string) topicMapping {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return topicMapping{}
	}
	for _, m := range topics {
		for _, kw := range m.keywords {
			if strings.Contains(topic, kw) {
				return m
			}
		}
	}
	return topicMapping{}
}

// CategoryForTopic returns the OpenTDB category for a topic, or 0 when none matches.
func CategoryForTopic(topic string) int {
	return lookupTopic(topic).openTDB
}
