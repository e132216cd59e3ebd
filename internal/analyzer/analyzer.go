// Package analyzer computes descriptive statistics over a parsed chat.
// Analysis is a pure one-shot pass: one chat in, one Report out.
package analyzer

import (
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/forPelevin/gomoji"

	"github.com/waview/waview/internal/lang"
	"github.com/waview/waview/internal/model"
)

// DefaultLatest is how many trailing messages the Report carries.
const DefaultLatest = 5

// lengthEdges define the message-length histogram buckets (rune counts).
var lengthEdges = []struct {
	max   int
	label string
}{
	{10, "1-10"},
	{25, "11-25"},
	{50, "26-50"},
	{100, "51-100"},
	{200, "101-200"},
	{500, "201-500"},
	{1 << 30, "500+"},
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Analyze computes the full report for a chat. An empty chat yields a
// zero-valued report; it never fails.
func Analyze(chat *model.Chat) *Report {
	r := &Report{
		HourCounts:    make([]HourCount, 24),
		WeekdayCounts: make([]WeekdayCount, len(weekdays)),
		Lengths:       make([]LengthBucket, len(lengthEdges)),
		Languages: LanguageStats{
			Counts:    make(map[string]int),
			PerSender: make(map[string]map[string]int),
		},
	}
	for h := range r.HourCounts {
		r.HourCounts[h].Hour = h
	}
	for i, wd := range weekdays {
		r.WeekdayCounts[i].Weekday = wd.String()
	}
	for i, e := range lengthEdges {
		r.Lengths[i].Label = e.label
	}

	if len(chat.Messages) == 0 {
		return r
	}

	bySender := make(map[string]*SenderStats)
	daily := make(map[string]int)
	earlyBirds := make(map[string]int)
	nightOwls := make(map[string]int)
	emojiCounts := make(map[string]int)

	first := chat.Messages[0].Timestamp
	last := first

	for _, msg := range chat.Messages {
		r.Overview.TotalMessages++

		if msg.Timestamp.Before(first) {
			first = msg.Timestamp
		}
		if msg.Timestamp.After(last) {
			last = msg.Timestamp
		}

		switch msg.Kind {
		case model.SystemMessage:
			r.Overview.SystemCount++
			countGroupEvent(&r.Overview, msg.Body)
			continue
		case model.MediaMessage:
			r.Overview.MediaCount++
		default:
			r.Overview.TextCount++
		}

		daily[msg.Timestamp.Format("2006-01-02")]++
		hour := msg.Timestamp.Hour()
		r.HourCounts[hour].Count++
		r.WeekdayCounts[weekdayIndex(msg.Timestamp.Weekday())].Count++

		if hour >= 5 && hour <= 11 {
			earlyBirds[msg.Sender]++
		}
		if hour >= 22 || hour < 5 {
			nightOwls[msg.Sender]++
		}

		ss := bySender[msg.Sender]
		if ss == nil {
			ss = &SenderStats{Name: msg.Sender}
			bySender[msg.Sender] = ss
		}
		ss.Messages++
		if msg.Kind == model.MediaMessage {
			ss.MediaCount++
			continue
		}

		runeLen := len([]rune(msg.Body))
		ss.AvgLength += float64(runeLen) // running sum, divided below
		ss.Words += len(strings.Fields(msg.Body))
		r.Lengths[lengthBucket(runeLen)].Count++

		for _, e := range gomoji.FindAll(msg.Body) {
			emojiCounts[e.Character]++
			r.Emoji.Total++
		}

		bucket := string(lang.Detect(msg.Body))
		r.Languages.Counts[bucket]++
		perSender := r.Languages.PerSender[msg.Sender]
		if perSender == nil {
			perSender = make(map[string]int)
			r.Languages.PerSender[msg.Sender] = perSender
		}
		perSender[bucket]++
	}

	r.Overview.First = first.Format(time.RFC3339)
	r.Overview.Last = last.Format(time.RFC3339)
	r.Overview.SpanDays = int(last.Sub(first).Hours() / 24)
	r.Overview.Participants = len(bySender)

	r.Senders = finishSenders(bySender, r.Overview.TextCount+r.Overview.MediaCount)
	r.DailyVolume = sortDaily(daily)
	r.PeakHours = topHours(r.HourCounts, 3)
	r.PeakWeekdays = topWeekdays(r.WeekdayCounts, 3)
	r.EarlyBirds = topSenders(earlyBirds, 3)
	r.NightOwls = topSenders(nightOwls, 3)
	r.ResponseGaps = responseGaps(chat.Messages)
	r.Emoji.Unique = len(emojiCounts)
	r.Emoji.Top = topEmoji(emojiCounts, 10)
	r.Latest = LatestMessages(chat, DefaultLatest)

	return r
}

// countGroupEvent tallies member joins and leaves from system event text.
func countGroupEvent(o *Overview, body string) {
	lower := strings.ToLower(body)
	switch {
	case strings.Contains(lower, " joined") || strings.Contains(lower, " added"):
		o.Joins++
	case strings.Contains(lower, " left") || strings.Contains(lower, " removed"):
		o.Leaves++
	}
}

func weekdayIndex(wd time.Weekday) int {
	// time.Weekday starts at Sunday; the report orders Monday first.
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

func lengthBucket(n int) int {
	for i, e := range lengthEdges {
		if n <= e.max {
			return i
		}
	}
	return len(lengthEdges) - 1
}

func finishSenders(bySender map[string]*SenderStats, total int) []SenderStats {
	out := make([]SenderStats, 0, len(bySender))
	for _, ss := range bySender {
		textMsgs := ss.Messages - ss.MediaCount
		if textMsgs > 0 {
			ss.AvgLength /= float64(textMsgs)
		}
		if total > 0 {
			ss.Share = float64(ss.Messages) / float64(total)
		}
		out = append(out, *ss)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Messages != out[j].Messages {
			return out[i].Messages > out[j].Messages
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func sortDaily(daily map[string]int) []DailyCount {
	out := make([]DailyCount, 0, len(daily))
	for date, count := range daily {
		out = append(out, DailyCount{Date: date, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func topHours(counts []HourCount, n int) []HourCount {
	sorted := append([]HourCount(nil), counts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Hour < sorted[j].Hour
	})
	return trimHours(sorted, n)
}

func trimHours(sorted []HourCount, n int) []HourCount {
	var out []HourCount
	for _, hc := range sorted {
		if len(out) == n || hc.Count == 0 {
			break
		}
		out = append(out, hc)
	}
	return out
}

func topWeekdays(counts []WeekdayCount, n int) []WeekdayCount {
	sorted := append([]WeekdayCount(nil), counts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Weekday < sorted[j].Weekday
	})
	var out []WeekdayCount
	for _, wc := range sorted {
		if len(out) == n || wc.Count == 0 {
			break
		}
		out = append(out, wc)
	}
	return out
}

func topSenders(counts map[string]int, n int) []SenderCount {
	out := make([]SenderCount, 0, len(counts))
	for sender, count := range counts {
		out = append(out, SenderCount{Sender: sender, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sender < out[j].Sender
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func topEmoji(counts map[string]int, n int) []EmojiCount {
	out := make([]EmojiCount, 0, len(counts))
	for emoji, count := range counts {
		out = append(out, EmojiCount{Emoji: emoji, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Emoji < out[j].Emoji
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// responseGaps measures the time between consecutive messages sent by
// different senders. System messages do not participate.
func responseGaps(messages []model.Message) GapStats {
	var gaps []time.Duration
	var prev *model.Message

	for i := range messages {
		msg := &messages[i]
		if msg.Sender == "" {
			continue
		}
		if prev != nil && prev.Sender != msg.Sender {
			gap := msg.Timestamp.Sub(prev.Timestamp)
			if gap >= 0 {
				gaps = append(gaps, gap)
			}
		}
		prev = msg
	}

	if len(gaps) == 0 {
		return GapStats{}
	}

	var sum time.Duration
	for _, g := range gaps {
		sum += g
	}
	avg := sum / time.Duration(len(gaps))

	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
	median := gaps[len(gaps)/2]

	return GapStats{
		Samples:        len(gaps),
		AverageSeconds: avg.Seconds(),
		MedianSeconds:  median.Seconds(),
		Average:        avg.Truncate(time.Second).String(),
		Median:         median.Truncate(time.Second).String(),
	}
}

// LatestMessages formats the last n messages for display, with a
// humanized relative timestamp. Media bodies are described, not dumped.
func LatestMessages(chat *model.Chat, n int) []LatestMessage {
	var out []LatestMessage
	for _, msg := range chat.Latest(n) {
		body := msg.Body
		if msg.Kind == model.MediaMessage {
			body = "<media omitted>"
		}
		out = append(out, LatestMessage{
			Timestamp: msg.Timestamp.Format(time.RFC3339),
			Sender:    msg.Sender,
			Body:      body,
			Kind:      msg.Kind.String(),
			TimeAgo:   humanize.Time(msg.Timestamp),
		})
	}
	return out
}
