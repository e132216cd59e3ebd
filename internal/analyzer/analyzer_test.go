package analyzer

import (
	"testing"
	"time"

	"github.com/waview/waview/internal/model"
)

func msg(ts string, sender, body string, kind model.Kind) model.Message {
	t, err := time.Parse("2006-01-02 15:04", ts)
	if err != nil {
		panic(err)
	}
	return model.Message{Timestamp: t, Sender: sender, Body: body, Kind: kind}
}

func sampleChat() *model.Chat {
	return &model.Chat{
		Source: "chat.txt",
		Messages: []model.Message{
			msg("2024-01-01 09:00", "", "Messages and calls are end-to-end encrypted.", model.SystemMessage),
			msg("2024-01-01 09:05", "Alice", "Good morning everyone, how are you today?", model.TextMessage),
			msg("2024-01-01 09:07", "Bob", "Doing great thanks 🎉🎉", model.TextMessage),
			msg("2024-01-01 23:30", "Alice", "", model.MediaMessage),
			msg("2024-01-02 23:45", "Bob", "Nice picture 🎉", model.TextMessage),
			msg("2024-01-03 10:00", "", "Alice added Carol", model.SystemMessage),
		},
	}
}

func TestAnalyzeOverview(t *testing.T) {
	r := Analyze(sampleChat())

	if r.Overview.TotalMessages != 6 {
		t.Errorf("expected 6 total, got %d", r.Overview.TotalMessages)
	}
	if r.Overview.Participants != 2 {
		t.Errorf("expected 2 participants, got %d", r.Overview.Participants)
	}
	if r.Overview.TextCount != 3 || r.Overview.MediaCount != 1 || r.Overview.SystemCount != 2 {
		t.Errorf("unexpected kind counts: %+v", r.Overview)
	}
	if r.Overview.SpanDays != 2 {
		t.Errorf("expected span of 2 days, got %d", r.Overview.SpanDays)
	}
	if r.Overview.Joins != 1 {
		t.Errorf("expected 1 join, got %d", r.Overview.Joins)
	}
}

func TestAnalyzeSenders(t *testing.T) {
	r := Analyze(sampleChat())

	if len(r.Senders) != 2 {
		t.Fatalf("expected 2 senders, got %d", len(r.Senders))
	}
	// Alice and Bob both sent 2; ties break alphabetically.
	if r.Senders[0].Name != "Alice" {
		t.Errorf("expected Alice first, got %q", r.Senders[0].Name)
	}
	if r.Senders[0].MediaCount != 1 {
		t.Errorf("expected 1 media for Alice, got %d", r.Senders[0].MediaCount)
	}
	if r.Senders[1].Words == 0 {
		t.Errorf("expected word count for Bob")
	}

	var shares float64
	for _, s := range r.Senders {
		shares += s.Share
	}
	if shares < 0.99 || shares > 1.01 {
		t.Errorf("sender shares should sum to 1, got %f", shares)
	}
}

func TestAnalyzeSeries(t *testing.T) {
	r := Analyze(sampleChat())

	// System messages carry no conversational volume; Jan 3 has only one.
	if len(r.DailyVolume) != 2 {
		t.Fatalf("expected 2 days, got %d", len(r.DailyVolume))
	}
	if r.DailyVolume[0].Date != "2024-01-01" || r.DailyVolume[0].Count != 3 {
		t.Errorf("unexpected first day: %+v", r.DailyVolume[0])
	}

	if len(r.HourCounts) != 24 {
		t.Fatalf("expected 24 hour buckets, got %d", len(r.HourCounts))
	}
	if r.HourCounts[9].Count != 2 {
		t.Errorf("expected 2 messages at 09h, got %d", r.HourCounts[9].Count)
	}

	if len(r.PeakHours) == 0 || r.PeakHours[0].Hour != 9 {
		t.Errorf("expected hour 9 as peak, got %+v", r.PeakHours)
	}
}

func TestAnalyzeNightOwlsAndEarlyBirds(t *testing.T) {
	r := Analyze(sampleChat())

	found := map[string]int{}
	for _, sc := range r.NightOwls {
		found[sc.Sender] = sc.Count
	}
	// 23:30 and 23:45 messages fall in the night band.
	if found["Alice"] != 1 || found["Bob"] != 1 {
		t.Errorf("unexpected night owls: %+v", r.NightOwls)
	}

	birds := map[string]int{}
	for _, sc := range r.EarlyBirds {
		birds[sc.Sender] = sc.Count
	}
	if birds["Alice"] != 1 || birds["Bob"] != 1 {
		t.Errorf("unexpected early birds: %+v", r.EarlyBirds)
	}
}

func TestAnalyzeEmoji(t *testing.T) {
	r := Analyze(sampleChat())

	if r.Emoji.Total != 3 {
		t.Errorf("expected 3 emoji total, got %d", r.Emoji.Total)
	}
	if r.Emoji.Unique != 1 {
		t.Errorf("expected 1 unique emoji, got %d", r.Emoji.Unique)
	}
	if len(r.Emoji.Top) != 1 || r.Emoji.Top[0].Emoji != "🎉" {
		t.Errorf("unexpected top emoji: %+v", r.Emoji.Top)
	}
}

func TestAnalyzeResponseGaps(t *testing.T) {
	r := Analyze(sampleChat())

	if r.ResponseGaps.Samples == 0 {
		t.Fatal("expected response gap samples")
	}
	if r.ResponseGaps.AverageSeconds <= 0 {
		t.Errorf("expected positive average gap, got %f", r.ResponseGaps.AverageSeconds)
	}
}

func TestAnalyzeLatest(t *testing.T) {
	r := Analyze(sampleChat())

	if len(r.Latest) != 5 {
		t.Fatalf("expected 5 latest messages, got %d", len(r.Latest))
	}
	last := r.Latest[len(r.Latest)-1]
	if last.Kind != "system" {
		t.Errorf("expected last message to be the system event, got %+v", last)
	}
	for _, lm := range r.Latest {
		if lm.Kind == "media" && lm.Body != "<media omitted>" {
			t.Errorf("media message should be described, got %q", lm.Body)
		}
		if lm.TimeAgo == "" {
			t.Errorf("expected humanized time for %+v", lm)
		}
	}
}

func TestAnalyzeLanguages(t *testing.T) {
	chat := &model.Chat{Messages: []model.Message{
		msg("2024-01-01 10:00", "Alice", "Are we still meeting for lunch tomorrow?", model.TextMessage),
		msg("2024-01-01 10:01", "Bob", "صباح الخير يا جماعة", model.TextMessage),
		msg("2024-01-01 10:02", "Bob", "ok", model.TextMessage),
	}}
	r := Analyze(chat)

	if r.Languages.Counts["english"] != 1 {
		t.Errorf("expected 1 english, got %+v", r.Languages.Counts)
	}
	if r.Languages.Counts["arabic"] != 1 {
		t.Errorf("expected 1 arabic, got %+v", r.Languages.Counts)
	}
	if r.Languages.Counts["unknown"] != 1 {
		t.Errorf("expected 1 unknown, got %+v", r.Languages.Counts)
	}
	if r.Languages.PerSender["Bob"]["arabic"] != 1 {
		t.Errorf("expected per-sender arabic for Bob, got %+v", r.Languages.PerSender)
	}
}

func TestAnalyzeEmptyChat(t *testing.T) {
	r := Analyze(&model.Chat{})

	if r.Overview.TotalMessages != 0 {
		t.Errorf("expected zero totals, got %+v", r.Overview)
	}
	if len(r.HourCounts) != 24 || len(r.WeekdayCounts) != 7 {
		t.Errorf("expected fixed series buckets even when empty")
	}
	if len(r.Latest) != 0 {
		t.Errorf("expected no latest messages, got %d", len(r.Latest))
	}
}
