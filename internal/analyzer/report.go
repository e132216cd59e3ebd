package analyzer

// Report holds every statistic the dashboard and the terminal renderer
// display for one parsed chat. All fields are chart-ready.
type Report struct {
	Overview      Overview        `json:"overview"`
	Senders       []SenderStats   `json:"senders"`
	DailyVolume   []DailyCount    `json:"daily_volume"`
	HourCounts    []HourCount     `json:"hour_counts"`    // 24 buckets
	WeekdayCounts []WeekdayCount  `json:"weekday_counts"` // Monday..Sunday
	PeakHours     []HourCount     `json:"peak_hours"`     // top 3
	PeakWeekdays  []WeekdayCount  `json:"peak_weekdays"`  // top 3
	EarlyBirds    []SenderCount   `json:"early_birds"`    // 05:00–11:59, top 3
	NightOwls     []SenderCount   `json:"night_owls"`     // 22:00–04:59, top 3
	Lengths       []LengthBucket  `json:"length_histogram"`
	ResponseGaps  GapStats        `json:"response_gaps"`
	Emoji         EmojiStats      `json:"emoji"`
	Languages     LanguageStats   `json:"languages"`
	Latest        []LatestMessage `json:"latest"`
}

type Overview struct {
	TotalMessages int    `json:"total_messages"`
	Participants  int    `json:"participants"`
	SpanDays      int    `json:"span_days"`
	First         string `json:"first,omitempty"` // RFC 3339
	Last          string `json:"last,omitempty"`
	TextCount     int    `json:"text_count"`
	MediaCount    int    `json:"media_count"`
	SystemCount   int    `json:"system_count"`
	Joins         int    `json:"joins"`
	Leaves        int    `json:"leaves"`
}

type SenderStats struct {
	Name       string  `json:"name"`
	Messages   int     `json:"messages"`
	Words      int     `json:"words"`
	AvgLength  float64 `json:"avg_length"` // runes per message
	MediaCount int     `json:"media_count"`
	Share      float64 `json:"share"` // fraction of sender-bearing messages
}

type DailyCount struct {
	Date  string `json:"date"` // 2006-01-02
	Count int    `json:"count"`
}

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type WeekdayCount struct {
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

type SenderCount struct {
	Sender string `json:"sender"`
	Count  int    `json:"count"`
}

type LengthBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// GapStats summarizes time gaps between consecutive messages from
// different senders.
type GapStats struct {
	Samples        int     `json:"samples"`
	AverageSeconds float64 `json:"average_seconds"`
	MedianSeconds  float64 `json:"median_seconds"`
	Average        string  `json:"average,omitempty"` // humanized
	Median         string  `json:"median,omitempty"`
}

type EmojiStats struct {
	Total  int          `json:"total"`
	Unique int          `json:"unique"`
	Top    []EmojiCount `json:"top"` // top 10
}

type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

type LanguageStats struct {
	Counts    map[string]int            `json:"counts"`
	PerSender map[string]map[string]int `json:"per_sender"`
}

type LatestMessage struct {
	Timestamp string `json:"timestamp"`
	Sender    string `json:"sender,omitempty"`
	Body      string `json:"body"`
	Kind      string `json:"kind"`
	TimeAgo   string `json:"time_ago"`
}
