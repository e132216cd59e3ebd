package parser

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/waview/waview/internal/model"
)

// ErrNoMessages is returned when the input contains text but no line
// matches any known WhatsApp export layout.
var ErrNoMessages = errors.New("no recognized chat messages in input")

// Header regex patterns for WhatsApp export lines.
// Supports:
//   - Android US:   M/D/YY, H:MM AM - Sender: Text
//   - Android 24h:  M/D/YY, HH:MM - Sender: Text
//   - Android EU:   DD.MM.YY, HH:MM - Sender: Text
//   - iOS:          [D/M/YY, HH:MM:SS] Sender: Text
var (
	// slash-date Android format: M/D/YY(YY), H:MM(:SS)( AM/PM) - Rest
	slashRe = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}), (\d{1,2}:\d{2}(?::\d{2})?)(?: ?([AaPp]\.?[Mm]\.?))? - (.*)$`)
	// dot-date Android format: DD.MM.YY(YY), HH:MM(:SS) - Rest
	dotRe = regexp.MustCompile(`^(\d{1,2}\.\d{1,2}\.\d{2,4}), (\d{1,2}:\d{2}(?::\d{2})?) - (.*)$`)
	// iOS format: [date, time( AM/PM)] Rest, slash or dot dates
	bracketRe = regexp.MustCompile(`^\[(\d{1,2}[/.]\d{1,2}[/.]\d{2,4}), (\d{1,2}:\d{2}(?::\d{2})?)(?: ?([AaPp][Mm]))?\] (.*)$`)

	// Media placeholders: Android "<Media omitted>" and the iOS "image omitted" family.
	mediaOmittedRe = regexp.MustCompile(`(?i)^<media omitted>$|^(?:image|video|audio|sticker|gif|document|contact card) omitted$|^<attached: .+>$`)
)

// systemPhrases mark chat events even when the line would otherwise split
// into sender and body. Matched case-insensitively against the full rest.
var systemPhrases = []string{
	"end-to-end encrypted",
	"end-to-end encryption",
	"created group",
	"created this group",
	"changed the subject",
	"changed this group's icon",
	"changed their phone number",
	"changed to a new number",
	"security code",
	"joined using this group's invite link",
	"you were added",
}

// Candidate timestamp layouts per date style, tried in order. The US
// month-first reading wins over day-first when both fit, matching the
// export's own locale ordering.
var (
	slashLayouts = []string{
		"1/2/06 3:04 PM",
		"1/2/06 3:04:05 PM",
		"1/2/2006 3:04 PM",
		"1/2/2006 3:04:05 PM",
		"1/2/06 15:04",
		"1/2/06 15:04:05",
		"1/2/2006 15:04",
		"1/2/2006 15:04:05",
		"2/1/06 15:04",
		"2/1/06 15:04:05",
		"2/1/2006 15:04",
		"2/1/2006 15:04:05",
	}
	dotLayouts = []string{
		"2.1.06 15:04",
		"2.1.06 15:04:05",
		"2.1.2006 15:04",
		"2.1.2006 15:04:05",
	}
)

// Parse reads a full WhatsApp chat export and returns the ordered message
// sequence. Lines that match no layout are appended to the preceding
// message's body (multi-line messages); lines before the first header are
// skipped. Empty input yields an empty chat and no error; non-empty input
// with no parseable header anywhere fails with ErrNoMessages.
func Parse(r io.Reader, source string) (*model.Chat, error) {
	chat := &model.Chat{Source: source}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	lineNo := 0
	nonBlank := 0

	for scanner.Scan() {
		lineNo++
		line := stripInvisible(strings.TrimSuffix(scanner.Text(), "\r"))
		if strings.TrimSpace(line) != "" {
			nonBlank++
		}

		if msg, ok := parseHeaderLine(line); ok {
			msg.Line = lineNo
			chat.Messages = append(chat.Messages, msg)
		} else if n := len(chat.Messages); n > 0 {
			// Continuation: attach to the previous message's body.
			chat.Messages[n-1].Body += "\n" + line
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(chat.Messages) == 0 && nonBlank > 0 {
		return nil, ErrNoMessages
	}
	return chat, nil
}

// ParseString parses an in-memory export, typically an upload body.
func ParseString(s, source string) (*model.Chat, error) {
	return Parse(strings.NewReader(s), source)
}

// parseHeaderLine attempts to start a new message from a line. Returns
// false for continuation lines.
func parseHeaderLine(line string) (model.Message, bool) {
	if m := slashRe.FindStringSubmatch(line); m != nil {
		ts, err := parseTimestamp(slashLayouts, m[1], m[2], m[3])
		if err != nil {
			return model.Message{}, false
		}
		return buildMessage(ts, m[4]), true
	}

	if m := dotRe.FindStringSubmatch(line); m != nil {
		ts, err := parseTimestamp(dotLayouts, m[1], m[2], "")
		if err != nil {
			return model.Message{}, false
		}
		return buildMessage(ts, m[3]), true
	}

	if m := bracketRe.FindStringSubmatch(line); m != nil {
		layouts := dotLayouts
		if strings.Contains(m[1], "/") {
			layouts = slashLayouts
		}
		ts, err := parseTimestamp(layouts, m[1], m[2], m[3])
		if err != nil {
			return model.Message{}, false
		}
		return buildMessage(ts, m[4]), true
	}

	return model.Message{}, false
}

// parseTimestamp tries the candidate layouts in order until one fits.
func parseTimestamp(layouts []string, datePart, timePart, meridiem string) (time.Time, error) {
	value := datePart + " " + timePart
	if meridiem != "" {
		value += " " + normalizeMeridiem(meridiem)
	}

	var lastErr error
	for _, layout := range layouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// normalizeMeridiem maps "am", "p.m." etc. to the "AM"/"PM" Go layouts expect.
func normalizeMeridiem(s string) string {
	s = strings.ToUpper(strings.ReplaceAll(s, ".", ""))
	if strings.HasPrefix(s, "P") {
		return "PM"
	}
	return "AM"
}

// buildMessage classifies the rest of a header line (everything after the
// timestamp) into a text, media or system message.
func buildMessage(ts time.Time, rest string) model.Message {
	if isSystemEvent(rest) {
		return model.Message{Timestamp: ts, Body: rest, Kind: model.SystemMessage}
	}

	sender, body, ok := strings.Cut(rest, ": ")
	if !ok || sender == "" {
		// No sender prefix: a chat event the phrase list doesn't know.
		return model.Message{Timestamp: ts, Body: rest, Kind: model.SystemMessage}
	}

	if mediaOmittedRe.MatchString(strings.TrimSpace(body)) {
		return model.Message{Timestamp: ts, Sender: sender, Kind: model.MediaMessage}
	}

	return model.Message{Timestamp: ts, Sender: sender, Body: body, Kind: model.TextMessage}
}

// isSystemEvent reports whether the rest of a header line is a known chat
// event. Checked before the sender split so events whose text contains a
// colon are not misread as sent messages.
func isSystemEvent(rest string) bool {
	lower := strings.ToLower(rest)
	for _, phrase := range systemPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// stripInvisible removes Unicode control characters (LTR mark, zero-width
// spaces, etc.) WhatsApp sprinkles into exports.
func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\u200E' || r == '\u200F': // LTR / RTL mark
			return -1
		case r == '\u200B' || r == '\u200C' || r == '\u200D': // zero-width spaces
			return -1
		case r == '\uFEFF': // BOM
			return -1
		default:
			return r
		}
	}, s)
}
