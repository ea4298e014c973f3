package roster

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// generatorDay mirrors the proposal wire contract: an ordered array of
// daily entries from an untrusted source.
type generatorDay struct {
	Date        string          `json:"date"`
	Assignments []generatorSlot `json:"assignments"`
	Rationale   string          `json:"rationale"`
}

type generatorSlot struct {
	GuideID int64  `json:"guideId"`
	Role    string `json:"role"`
}

// DecodeProposal parses generator output into a Proposal, validating field
// by field. Role strings go through the closed enum; unknown values are
// dropped with a warning, never coerced. Malformed JSON is repaired in
// stages; when every stage fails the raw parse error is returned, never a
// silent empty result.
func DecodeProposal(raw []byte, year int, month time.Month) (*Proposal, error) {
	days, err := decodeDays(raw)
	if err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}

	proposal := &Proposal{}
	seen := make(map[string]bool)
	for _, day := range days {
		date, perr := time.Parse("2006-01-02", day.Date)
		if perr != nil {
			proposal.Warnings = append(proposal.Warnings, Warning{
				Kind:    ViolationMalformed,
				Message: fmt.Sprintf("unparseable date %q", day.Date),
			})
			continue
		}
		date = date.UTC()
		if date.Year() != year || date.Month() != month {
			proposal.Warnings = append(proposal.Warnings, Warning{
				Date:    date,
				Kind:    ViolationMalformed,
				Message: "date outside target month",
			})
			continue
		}
		key := DayKey(date)
		if seen[key] {
			continue
		}
		seen[key] = true

		asgn := Assignment{Date: date, Rationale: day.Rationale}
		for _, slot := range day.Assignments {
			if slot.GuideID <= 0 {
				proposal.Warnings = append(proposal.Warnings, Warning{
					Date:    date,
					Kind:    ViolationMalformed,
					Message: "missing or invalid guide id",
				})
				continue
			}
			role, rerr := ParseRole(slot.Role)
			if rerr != nil {
				proposal.Warnings = append(proposal.Warnings, Warning{
					Date:    date,
					Kind:    ViolationUnknownRole,
					GuideID: slot.GuideID,
					Message: rerr.Error(),
				})
				continue
			}
			asgn.Slots = append(asgn.Slots, Slot{GuideID: slot.GuideID, Role: role})
		}
		proposal.Days = append(proposal.Days, asgn)
	}
	return proposal, nil
}

// decodeDays tries the raw payload, then each repair stage in order:
// trim to the last balanced closing bracket, normalize stray escaped
// quotes, reassemble complete top-level objects.
func decodeDays(raw []byte) ([]generatorDay, error) {
	text := strings.TrimSpace(string(raw))

	var days []generatorDay
	firstErr := json.Unmarshal([]byte(text), &days)
	if firstErr == nil {
		return days, nil
	}

	for _, repaired := range []string{
		trimToBalanced(text),
		normalizeEscapedQuotes(trimToBalanced(text)),
		reassembleObjects(text),
	} {
		if repaired == "" {
			continue
		}
		days = nil
		if err := json.Unmarshal([]byte(repaired), &days); err == nil {
			return days, nil
		}
	}
	return nil, firstErr
}

// trimToBalanced truncates the payload at the last position where every
// opened bracket has been closed, discarding a trailing fragment.
func trimToBalanced(text string) string {
	depth := 0
	inString := false
	escaped := false
	lastBalanced := -1

	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
			if depth == 0 {
				lastBalanced = i
			}
		}
	}

	if lastBalanced < 0 {
		return ""
	}
	return text[:lastBalanced+1]
}

// normalizeEscapedQuotes undoes over-escaped quotes a generator sometimes
// emits around keys and values.
func normalizeEscapedQuotes(text string) string {
	if text == "" {
		return ""
	}
	return strings.ReplaceAll(text, `\"`, `"`)
}

// reassembleObjects extracts every complete top-level object from a broken
// array payload and rebuilds the array from them.
func reassembleObjects(text string) string {
	var objects []string
	depth := 0
	inString := false
	escaped := false
	start := -1

	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			if depth == 0 {
				start = i
			}
			depth++
		case c == '}':
			depth--
			if depth == 0 && start >= 0 {
				objects = append(objects, text[start:i+1])
				start = -1
			}
		}
	}

	if len(objects) == 0 {
		return ""
	}
	return "[" + strings.Join(objects, ",") + "]"
}
