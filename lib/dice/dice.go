// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

// Package dice parses and executes chat roll commands.
//
// The grammar is deliberately small: an optional dice count, a
// literal 'd', a die size, and an optional signed modifier
// ("d20", "2d6+3", "3d6-2"). Validation happens entirely before
// execution so an invalid pattern never consumes randomness or
// reaches the network.
package dice

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

// Prefix marks a chat message as a roll result. Consumers use it for
// cosmetic styling only; the message body is ordinary content.
const Prefix = "🎲 "

// MaxCount is the largest accepted dice count.
const MaxCount = 100

// pattern is the complete roll grammar, case-insensitive.
var pattern = regexp.MustCompile(`^(\d+)?[dD](\d+)([+-]\d+)?$`)

// Roll is a validated roll command.
type Roll struct {
	// Pattern is the trimmed input the roll was parsed from,
	// preserved for display.
	Pattern string

	// Count is the number of dice, 1 to MaxCount.
	Count int

	// Size is the number of faces per die, at least 1.
	Size int

	// Modifier is added to the sum of the draws. May be negative.
	Modifier int
}

// Parse validates a roll pattern. Errors carry the specific reason
// and are meant to be shown to the user as-is.
func Parse(input string) (Roll, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Roll{}, fmt.Errorf("dice: invalid pattern: use e.g. d20+5")
	}

	match := pattern.FindStringSubmatch(trimmed)
	if match == nil {
		return Roll{}, fmt.Errorf("dice: invalid pattern %q: use e.g. d20+5", trimmed)
	}

	count := 1
	if match[1] != "" {
		parsed, err := strconv.Atoi(match[1])
		if err != nil {
			return Roll{}, fmt.Errorf("dice: invalid pattern %q: use e.g. d20+5", trimmed)
		}
		count = parsed
	}
	if count < 1 || count > MaxCount {
		return Roll{}, fmt.Errorf("dice: number of dice must be between 1 and %d, got %d", MaxCount, count)
	}

	size, err := strconv.Atoi(match[2])
	if err != nil {
		return Roll{}, fmt.Errorf("dice: invalid pattern %q: use e.g. d20+5", trimmed)
	}
	if size < 1 {
		return Roll{}, fmt.Errorf("dice: die size must be at least 1, got %d", size)
	}

	modifier := 0
	if match[3] != "" {
		modifier, err = strconv.Atoi(match[3])
		if err != nil {
			return Roll{}, fmt.Errorf("dice: invalid pattern %q: use e.g. d20+5", trimmed)
		}
	}

	return Roll{Pattern: trimmed, Count: count, Size: size, Modifier: modifier}, nil
}

// Result is one executed roll.
type Result struct {
	Pattern  string
	Rolls    []int
	Modifier int
	Total    int
}

// Execute draws Count values with the given draw function, which
// must return a value in [1, size]. Tests pass a deterministic draw;
// production code uses Roll.Roll.
func (r Roll) Execute(draw func(size int) int) Result {
	rolls := make([]int, r.Count)
	sum := 0
	for i := range rolls {
		rolls[i] = draw(r.Size)
		sum += rolls[i]
	}
	return Result{
		Pattern:  r.Pattern,
		Rolls:    rolls,
		Modifier: r.Modifier,
		Total:    sum + r.Modifier,
	}
}

// Roll executes with uniform randomness. Deliberately not
// reproducible: live rolls must not be predictable or replayable.
func (r Roll) Roll() Result {
	return r.Execute(func(size int) int {
		return rand.IntN(size) + 1
	})
}

// Format renders a result as chat message content carrying the roll
// prefix. A single unmodified die reads "🎲 Kira rolls d20: 17";
// anything else shows the individual draws and modifier, e.g.
// "🎲 Kira rolls 2d6+3: [4, 5] +3 = 12".
func Format(nickname string, result Result) string {
	if len(result.Rolls) == 1 && result.Modifier == 0 {
		return fmt.Sprintf("%s%s rolls %s: %d", Prefix, nickname, result.Pattern, result.Total)
	}

	draws := make([]string, len(result.Rolls))
	for i, roll := range result.Rolls {
		draws[i] = strconv.Itoa(roll)
	}
	modifier := ""
	if result.Modifier != 0 {
		modifier = fmt.Sprintf(" %+d", result.Modifier)
	}
	return fmt.Sprintf("%s%s rolls %s: [%s]%s = %d",
		Prefix, nickname, result.Pattern, strings.Join(draws, ", "), modifier, result.Total)
}
