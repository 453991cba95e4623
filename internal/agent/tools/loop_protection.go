package tools

import (
	"fmt"
	"time"

	"agentchat/internal/logger"
)

// LoopProtection holds settings for preventing runaway tool loops within a
// single turn.
type LoopProtection struct {
	MaxConsecutiveToolUses int // Maximum number of tool uses without user input
	MaxToolUsesPerMinute   int
	MaxSameToolCalls       int // Maximum calls to the same tool in sequence

	// Internal tracking
	consecutiveToolUses int
	lastToolName        string
	sameToolCallCount   int
	windowStart         time.Time
	windowCount         int

	now func() time.Time
}

// NewLoopProtection creates LoopProtection with default settings
func NewLoopProtection() *LoopProtection {
	return &LoopProtection{
		MaxConsecutiveToolUses: 15,
		MaxToolUsesPerMinute:   30,
		MaxSameToolCalls:       5,
		now:                    time.Now,
	}
}

// Reset clears the per-turn counters. Call it when fresh user input arrives.
func (lp *LoopProtection) Reset() {
	lp.consecutiveToolUses = 0
	lp.lastToolName = ""
	lp.sameToolCallCount = 0
}

// Record accounts for one call to the named tool and returns an
// *ErrLoopProtection if any limit is exceeded.
func (lp *LoopProtection) Record(name string) error {
	log := logger.Get()
	t := lp.clock()

	lp.consecutiveToolUses++
	if lp.consecutiveToolUses > lp.MaxConsecutiveToolUses {
		log.Error().
			Int("consecutiveUses", lp.consecutiveToolUses).
			Int("limit", lp.MaxConsecutiveToolUses).
			Msg("Consecutive tool use limit exceeded")
		return &ErrLoopProtection{
			Limit:   "consecutive tool uses",
			Current: lp.consecutiveToolUses,
			Max:     lp.MaxConsecutiveToolUses,
		}
	}

	// Reset rate limiting after 1 minute
	if lp.windowStart.IsZero() || t.Sub(lp.windowStart) > time.Minute {
		lp.windowStart = t
		lp.windowCount = 0
	}
	lp.windowCount++
	if lp.windowCount > lp.MaxToolUsesPerMinute {
		log.Error().
			Int("useCount", lp.windowCount).
			Int("limit", lp.MaxToolUsesPerMinute).
			Msg("Tool use rate limit exceeded")
		return &ErrLoopProtection{
			Limit:     "tool use rate",
			Current:   lp.windowCount,
			Max:       lp.MaxToolUsesPerMinute,
			TimeFrame: "1m",
		}
	}

	if lp.lastToolName == name {
		lp.sameToolCallCount++
	} else {
		lp.lastToolName = name
		lp.sameToolCallCount = 1
	}
	if lp.sameToolCallCount > lp.MaxSameToolCalls {
		log.Error().
			Str("tool", name).
			Int("callCount", lp.sameToolCallCount).
			Int("limit", lp.MaxSameToolCalls).
			Msg("Same tool call limit exceeded")
		return &ErrLoopProtection{
			Limit:    "same tool calls",
			Current:  lp.sameToolCallCount,
			Max:      lp.MaxSameToolCalls,
			ToolName: name,
		}
	}

	return nil
}

func (lp *LoopProtection) clock() time.Time {
	if lp.now == nil {
		return time.Now()
	}
	return lp.now()
}

// ErrLoopProtection indicates that a loop protection limit was reached
type ErrLoopProtection struct {
	Limit     string
	Current   int
	Max       int
	ToolName  string
	TimeFrame string
}

func (e *ErrLoopProtection) Error() string {
	if e.ToolName != "" {
		return fmt.Sprintf("loop protection: %s limit reached for %s (%d/%d)",
			e.Limit, e.ToolName, e.Current, e.Max)
	}
	if e.TimeFrame != "" {
		return fmt.Sprintf("loop protection: %s limit reached (%d/%d in %s)",
			e.Limit, e.Current, e.Max, e.TimeFrame)
	}
	return fmt.Sprintf("loop protection: %s limit reached (%d/%d)",
		e.Limit, e.Current, e.Max)
}
