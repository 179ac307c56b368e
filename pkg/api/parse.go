package api

// Finish reason labels the pipeline knows about. Any other provider label
// passes through untouched.
const (
	FinishReasonStop      = "stop"
	FinishReasonToolCalls = "tool_calls"
	FinishReasonEndTurn   = "end_turn"
)

// Parse post-processes a freshly decoded completion in place: for each
// choice, in index order, it extracts embedded tool-call markup from the
// message and then normalizes the choice's finish reason. After a
// successful Parse the completion should be treated as immutable.
//
// Parse is fail-fast: the first markup decode failure aborts the remaining
// choices and is returned to the caller. Choices processed before the
// failing one keep their mutations; callers that need the original value
// after an error must re-decode it.
func (c *Completion) Parse() error {
	for i := range c.Choices {
		choice := &c.Choices[i]
		if err := choice.Message.ExtractToolCalls(); err != nil {
			return err
		}
		choice.normalizeFinishReason()
	}
	return nil
}

// normalizeFinishReason reconciles the provider's stop label with the state
// of the message after extraction. Only assistant choices are affected.
//
// Absent content wins: it forces "tool_calls" regardless of what the
// provider reported, whether extraction just cleared the content or it was
// never present. Only when content remains is the provider's "end_turn"
// rewritten to "stop"; every other label is preserved verbatim.
func (ch *Choice) normalizeFinishReason() {
	if ch.Message.Role != RoleAssistant {
		return
	}
	if ch.Message.Content == nil {
		ch.FinishReason = FinishReasonToolCalls
		return
	}
	if ch.FinishReason == FinishReasonEndTurn {
		ch.FinishReason = FinishReasonStop
	}
}
