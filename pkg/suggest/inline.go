package suggest

// inlineCompletion is the ghost text for text given the results of an Inline
// pass: the first result's suffix, or "" when there is nothing to complete.
func inlineCompletion(text string, results []Result) string {
	if text == "" || len(results) == 0 {
		return ""
	}
	return results[0].Completion
}
