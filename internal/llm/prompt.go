package llm

import (
	"encoding/json"
	"fmt"

	"github.com/ppiankov/credence/internal/model"
)

// BuildVerifyPrompt asks for a five-level verdict and a short summary as JSON
func BuildVerifyPrompt(text string, author *model.Author) string {
	authorContext := "Author Context: Unknown"
	if author != nil {
		verified := "No"
		if author.Verified {
			verified = "Yes"
		}
		authorContext = fmt.Sprintf(`Author Context:
- Handle: %s
- Verified: %s
- Name: %s`, author.Handle, verified, author.Name)
	}

	return fmt.Sprintf(`Analyze the following post for accuracy and credibility.

Post: %q

%s

Task:
1. Determine the verdict. Choose ONE of the following categories:
   - "True" (Factually accurate)
   - "Likely True" (Probable, but lacks definitive proof)
   - "Unverified" (Insufficient evidence, or an unknown account making a wild claim)
   - "Likely False" (Dubious, lacks context, or suspicious)
   - "False" (Demonstrably incorrect)

2. If the author is NOT verified AND the claim is sensational, controversial, or lacks sources,
   default to "Unverified" or "Likely False".

3. Write a 1-2 sentence summary explaining the verdict.

Output Format (JSON):
{
  "verdict": "Category Name",
  "summary": "..."
}`, text, authorContext)
}

// BuildChatPrompt answers a follow-up question from a prior analysis
func BuildChatPrompt(question string, c model.ChatContext) string {
	analysis := "null"
	if c.Analysis != nil {
		if b, err := json.Marshal(c.Analysis); err == nil {
			analysis = string(b)
		}
	}

	return fmt.Sprintf(`You are a helpful fact-checking assistant.

Context:
Post: %q
Initial Analysis: %s
Deep Verification Findings: %q

User Question: %q

Answer the user's question based on the context provided. Be concise, objective, and helpful.`,
		c.ClaimText, analysis, c.AgentResult, question)
}
