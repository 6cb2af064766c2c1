package scoring

import "fmt"

const promptTemplate = `You are an expert HR analyst. Your task is to evaluate a candidate's resume against a specific job description.
Provide a score from 0 to 100, where 100 represents a perfect match.
Also, provide a detailed explanation for your score, highlighting the candidate's strengths and weaknesses based *only* on the information in the resume and the requirements in the job description.

**Job Description:**
---
%s
---

**Candidate's Resume:**
---
%s
---

**Output Format:**
Please return a single JSON object with two keys: "score" (a float) and "explanation" (a string).
Example: {"score": 85.5, "explanation": "The candidate is a strong fit because..."}
`

// BuildPrompt embeds both inputs verbatim.
func BuildPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(promptTemplate, jobDescription, resumeText)
}
