package stages

import "fmt"

func summarizePrompt(content string) string {
	return fmt.Sprintf(`Summarize the following job posting for a résumé writer.
Capture the role, seniority, must-have skills, and the company's priorities in at most 150 words.

Job posting:
%s`, content)
}

func experiencePrompt(summary, entriesJSON string) string {
	return fmt.Sprintf(`You are tailoring the work-experience section of a CV to a job.

Job summary:
%s

Work experience entries as JSON:
%s

Rewrite each entry's "description" and "achievements" to emphasize relevance to the job.
Keep every entry, keep each "id" unchanged, and do not invent new entries.
Reply with a JSON array of objects {"id", "description", "achievements"} only.`, summary, entriesJSON)
}

func skillsPrompt(summary, skillsJSON string) string {
	return fmt.Sprintf(`You are ranking CV skills against a job.

Job summary:
%s

Skills as JSON:
%s

Score each skill's relevance to the job from 0 to 100.
Reply with a JSON array of objects {"name", "relevance"} only.`, summary, skillsJSON)
}

func coverLetterPrompt(summary, companyName, cvJSON string) string {
	return fmt.Sprintf(`Write a concise cover letter (under 300 words) for an application to %s.

Job summary:
%s

Candidate CV as JSON:
%s

Write in first person, plain markdown, no salutation placeholders you can fill from the CV.`, companyName, summary, cvJSON)
}

func translatePrompt(language, cvJSON string) string {
	return fmt.Sprintf(`Translate every human-readable text value in this CV JSON document to %s.
Keep all keys, ids, and the JSON structure exactly as they are.

%s

Reply with the translated JSON document only.`, language, cvJSON)
}
