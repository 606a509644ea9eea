package ai

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	ImproveResume string
}

// UserPrompts contains user-level prompts with placeholders for dynamic content
type UserPrompts struct {
	ImproveResume string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	ImproveResume: `Expert resume writer. Return ONLY valid JSON. No markdown.`,
}

// DefaultUserPrompts provides the default user prompt templates.
// The improve template takes six arguments in order: resume text, job
// description, candidate name, email, phone, linkedin.
var DefaultUserPrompts = UserPrompts{
	ImproveResume: `You are an expert ATS resume writer. IMPROVE this resume using the job description.

**ORIGINAL RESUME:**
%s

**JOB DESCRIPTION:**
%s

**RULES:**
1. PRESERVE truthful info (names, companies, dates)
2. FIX grammar and spelling
3. ADD keywords from JD naturally
4. ENHANCE bullets with action verbs + metrics
5. Include LinkedIn if available
6. Add Languages section if mentioned

**RETURN THIS JSON (NO MARKDOWN, NO CODE BLOCKS):**
{
    "name": "%s",
    "contact": {
        "email": "%s",
        "phone": "%s",
        "location": "City, State",
        "linkedin": "%s"
    },
    "summary": "2-3 sentences with years of experience, key skills matching JD, quantifiable achievements.",
    "experience": [
        {
            "title": "Actual Job Title",
            "company": "Actual Company",
            "duration": "MM/YYYY - MM/YYYY",
            "achievements": [
                "Led project achieving 30%% efficiency gain through implementation of X",
                "Managed team of 5 delivering solutions that increased revenue by $500K",
                "Optimized process reducing costs by 20%% using Y technology"
            ]
        }
    ],
    "education": [
        {"degree": "Actual Degree", "institution": "Actual School", "year": "YYYY", "gpa": "X.X (if mentioned)"}
    ],
    "skills": ["Skill1", "Skill2", "Skill3"],
    "certifications": ["Actual Cert 1", "Actual Cert 2"],
    "languages": ["English (Native)", "Spanish (Fluent)"],
    "projects": ["Project name: Description with impact metrics"]
}

QUALITY: Use strong action verbs (Led, Achieved, Implemented). Add metrics (%%, $, numbers). Keep bullets 10-20 words. Match JD keywords.`,
}

// resolvePrompt selects the correct prompt string based on priority:
// 1. A prompt defined in the configuration (inline or loaded from a file).
// 2. A hardcoded default prompt.
func resolvePrompt(fromConfig, fromDefault string) string {
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
