// Package prompts holds the prompt templates that guide scenario content
// generation. User prompts carry the learner's industry, role, and
// experience level so generated content stays personalized; JSON output
// instructions match the payload shapes the content package decodes.
package prompts

import (
	"fmt"
	"strings"
)

// SystemPrompt returns the system prompt establishing the security guide
// persona. Sent with every generation request.
func SystemPrompt() string {
	return `You are the Security Guide for CyberSaga, an immersive cybersecurity education platform.
Your role is to create engaging, educational cybersecurity scenarios that adapt to the user's industry,
role, and skill level. Each scenario should be realistic, relevant to current threats, and provide
valuable learning opportunities.

Maintain narrative coherence while tracking learning objectives. Analyze user decisions to identify
knowledge gaps and provide contextual explanations when users make security mistakes.`
}

// Scenario returns the prompt for generating a scenario narrative.
func Scenario(domain, difficulty, industry, role string) string {
	return fmt.Sprintf(`Create an engaging cybersecurity scenario focused on %s threats.
The scenario should be tailored for someone in the %s industry with a %s role and %s experience level.

Your scenario should:
1. Begin with a realistic situation that the user might encounter
2. Include specific details that make it relevant to their industry and role
3. Present a cybersecurity challenge that requires decision-making
4. Be educational while remaining engaging
5. Be written in second person ("you")
6. Be approximately 150-200 words

DO NOT include any decision points or questions. These are generated separately.

IMPORTANT: Return ONLY a JSON object in the following format with no additional text:

{
  "title": "A short, evocative scenario title",
  "description": "The scenario narrative text."
}`, domain, industry, role, difficulty)
}

// DecisionPoints returns the prompt for generating a batch of decision
// points for an existing scenario.
func DecisionPoints(title, domain, industry, role, difficulty string, count int) string {
	return fmt.Sprintf(`Create a series of %d decision points for a cybersecurity scenario titled "%s" in the %s domain.
The decision points should be appropriate for someone in the %s industry with a %s role and %s experience level.

Each decision point should:
1. Present a clear question related to the scenario
2. Offer 4 possible options/choices
3. Clearly mark which option is correct (only one option should be correct)
4. Include brief feedback for each option explaining its consequence
5. Increase in complexity/difficulty as they progress

IMPORTANT: Return ONLY the decision points in the following JSON format with no additional text, comments, or explanation:

[
  {
    "question": "What action should you take when...",
    "options": [
      {"text": "Option 1 description", "is_correct": false, "feedback": "Why this falls short"},
      {"text": "Option 2 description", "is_correct": true, "feedback": "Why this works"},
      {"text": "Option 3 description", "is_correct": false, "feedback": "Why this falls short"},
      {"text": "Option 4 description", "is_correct": false, "feedback": "Why this falls short"}
    ]
  }
]

Ensure the options are realistic, relevant to the %s industry, and the correct answer represents best security practices.`,
		count, title, domain, industry, role, difficulty, industry)
}

// Feedback returns the prompt for analyzing a recorded decision.
func Feedback(scenarioDescription, decision string, correct bool) string {
	correctness := "incorrect"
	if correct {
		correctness = "correct"
	}

	return fmt.Sprintf(`The user has made the following decision in response to a cybersecurity scenario about %s:

User's decision: %s

This decision is %s.

Provide a brief, concise analysis of this decision (50-75 words). Your analysis should:
1. Explain why the decision was good or problematic
2. Reference specific security principles relevant to the situation
3. Be educational without being condescending
4. Focus on practical implications

Return plain text only, no markup.`, scenarioDescription, decision, correctness)
}

// LearningMoment returns the prompt for generating educational content
// after a decision.
func LearningMoment(scenarioDescription, domain string) string {
	return fmt.Sprintf(`Create a concise learning moment related to the cybersecurity scenario about %s in the %s domain.

The learning moment should:
1. Highlight 1-2 key security principles relevant to the scenario
2. Explain why these principles matter in practical terms
3. Provide 2-3 specific, actionable recommendations for improving security practices
4. Be approximately 100-150 words

Return plain text only, no markup.`, scenarioDescription, domain)
}

// Assessment returns the prompt for generating the post-scenario knowledge
// assessment.
func Assessment(title, domain, industry, role, difficulty string, count int) string {
	return fmt.Sprintf(`Create a knowledge assessment for a cybersecurity scenario with the following details:

Scenario Title: %s
Domain: %s
User's Industry: %s
User's Role: %s
User's Experience Level: %s
Number of Questions: %d

Generate exactly %d multiple-choice questions that test the user's understanding of cybersecurity concepts related to the scenario domain. Each question should have 4 options with exactly one correct answer.

Format your response as a JSON object with the following structure and no additional text:

{
  "questions": [
    {
      "question": "Question text here?",
      "options": [
        {"text": "Option 1", "is_correct": false},
        {"text": "Option 2", "is_correct": true},
        {"text": "Option 3", "is_correct": false},
        {"text": "Option 4", "is_correct": false}
      ],
      "explanation": "Explanation of why the correct answer is right and why others are wrong."
    }
  ]
}

Make sure the questions:
1. Are relevant to the scenario domain
2. Test practical knowledge that would be useful in the user's role
3. Cover different aspects of the domain (prevention, detection, response, etc.)
4. Are at an appropriate difficulty level for the user's experience
5. Include clear explanations for each correct answer`,
		title, domain, industry, role, difficulty, count, count)
}

// Recommendations returns the prompt for generating personalized learning
// recommendations from accumulated performance.
func Recommendations(strengths, gaps []string, industry, role string) string {
	strengthList := strings.Join(strengths, ", ")
	if strengthList == "" {
		strengthList = "none identified yet"
	}
	gapList := strings.Join(gaps, ", ")
	if gapList == "" {
		gapList = "none identified yet"
	}

	return fmt.Sprintf(`Based on the user's performance across cybersecurity scenarios, generate personalized recommendations
for improving their security knowledge and practices.

The user has shown strengths in: %s
The user has shown knowledge gaps in: %s

Provide 3-5 specific, actionable recommendations that:
1. Address the identified knowledge gaps
2. Build upon existing strengths
3. Are relevant to their industry (%s) and role (%s)
4. Include specific resources or exercises when appropriate

Return the recommendations as a plain text list, one per line.`, strengthList, gapList, industry, role)
}
