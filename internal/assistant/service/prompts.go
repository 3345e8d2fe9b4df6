package service

import (
	"fmt"
	"strings"

	assistantdomain "github.com/smallbiznis/quill/internal/assistant/domain"
)

const systemPrompt = "You are an expert writing assistant who improves texts while keeping the author's voice."

const jsonOnly = "Return ONLY a JSON value with the following structure, with no text before or after it:"

func buildPrompt(req assistantdomain.AssistRequest) (string, error) {
	text := strings.TrimSpace(req.Text)
	template := strings.TrimSpace(req.Template)
	subject := strings.TrimSpace(req.Subject)

	switch req.Action {
	case assistantdomain.ActionGenerateTemplate:
		if template == "" || subject == "" {
			return "", assistantdomain.ErrTemplateAndSubject
		}
		return fmt.Sprintf(`Write an academic document of type '%s' on the following subject: "%s".
%s
{
  "sections": [
    {
      "heading": "Section title",
      "content": "Detailed content",
      "subsections": [{"heading": "Subsection title", "content": "Detailed content"}]
    }
  ]
}
The document must be complete and well structured, with relevant content in every section.
For a '%s', include every essential section.`, template, subject, jsonOnly, template), nil

	case assistantdomain.ActionBibliography:
		if subject == "" {
			return "", assistantdomain.ErrSubjectRequired
		}
		return fmt.Sprintf(`Find bibliographic references on the following subject.
%s
{
  "references": [
    {
      "authors": ["Author names"],
      "title": "Title of the work",
      "publisher": "Publisher or journal",
      "year": "Year of publication",
      "doi": "DOI if available",
      "type": "Publication type",
      "language": "Publication language"
    }
  ],
  "keywords": ["Relevant keywords"],
  "disciplines": ["Related disciplines"]
}
Subject: "%s"`, jsonOnly, subject), nil
	}

	var body string
	switch req.Action {
	case assistantdomain.ActionImprove:
		body = `Improve this text to make it more professional and engaging.
%s
{
  "improvedText": "The improved text",
  "changes": ["Main improvements made"],
  "suggestions": ["Further suggestions"]
}
Original text: "%s"`
	case assistantdomain.ActionGrammar:
		body = `Fix the grammar, spelling and punctuation of this text.
%s
{
  "correctedText": "The corrected text",
  "corrections": [
    {"original": "Wrong text", "corrected": "Corrected text", "type": "grammar|spelling|punctuation"}
  ]
}
Text to correct: "%s"`
	case assistantdomain.ActionSuggest:
		body = `Propose three different ways to continue this text.
%s
{
  "originalContext": "Summary of the original context",
  "suggestions": [
    {"continuation": "A continuation", "style": "Its style", "tone": "Its tone"}
  ]
}
Text to continue: "%s"`
	case assistantdomain.ActionRephrase:
		body = `Rephrase this text differently.
%s
{
  "originalSummary": "Summary of the original",
  "rephrased": "The rephrased version",
  "preservedElements": ["Key elements kept"],
  "changes": ["Main changes"]
}
Text to rephrase: "%s"`
	case assistantdomain.ActionGenerateQuiz:
		body = `Write a quiz of 10 multiple-choice questions.
%s
[
  {
    "question": "The question",
    "options": ["Option 1", "Option 2", "Option 3", "Option 4"],
    "correctAnswer": 0,
    "explanation": "Why the answer is correct"
  }
]
Content: "%s"`
	case assistantdomain.ActionGenerateRevision:
		body = `Create a structured revision sheet.
%s
{
  "summary": "The summary",
  "keyPoints": ["Key point"],
  "concepts": {"Concept": "Explanation"},
  "examples": ["Example"]
}
Content: "%s"`
	default:
		return "", assistantdomain.ErrInvalidAction
	}

	if text == "" {
		return "", assistantdomain.ErrTextRequired
	}
	return fmt.Sprintf(body, jsonOnly, text), nil
}

// extractJSON strips markdown code fences the model sometimes wraps its
// answer in.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
